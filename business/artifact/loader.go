package artifact

import (
	"context"
	"fmt"
	"time"

	"myCreditAdvisor/business/encoder"
	"myCreditAdvisor/business/knn"
	"myCreditAdvisor/domain"
	"myCreditAdvisor/pkg/logger"
)

// BlobSource fetches an artifact file by name.
type BlobSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DatasetRepository reads the reference dataset from a database instead of
// the CSV artifact.
type DatasetRepository interface {
	LoadReferenceRows(ctx context.Context) ([]domain.ReferenceCustomer, error)
}

type Files struct {
	Index    string
	Encoders string
	Dataset  string
}

type Options struct {
	Files     Files
	Encodings []string
	// DebtUnit is the configured unit, used when the index does not declare one.
	DebtUnit string
	Products []string
}

// Artifacts is everything a recommendation needs. It is built once at startup
// and never modified.
type Artifacts struct {
	Index    *knn.Index
	Encoders *encoder.Set
	Dataset  *Dataset
	DebtUnit encoder.DebtUnit
}

type Loader struct {
	blobs BlobSource
	rows  DatasetRepository
	opts  Options
}

// NewLoader returns a loader reading every artifact from blobs. When rows is
// not nil the dataset comes from it instead of the CSV file.
func NewLoader(blobs BlobSource, rows DatasetRepository, opts Options) *Loader {
	return &Loader{
		blobs: blobs,
		rows:  rows,
		opts:  opts,
	}
}

func (l *Loader) Load(ctx context.Context) (*Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if l.rows == nil {
		if err := ValidateEncodings(l.opts.Encodings); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
		}
	}

	var idx *decodedIndex
	err := l.timed(ctx, "index", l.opts.Files.Index, func(raw []byte) (err error) {
		idx, err = decodeIndex(raw)
		return err
	})
	if err != nil {
		return nil, err
	}

	var encoders *encoder.Set
	err = l.timed(ctx, "encoders", l.opts.Files.Encoders, func(raw []byte) (err error) {
		encoders, err = decodeEncoders(raw)
		return err
	})
	if err != nil {
		return nil, err
	}

	dataset, err := l.loadDataset(ctx)
	if err != nil {
		return nil, err
	}

	if dataset.Len() != idx.index.Len() {
		return nil, fmt.Errorf("%w: index has %d rows, dataset has %d", ErrArtifactLoad, idx.index.Len(), dataset.Len())
	}

	unit, err := resolveDebtUnit(idx.debtUnit, l.opts.DebtUnit)
	if err != nil {
		return nil, err
	}

	if err := l.checkProducts(dataset); err != nil {
		return nil, err
	}

	logger.Info("Artifacts loaded",
		"rows", dataset.Len(),
		"metric", string(idx.index.Metric()),
		"debt_unit", string(unit),
		"encoding", dataset.Encoding(),
	)

	return &Artifacts{
		Index:    idx.index,
		Encoders: encoders,
		Dataset:  dataset,
		DebtUnit: unit,
	}, nil
}

func (l *Loader) loadDataset(ctx context.Context) (*Dataset, error) {
	if l.rows != nil {
		start := time.Now()
		rows, err := l.rows.LoadReferenceRows(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: reference rows: %w", ErrArtifactLoad, err)
		}
		ArtifactLoadSeconds.WithLabelValues("dataset").Observe(time.Since(start).Seconds())
		return DatasetFromReferenceRows(rows)
	}

	var ds *Dataset
	err := l.timed(ctx, "dataset", l.opts.Files.Dataset, func(raw []byte) (err error) {
		ds, err = ParseCSV(raw, l.opts.Encodings)
		return err
	})
	return ds, err
}

func (l *Loader) timed(ctx context.Context, label, name string, decode func([]byte) error) error {
	start := time.Now()
	raw, err := l.blobs.Fetch(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %w", ErrArtifactLoad, name, err)
	}
	if err := decode(raw); err != nil {
		return err
	}
	ArtifactLoadSeconds.WithLabelValues(label).Observe(time.Since(start).Seconds())
	logger.Debug("Artifact fetched", "artifact", label, "name", name, "bytes", len(raw))
	return nil
}

// checkProducts rejects a configured product whose column holds non numeric
// data. Absent products are only logged; the scorer skips them.
func (l *Loader) checkProducts(ds *Dataset) error {
	for _, p := range l.opts.Products {
		if !ds.HasColumn(p) {
			logger.Warn("Product column missing from dataset", "product", p)
			continue
		}
		if _, ok := ds.Column(p); !ok {
			return fmt.Errorf("%w: product column %q is not numeric", ErrArtifactLoad, p)
		}
	}
	return nil
}
