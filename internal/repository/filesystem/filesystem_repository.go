package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilesystemRepository reads artifacts from a local directory.
type FilesystemRepository struct {
	dir string
}

func NewFilesystemRepository(dir string) *FilesystemRepository {
	return &FilesystemRepository{
		dir: dir,
	}
}

func (r *FilesystemRepository) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if !filepath.IsLocal(name) {
		return nil, fmt.Errorf("artifact name %q escapes %s", name, r.dir)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return data, nil
}
