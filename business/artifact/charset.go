package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errUndecodable = errors.New("bytes not valid in encoding")

type decodeFunc func([]byte) ([]byte, error)

func normalizeEncoding(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "")
	return strings.ReplaceAll(n, "_", "")
}

func decoderFor(name string) (decodeFunc, error) {
	switch normalizeEncoding(name) {
	case "utf8":
		return decodeUTF8, nil
	case "latin1", "iso88591", "l1":
		return charmapDecoder(charmap.ISO8859_1), nil
	case "cp1252", "windows1252":
		return charmapDecoder(charmap.Windows1252), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}

func decodeUTF8(b []byte) ([]byte, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if !utf8.Valid(b) {
		return nil, errUndecodable
	}
	return b, nil
}

// charmapDecoder treats a replacement rune in the output as a failure: the
// charmap decoders map undefined bytes to U+FFFD instead of erroring.
func charmapDecoder(cm *charmap.Charmap) decodeFunc {
	return func(b []byte) ([]byte, error) {
		out, err := cm.NewDecoder().Bytes(b)
		if err != nil {
			return nil, err
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return nil, errUndecodable
		}
		return out, nil
	}
}

// ValidateEncodings rejects unknown names before any artifact is fetched.
func ValidateEncodings(encodings []string) error {
	if len(encodings) == 0 {
		return errors.New("no encodings configured")
	}
	for _, name := range encodings {
		if _, err := decoderFor(name); err != nil {
			return err
		}
	}
	return nil
}
