package fileutil

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
)

// ReadText reads a file from fs as UTF-8 text.
// Invalid byte sequences are replaced with U+FFFD instead of failing the read;
// the returned bool reports whether any replacement happened.
func ReadText(fs afero.Fs, path string) (string, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if utf8.Valid(data) {
		return string(data), false, nil
	}

	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return string(decoded), true, nil
}
