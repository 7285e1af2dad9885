package roundtrip

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// LoadFixture reads the whole file at path as UTF-8 text.
func LoadFixture(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load fixture: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("load fixture %s: %w", path, ErrInvalidUTF8)
	}
	return string(data), nil
}

// VerifyFile loads the fixture at path and verifies it. Nothing is
// compressed when the fixture can't be loaded.
func VerifyFile(c Codec, path string, level int) error {
	input, err := LoadFixture(path)
	if err != nil {
		return err
	}
	return Verify(c, input, level)
}
