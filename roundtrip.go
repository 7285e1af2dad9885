// Package roundtrip verifies that compression codecs are lossless for text
// payloads: compress, decompress, compare.
package roundtrip

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	DefaultLevel    = -1
	NoCompression   = 0
	BestSpeed       = 1
	BestCompression = 9
)

var (
	ErrCorrupt      = errors.New("corrupt payload")
	ErrInvalidUTF8  = errors.New("invalid utf-8 text")
	ErrInvalidLevel = errors.New("invalid compression level")
	ErrUnknownCodec = errors.New("unknown codec")
)

// Codec is the compression capability under test.
type Codec interface {
	Name() string
	Compress(text string, level int) ([]byte, error)
	Decompress(payload []byte) (string, error)
}

// MismatchError reports a round trip that did not reproduce its input.
// Err is set when the decompression step rejected the payload.
type MismatchError struct {
	Codec    string
	Level    int
	Expected int
	Actual   int
	Offset   int
	Err      error
}

func (e *MismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s level %d: decompress failed: %s", e.Codec, e.Level, e.Err)
	}
	if e.Expected != e.Actual {
		return fmt.Sprintf("%s level %d: length mismatch, expected %d got %d, first difference at %d",
			e.Codec, e.Level, e.Expected, e.Actual, e.Offset)
	}
	return fmt.Sprintf("%s level %d: content mismatch at offset %d", e.Codec, e.Level, e.Offset)
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}

// Verify compresses input at level, decompresses the payload and compares
// the result with input.
func Verify(c Codec, input string, level int) error {
	_, err := roundTrip(c, input, level)
	return err
}

// roundTrip returns the compressed payload so callers can measure it.
func roundTrip(c Codec, input string, level int) ([]byte, error) {
	if !utf8.ValidString(input) {
		return nil, fmt.Errorf("%s: input: %w", c.Name(), ErrInvalidUTF8)
	}
	payload, err := c.Compress(input, level)
	if err != nil {
		return nil, fmt.Errorf("%s level %d: compress: %w", c.Name(), level, err)
	}
	output, err := c.Decompress(payload)
	if err != nil {
		return nil, &MismatchError{
			Codec:    c.Name(),
			Level:    level,
			Expected: len(input),
			Err:      err,
		}
	}
	if output != input {
		return nil, &MismatchError{
			Codec:    c.Name(),
			Level:    level,
			Expected: len(input),
			Actual:   len(output),
			Offset:   firstDifference(input, output),
		}
	}
	return payload, nil
}

func firstDifference(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
