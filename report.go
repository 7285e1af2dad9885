package roundtrip

import (
	"fmt"
	"time"
)

// Result of a verified round trip.
type Result struct {
	Codec      string
	Level      int
	InputSize  int
	OutputSize int
	Elapsed    time.Duration
}

// Ratio is compressed size relative to input size, 0 for empty input.
func (r Result) Ratio() float64 {
	if r.InputSize == 0 {
		return 0
	}
	return float64(r.OutputSize) / float64(r.InputSize)
}

func (r Result) String() string {
	return fmt.Sprintf("%s level %d: %d -> %d (%.3f) in %s",
		r.Codec, r.Level, r.InputSize, r.OutputSize, r.Ratio(), r.Elapsed)
}

// Measure verifies the round trip of input and reports payload size and
// time spent.
func Measure(c Codec, input string, level int) (Result, error) {
	start := time.Now()
	payload, err := roundTrip(c, input, level)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Codec:      c.Name(),
		Level:      level,
		InputSize:  len(input),
		OutputSize: len(payload),
		Elapsed:    time.Since(start),
	}, nil
}
