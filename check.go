package roundtrip

import "context"

// Check is a round trip running in the background. Its result is observed
// only through Wait, so a caller cannot finish before the comparison ran.
type Check struct {
	done chan struct{}
	err  error
}

// Go loads the input and verifies it with c at level in a new goroutine.
func Go(ctx context.Context, c Codec, load func() (string, error), level int) *Check {
	ch := &Check{done: make(chan struct{})}
	go func() {
		defer close(ch.done)
		ch.err = ch.run(ctx, c, load, level)
	}()
	return ch
}

func (ch *Check) run(ctx context.Context, c Codec, load func() (string, error), level int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	input, err := load()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return Verify(c, input, level)
}

// Done is closed when the check finished.
func (ch *Check) Done() <-chan struct{} {
	return ch.done
}

// Wait blocks until the check finished or ctx is done. Returns ctx.Err() in
// the latter case, never nil.
func (ch *Check) Wait(ctx context.Context) error {
	select {
	case <-ch.done:
		return ch.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
