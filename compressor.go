package roundtrip

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// Deflate tail removed from each message after sync flush and appended back
// before inflating. Followed by an empty final stored block so the reader
// sees end of stream.
// https://datatracker.ietf.org/doc/html/rfc7692#section-7.2.1
var (
	syncFlushTail     = []byte{0x00, 0x00, 0xff, 0xff}
	compressLastBlock = []byte{0x00, 0x00, 0xff, 0xff, 0x01, 0x00, 0x00, 0xff, 0xff}
)

// One pool per level, index is level - DefaultLevel.
var compressors [BestCompression - DefaultLevel + 1]sync.Pool

var decompressors = sync.Pool{
	New: func() any {
		return newDecompressor()
	},
}

func init() {
	for i := range compressors {
		level := i + DefaultLevel
		compressors[i].New = func() any {
			c, err := newCompressor(level)
			if err != nil {
				// pools exist only for levels flate accepts
				panic(err)
			}
			return c
		}
	}
}

type compressor struct {
	w *flate.Writer
}

func newCompressor(level int) (*compressor, error) {
	w, err := flate.NewWriter(nil, level)
	if err != nil {
		return nil, err
	}
	return &compressor{
		w: w,
	}, nil
}

func (c *compressor) compress(payload []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := c.w
	w.Reset(buf)

	if _, err := w.Write(payload); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	b := buf.Bytes()
	return b[:len(b)-len(syncFlushTail)], nil
}

type decompressor struct {
	r io.ReadCloser
}

func newDecompressor() *decompressor {
	return &decompressor{
		r: flate.NewReader(nil),
	}
}

func (c *decompressor) decompress(payload []byte) ([]byte, error) {
	buf := make([]byte, 0, len(payload)+len(compressLastBlock))
	buf = append(append(buf, payload...), compressLastBlock...)
	if err := c.r.(flate.Resetter).Reset(bytes.NewReader(buf), nil); err != nil {
		return nil, err
	}
	return io.ReadAll(c.r)
}

// permessageDeflate compresses each text as a single WebSocket message with
// pooled flate state.
type permessageDeflate struct{}

func (permessageDeflate) Name() string { return "permessage-deflate" }

func (permessageDeflate) Compress(text string, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	pool := &compressors[level-DefaultLevel]
	c := pool.Get().(*compressor)
	defer pool.Put(c)
	return c.compress([]byte(text))
}

func (permessageDeflate) Decompress(payload []byte) (string, error) {
	d := decompressors.Get().(*decompressor)
	defer decompressors.Put(d)
	data, err := d.decompress(payload)
	if err != nil {
		return "", corrupt(err)
	}
	return text(data)
}
