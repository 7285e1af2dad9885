package roundtrip

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"unicode/utf8"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// DefaultCodec produces zlib wrapped deflate streams, the format browser
// side deflate libraries emit by default.
const DefaultCodec = "zlib"

var codecs = map[string]Codec{}

func init() {
	for _, c := range []Codec{
		zlibCodec{},
		deflateCodec{},
		gzipCodec{},
		newZstdCodec(),
		snappyCodec{},
		permessageDeflate{},
	} {
		codecs[c.Name()] = c
	}
}

// Codecs returns all registered codecs ordered by name.
func Codecs() []Codec {
	names := make([]string, 0, len(codecs))
	for n := range codecs {
		names = append(names, n)
	}
	sort.Strings(names)
	cs := make([]Codec, 0, len(names))
	for _, n := range names {
		cs = append(cs, codecs[n])
	}
	return cs
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// Levels lists every level accepted by the codecs.
func Levels() []int {
	ls := make([]int, 0, BestCompression-DefaultLevel+1)
	for l := DefaultLevel; l <= BestCompression; l++ {
		ls = append(ls, l)
	}
	return ls
}

func checkLevel(level int) error {
	if level < DefaultLevel || level > BestCompression {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	return nil
}

func corrupt(err error) error {
	return fmt.Errorf("%w: %w", ErrCorrupt, err)
}

func text(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}

// writeAll compresses text through the writer returned by open.
func writeAll(text string, open func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	buf := &bytes.Buffer{}
	w, err := open(buf)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readAll inflates payload through the reader returned by open.
func readAll(payload []byte, open func(io.Reader) (io.ReadCloser, error)) (string, error) {
	r, err := open(bytes.NewReader(payload))
	if err != nil {
		return "", corrupt(err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", corrupt(err)
	}
	return text(data)
}

type zlibCodec struct{}

func (zlibCodec) Name() string { return "zlib" }

func (zlibCodec) Compress(text string, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return writeAll(text, func(w io.Writer) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, level)
	})
}

func (zlibCodec) Decompress(payload []byte) (string, error) {
	return readAll(payload, zlib.NewReader)
}

// deflateCodec is raw deflate without header or checksum.
type deflateCodec struct{}

func (deflateCodec) Name() string { return "deflate" }

func (deflateCodec) Compress(text string, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return writeAll(text, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
}

func (deflateCodec) Decompress(payload []byte) (string, error) {
	return readAll(payload, func(r io.Reader) (io.ReadCloser, error) {
		return flate.NewReader(r), nil
	})
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return "gzip" }

func (gzipCodec) Compress(text string, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return writeAll(text, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, level)
	})
}

func (gzipCodec) Decompress(payload []byte) (string, error) {
	return readAll(payload, func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	})
}

// zstdCodec keeps one encoder per level and a shared decoder. EncodeAll and
// DecodeAll are safe for concurrent use.
type zstdCodec struct {
	encoders map[int]*zstd.Encoder
	decoder  *zstd.Decoder
}

func newZstdCodec() *zstdCodec {
	c := &zstdCodec{encoders: make(map[int]*zstd.Encoder)}
	for _, level := range Levels() {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstdLevel(level)),
			zstd.WithZeroFrames(true))
		if err != nil {
			panic(err)
		}
		c.encoders[level] = enc
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		panic(err)
	}
	c.decoder = dec
	return c
}

// zstdLevel maps deflate style levels onto zstd encoder levels. zstd has
// no stored mode so NoCompression uses the fastest encoder.
func zstdLevel(level int) zstd.EncoderLevel {
	if level == DefaultLevel {
		return zstd.SpeedDefault
	}
	return zstd.EncoderLevelFromZstd(level)
}

const zstdMagicSize = 4

func (c *zstdCodec) Name() string { return "zstd" }

func (c *zstdCodec) Compress(text string, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return c.encoders[level].EncodeAll([]byte(text), nil), nil
}

func (c *zstdCodec) Decompress(payload []byte) (string, error) {
	// encoders write zero frames, a valid payload holds at least the frame
	// magic. The decoder treats shorter input as end of stream.
	if len(payload) < zstdMagicSize {
		return "", corrupt(io.ErrUnexpectedEOF)
	}
	data, err := c.decoder.DecodeAll(payload, nil)
	if err != nil {
		return "", corrupt(err)
	}
	return text(data)
}

// snappyCodec has no levels, any valid level is accepted and ignored.
type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Compress(text string, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return nil, err
	}
	return snappy.Encode(nil, []byte(text)), nil
}

func (snappyCodec) Decompress(payload []byte) (string, error) {
	data, err := snappy.Decode(nil, payload)
	if err != nil {
		return "", corrupt(err)
	}
	return text(data)
}

// Names returns the names of the registered codecs ordered by name.
func Names() []string {
	names := make([]string, 0, len(codecs))
	for _, c := range Codecs() {
		names = append(names, c.Name())
	}
	return names
}

func validCodec(name string) bool {
	_, ok := codecs[name]
	return ok
}
