package compressor

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/fmahebert/eckit/pkg/buffer"
)

type gzipCodec struct{}

func (gzipCodec) Compress(src []byte, dst *buffer.Buffer) (int, error) {
	dst.Reset()
	w := gzip.NewWriter(dst)
	if _, err := w.Write(src); err != nil {
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return dst.Len(), nil
}

func (gzipCodec) Uncompress(src []byte, dst *buffer.Buffer) (int, error) {
	dst.Reset()
	r, err := gzip.NewReader(bytes.NewReader(src))
	if err != nil {
		return 0, err
	}
	defer r.Close()
	if _, err := io.Copy(dst, r); err != nil {
		return 0, err
	}
	return dst.Len(), nil
}

type snappyCodec struct{}

func (snappyCodec) Compress(src []byte, dst *buffer.Buffer) (int, error) {
	out := snappy.Encode(nil, src)
	dst.Reset()
	return dst.Write(out)
}

func (snappyCodec) Uncompress(src []byte, dst *buffer.Buffer) (int, error) {
	out, err := snappy.Decode(nil, src)
	if err != nil {
		return 0, err
	}
	dst.Reset()
	return dst.Write(out)
}

type s2Codec struct{}

func (s2Codec) Compress(src []byte, dst *buffer.Buffer) (int, error) {
	out := s2.Encode(nil, src)
	dst.Reset()
	return dst.Write(out)
}

func (s2Codec) Uncompress(src []byte, dst *buffer.Buffer) (int, error) {
	out, err := s2.Decode(nil, src)
	if err != nil {
		return 0, err
	}
	dst.Reset()
	return dst.Write(out)
}

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() *zstdCodec {
	enc, _ := zstd.NewWriter(nil)
	dec, _ := zstd.NewReader(nil)
	return &zstdCodec{enc: enc, dec: dec}
}

func (c *zstdCodec) Compress(src []byte, dst *buffer.Buffer) (int, error) {
	out := c.enc.EncodeAll(src, nil)
	dst.Reset()
	return dst.Write(out)
}

func (c *zstdCodec) Uncompress(src []byte, dst *buffer.Buffer) (int, error) {
	out, err := c.dec.DecodeAll(src, nil)
	if err != nil {
		return 0, err
	}
	dst.Reset()
	return dst.Write(out)
}

func init() {
	Register("gzip", gzipCodec{})
	Register("snappy", snappyCodec{})
	Register("s2", s2Codec{})
	Register("zstd", newZstdCodec())
}
