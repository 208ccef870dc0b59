package readers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the stream codec implied by a trailing file extension.
type Compression uint8

const (
	None Compression = iota
	Gzip
	Zstd
	LZ4
)

func (c Compression) String() string {
	return [...]string{"none", "gzip", "zstd", "lz4"}[c]
}

// SplitCompression strips a compression suffix and returns the remaining
// name with its codec.
func SplitCompression(filename string) (base string, c Compression) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		c = Gzip
	case ".zst", ".zstd":
		c = Zstd
	case ".lz4":
		c = LZ4
	default:
		return filename, None
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)), c
}

type multiCloser struct {
	io.Reader
	io.Writer
	closers []func() error // Closed in order
}

func (mc *multiCloser) Close() (err error) {
	for _, c := range mc.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}

// openDecompressed opens filename for reading through its codec.
func openDecompressed(filename string, c Compression) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	mc := &multiCloser{}
	switch c {
	case None:
		mc.Reader = file
	case Gzip:
		zr, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		mc.Reader, mc.closers = zr, append(mc.closers, zr.Close)
	case Zstd:
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		mc.Reader, mc.closers = zr, append(mc.closers, func() error { zr.Close(); return nil })
	case LZ4:
		mc.Reader = lz4.NewReader(file)
	}
	mc.closers = append(mc.closers, file.Close)
	return mc, nil
}

// createCompressed creates filename for writing through its codec. The
// codec is flushed before the file is closed.
func createCompressed(filename string, c Compression) (io.WriteCloser, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	mc := &multiCloser{}
	switch c {
	case None:
		mc.Writer = file
	case Gzip:
		zw := gzip.NewWriter(file)
		mc.Writer, mc.closers = zw, append(mc.closers, zw.Close)
	case Zstd:
		zw, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		mc.Writer, mc.closers = zw, append(mc.closers, zw.Close)
	case LZ4:
		zw := lz4.NewWriter(file)
		mc.Writer, mc.closers = zw, append(mc.closers, zw.Close)
	}
	mc.closers = append(mc.closers, file.Close)
	return mc, nil
}
