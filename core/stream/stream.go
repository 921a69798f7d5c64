// Package stream opens conversion sources and destinations, handling
// compression by file suffix and the "-" convention for stdin and stdout.
package stream

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/FocuswithJustin/seqconvert/core/errors"
)

// StdPath selects stdin for Open and stdout for Create.
const StdPath = "-"

// Compression suffixes understood by Open and Create.
const (
	Gzip = ".gz"
	XZ   = ".xz"
)

// Compression returns the compression suffix of path, or "".
func Compression(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, Gzip):
		return path[len(path)-len(Gzip):]
	case strings.HasSuffix(lower, XZ):
		return path[len(path)-len(XZ):]
	}
	return ""
}

// Reader is a decoded text source. Invalid UTF-8 is replaced with U+FFFD.
type Reader struct {
	io.Reader
	file         *os.File
	decompressor io.Closer
}

// Open opens path for reading.
func Open(path string) (*Reader, error) {
	if path == StdPath {
		return &Reader{Reader: Text(os.Stdin)}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	reader, decompressor, err := Decompress(bufio.NewReader(f), Compression(path))
	if err != nil {
		f.Close()
		return nil, errors.NewIO("decompress", path, err)
	}

	return &Reader{
		Reader:       Text(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Decompress wraps r with the decoder for a compression suffix. An empty
// or unknown suffix returns r unchanged. The closer is nil when the
// decoder needs no closing.
func Decompress(r io.Reader, suffix string) (io.Reader, io.Closer, error) {
	switch strings.ToLower(suffix) {
	case XZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xzr, nil, nil
	case Gzip:
		gzr, err := pgzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gzr, gzr, nil
	}
	return r, nil, nil
}

// Close closes the reader and any underlying decompressor.
func (r *Reader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Text wraps r so that ill-formed UTF-8 sequences decode as U+FFFD.
func Text(r io.Reader) io.Reader {
	return transform.NewReader(r, runes.ReplaceIllFormed())
}

// Writer is a destination, compressing by suffix.
type Writer struct {
	io.Writer
	file       *os.File
	compressor io.WriteCloser
	buf        *bufio.Writer
}

// Create creates or truncates path for writing.
func Create(path string) (*Writer, error) {
	if path == StdPath {
		buf := bufio.NewWriter(os.Stdout)
		return &Writer{Writer: buf, buf: buf}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create", path, err)
	}
	buf := bufio.NewWriter(f)
	w := &Writer{Writer: buf, file: f, buf: buf}

	switch strings.ToLower(Compression(path)) {
	case XZ:
		xzw, err := xz.NewWriter(buf)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("compress", path, err)
		}
		w.Writer, w.compressor = xzw, xzw
	case Gzip:
		gzw := pgzip.NewWriter(buf)
		w.Writer, w.compressor = gzw, gzw
	}
	return w, nil
}

// Close flushes all buffered and compressed output and closes the file.
func (w *Writer) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if w.compressor != nil {
		keep(w.compressor.Close())
	}
	keep(w.buf.Flush())
	if w.file != nil {
		keep(w.file.Close())
	}
	return first
}
