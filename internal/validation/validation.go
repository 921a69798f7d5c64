// Package validation checks uploaded sources before conversion: compressed
// bodies are detected by their magic bytes and decoded, other binary
// content is rejected.
package validation

import (
	"bufio"
	"bytes"
	"io"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/stream"
)

// sniffLen is enough for every signature below.
const sniffLen = 512

// FileType is the kind of content detected at the start of a source.
type FileType string

const (
	FileTypeGzip   FileType = "gzip"
	FileTypeXZ     FileType = "xz"
	FileTypeZip    FileType = "zip"
	FileTypeTar    FileType = "tar"
	FileTypeSQLite FileType = "sqlite"
	FileTypeText   FileType = "text"
	FileTypeBinary FileType = "binary"
	FileTypeEmpty  FileType = "empty"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
	offset   int
}{
	{FileTypeGzip, []byte{0x1f, 0x8b}, 0},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, 0},
	{FileTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}, 0},
	{FileTypeSQLite, []byte("SQLite format 3"), 0},
	{FileTypeTar, []byte("ustar"), 257},
}

// DetectFileType classifies the first bytes of a source.
func DetectFileType(buf []byte) FileType {
	if len(buf) == 0 {
		return FileTypeEmpty
	}
	for _, sig := range magicBytes {
		if sig.offset+len(sig.magic) <= len(buf) &&
			bytes.Equal(buf[sig.offset:sig.offset+len(sig.magic)], sig.magic) {
			return sig.fileType
		}
	}
	if isLikelyText(buf) {
		return FileTypeText
	}
	return FileTypeBinary
}

// Source returns a text reader for an uploaded source. Gzip and XZ
// content is decompressed; at most limit decompressed bytes are read
// (0 = unlimited). Archives, databases and other binary content fail with
// ErrInvalidInput.
func Source(r io.Reader, limit int64) ([]byte, FileType, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", errors.NewIO("read", "upload", err)
	}

	kind := DetectFileType(head)
	var src io.Reader = br
	switch kind {
	case FileTypeGzip, FileTypeXZ:
		suffix := stream.Gzip
		if kind == FileTypeXZ {
			suffix = stream.XZ
		}
		dec, closer, err := stream.Decompress(br, suffix)
		if err != nil {
			return nil, kind, errors.Wrapf(errors.ErrInvalidInput, "corrupt %s upload: %v", kind, err)
		}
		if closer != nil {
			defer closer.Close()
		}
		src = dec
	case FileTypeText, FileTypeEmpty:
	default:
		return nil, kind, errors.Wrapf(errors.ErrInvalidInput, "%s content is not a sequence file", kind)
	}

	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, kind, errors.Wrapf(errors.ErrInvalidInput, "reading %s upload: %v", kind, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, kind, errors.Wrapf(errors.ErrInvalidInput, "upload exceeds %d bytes once decompressed", limit)
	}
	return data, kind, nil
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 continuation bytes (0x80-0xBF) and start bytes (0xC0-0xFD) are neutral
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
