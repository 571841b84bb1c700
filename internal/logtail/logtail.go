package logtail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies the container a log stream arrives in.
type Format int

const (
	Plain Format = iota
	Gzip
	Zstd
	LZ4
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "plain"
	}
}

var magics = []struct {
	format Format
	prefix []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{LZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
}

// Detect reports the format whose magic number head starts with.
func Detect(head []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.prefix) {
			return m.format
		}
	}
	return Plain
}

// StdinPath selects standard input in Open and Read.
const StdinPath = "-"

const maxLineBytes = 16 * 1024 * 1024

// Open returns the decompressed contents of the file at path. An empty
// path or "-" reads standard input.
func Open(path string) (io.ReadCloser, error) {
	var src io.ReadCloser
	if path == "" || path == StdinPath {
		src = io.NopCloser(os.Stdin)
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		src = file
	}

	rc, _, err := NewReader(src)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return &stack{Reader: rc, closers: []io.Closer{rc, src}}, nil
}

// NewReader wraps r, decompressing it when it begins with a gzip, zstd or
// lz4 frame magic number. Closing the result does not close r.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, Plain, fmt.Errorf("read log: %w", err)
	}

	format := Detect(head)
	switch format {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("decompress log: %w", err)
		}
		return zr, format, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, format, fmt.Errorf("decompress log: %w", err)
		}
		return zr.IOReadCloser(), format, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), format, nil
	default:
		return io.NopCloser(br), format, nil
	}
}

// ReadAll reads r to the end. When maxLines is positive only the last
// maxLines lines are kept.
func ReadAll(r io.Reader, maxLines int) ([]byte, error) {
	if maxLines <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return data, nil
	}

	ring := make([][]byte, maxLines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = append(ring[idx][:0], scanner.Bytes()...)
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([][]byte, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return bytes.Join(lines, []byte{'\n'}), nil
}

// Read returns the decompressed contents of path, keeping only the last
// maxLines lines when maxLines is positive.
func Read(path string, maxLines int) ([]byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadAll(rc, maxLines)
}

type stack struct {
	io.Reader
	closers []io.Closer
}

func (s *stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
