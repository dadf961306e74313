package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

const drawingMLNS = "http://schemas.openxmlformats.org/drawingml/2006/main"

var errEntryTooLarge = errors.New("decompressed size limit exceeded")

func openZip(data []byte) (*zip.Reader, error) {
	if len(data) == 0 {
		return nil, errors.New("empty archive")
	}
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

// openZipEntry streams f, failing with errEntryTooLarge once more than limit bytes
// have been inflated. The declared size is checked first but not trusted.
func openZipEntry(f *zip.File, limit int64) (io.ReadCloser, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%s: %w (%d bytes)", zipEntryName(f), errEntryTooLarge, limit)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", zipEntryName(f), err)
	}
	return &cappedEntry{ReadCloser: rc, left: limit}, nil
}

type cappedEntry struct {
	io.ReadCloser
	left int64
}

func (c *cappedEntry) Read(p []byte) (int, error) {
	if c.left <= 0 {
		var one [1]byte
		n, err := c.ReadCloser.Read(one[:])
		if n > 0 {
			return 0, errEntryTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.ReadCloser.Read(p)
	c.left -= int64(n)
	return n, err
}

func zipEntryName(f *zip.File) string {
	return strings.ReplaceAll(f.Name, "\\", "/")
}
