// Package storage keeps guest identity pictures on local disk.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("identity picture must be a JPEG, PNG or WebP image")
	ErrTooLarge        = errors.New("identity picture is too large")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Pictures saves uploads under Dir as <yyyymmdd>-<uuid><ext>.  The date
// prefix groups files by upload day; the uuid keeps names unique.
type Pictures struct {
	Dir      string
	MaxBytes int64
	now      func() time.Time
}

func NewPictures(dir string, maxBytes int64) *Pictures {
	return &Pictures{Dir: dir, MaxBytes: maxBytes, now: time.Now}
}

// Save stores an uploaded file and returns the generated file name.  The
// content type is sniffed from the first 512 bytes, not taken from the
// client.
func (p *Pictures) Save(fh *multipart.FileHeader) (string, error) {
	if p.MaxBytes > 0 && fh.Size > p.MaxBytes {
		return "", ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return p.save(src)
}

func (p *Pictures) save(src io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := allowedTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrUnsupportedType
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", p.Dir, err)
	}
	name := p.now().Format("20060102") + "-" + uuid.New().String() + ext
	full := filepath.Join(p.Dir, name)
	out, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", full, err)
	}
	defer out.Close()

	body := io.MultiReader(bytes.NewReader(head[:n]), src)
	if p.MaxBytes > 0 {
		body = io.LimitReader(body, p.MaxBytes+1)
	}
	written, err := io.Copy(out, body)
	if err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("write %s: %w", full, err)
	}
	if p.MaxBytes > 0 && written > p.MaxBytes {
		_ = os.Remove(full)
		return "", ErrTooLarge
	}
	return name, nil
}

// Remove deletes a stored picture.  A missing file is not an error.
func (p *Pictures) Remove(name string) error {
	err := os.Remove(filepath.Join(p.Dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
