// Package upload stores client-submitted listing images and hands back the
// public path they are served under.
package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageBytes is the upload size ceiling.
const MaxImageBytes = 5 << 20

var (
	ErrTooLarge = errors.New("file too large")
	ErrNotImage = errors.New("only image files allowed")
)

// Saver stores one uploaded file and returns its public path.
type Saver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// Disk writes uploads into a directory served under PublicPath. Filenames are
// freshly generated per upload, so distinct uploads never collide.
type Disk struct {
	Dir        string
	PublicPath string
}

func NewDisk(dir, publicPath string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{Dir: dir, PublicPath: publicPath}, nil
}

func (d *Disk) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxImageBytes {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", ErrNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	return path.Join(d.PublicPath, name), nil
}
