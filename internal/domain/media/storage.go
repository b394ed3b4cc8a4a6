package media

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrUpload indicates the storage backend rejected or failed a file.
	ErrUpload       = eris.New("upload failed")
	// ErrEmptyFile indicates a zero byte upload.
	ErrEmptyFile    = eris.New("file is empty")
	// ErrFileTooLarge indicates an upload above the configured limit.
	ErrFileTooLarge = eris.New("file is too large")
)

// UploadError carries the storage backend's rejection.
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	return "upload failed: " + e.Message
}

// Is matches ErrUpload.
func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}

// File is an uploaded file held in memory until it is relayed.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store persists a file and returns its public URL.
type Store interface {
	Store(ctx context.Context, file File) (string, error)
}

// Validate checks the file against the size limit. A limit of zero disables the check.
func (f File) Validate(maxBytes int64) error {
	if len(f.Data) == 0 {
		return eris.Wrapf(ErrEmptyFile, "file %s", f.Name)
	}
	if maxBytes > 0 && int64(len(f.Data)) > maxBytes {
		return eris.Wrapf(ErrFileTooLarge, "file %s exceeds %d bytes", f.Name, maxBytes)
	}
	return nil
}

// IsImage reports whether the file looks like an image by type or extension.
func (f File) IsImage() bool {
	if strings.HasPrefix(f.ContentType, "image/") {
		return true
	}
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".avif":
		return true
	}
	return false
}

// ReadFile loads a multipart file into memory, reading at most maxBytes+1 bytes.
func ReadFile(header *multipart.FileHeader, maxBytes int64) (File, error) {
	if header == nil {
		return File{}, eris.New("file header is nil")
	}

	src, err := header.Open()
	if err != nil {
		return File{}, eris.Wrapf(err, "opening upload %s", header.Filename)
	}
	defer src.Close()

	var reader io.Reader = src
	if maxBytes > 0 {
		reader = io.LimitReader(src, maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return File{}, eris.Wrapf(err, "reading upload %s", header.Filename)
	}

	file := File{
		Name:        filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	if file.ContentType == "" {
		file.ContentType = "application/octet-stream"
	}

	return file, file.Validate(maxBytes)
}
