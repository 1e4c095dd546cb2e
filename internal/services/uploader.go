package services

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jslopes/journal-backend/internal/apierror"
	"github.com/jslopes/journal-backend/internal/validation"
)

// MaxUploadSize is the largest accepted image, 5 MiB.
const MaxUploadSize = 5 << 20

// imageExtensions maps each allowed MIME type to the extension stored on
// disk. The extension always comes from this table, never from the client
// filename, so a crafted filename cannot smuggle an executable suffix or a
// path separator into the upload directory.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader persists validated image uploads under a single directory and
// hands back paths relative to it, prefixed with uploads/.
type Uploader struct {
	dir string
	log zerolog.Logger
}

func NewUploader(dir string, log zerolog.Logger) *Uploader {
	return &Uploader{dir: dir, log: log}
}

// SaveImage validates fileHeader and writes its bytes to disk. The returned
// path has the form uploads/<uuid><ext>. Nothing is written until every
// check has passed, and the write itself goes through a temp file plus
// rename so a partially written file is never visible under its final name.
func (u *Uploader) SaveImage(fileHeader *multipart.FileHeader) (string, *apierror.APIError) {
	declared, _, err := mime.ParseMediaType(fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", apierror.UnsupportedMediaType(fileHeader.Header.Get("Content-Type"))
	}
	ext, ok := imageExtensions[declared]
	if !ok {
		return "", apierror.UnsupportedMediaType(declared)
	}

	if fileHeader.Size > MaxUploadSize {
		return "", apierror.PayloadTooLarge(MaxUploadSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apierror.UploadTransport("Failed to read uploaded image")
	}
	defer file.Close()

	// Read one byte past the limit so an understated Size header can't
	// sneak an oversized body through.
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return "", apierror.UploadTransport("Failed to read uploaded image")
	}
	if int64(len(data)) > MaxUploadSize {
		return "", apierror.PayloadTooLarge(MaxUploadSize)
	}

	// The declared type must match the actual bytes; a renamed payload with
	// an image Content-Type is rejected here.
	if sniffed := mimetype.Detect(data); !sniffed.Is(declared) {
		return "", apierror.UnsupportedMediaType(sniffed.String())
	}

	name := uuid.NewString() + ext
	path, err := u.writeAtomic(name, data)
	if err != nil {
		u.log.Error().Err(err).Str("path", path).Msg("failed to persist upload")
		return "", apierror.StorageWrite()
	}

	return validation.UploadPrefix + name, nil
}

// writeAtomic writes data to a temp file in the upload directory and renames
// it into place, creating the directory first if needed.
func (u *Uploader) writeAtomic(name string, data []byte) (string, error) {
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return u.dir, fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(u.dir, ".upload-*")
	if err != nil {
		return u.dir, fmt.Errorf("create temp file: %w", err)
	}

	path := filepath.Join(u.dir, name)
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return path, fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return path, fmt.Errorf("rename temp file: %w", err)
	}
	return path, nil
}
