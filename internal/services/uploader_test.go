package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jslopes/journal-backend/internal/apierror"
)

var (
	pngData  = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0}, 16)...)
	jpegData = append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0}, 16)...)
	gifData  = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 16)...)
	webpData = append([]byte("RIFF\x24\x00\x00\x00WEBP"), bytes.Repeat([]byte{0}, 16)...)
)

// newFileHeader builds a real multipart.FileHeader the way net/http would
// hand one to the handler.
func newFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("part.Write: %v", err)
	}
	mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["image"]
	if len(files) != 1 {
		t.Fatalf("got %d file parts, want 1", len(files))
	}
	return files[0]
}

func dirFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return len(entries)
}

func TestSaveImageStoresPNG(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(dir, zerolog.Nop())

	url, apiErr := u.SaveImage(newFileHeader(t, "photo.png", "image/png", pngData))
	if apiErr != nil {
		t.Fatalf("SaveImage() = %v, want nil error", apiErr)
	}
	if !strings.HasPrefix(url, "uploads/") {
		t.Errorf("url = %q, want uploads/ prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want .png suffix", url)
	}

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "uploads/")))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, pngData) {
		t.Error("stored bytes differ from uploaded bytes")
	}
}

func TestSaveImageExtensionComesFromMIME(t *testing.T) {
	// The client filename never decides the stored extension.
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		wantExt     string
	}{
		{"jpeg with php filename", "evil.php", "image/jpeg", jpegData, ".jpg"},
		{"png with exe filename", "run.exe", "image/png", pngData, ".png"},
		{"gif", "anim.gif", "image/gif", gifData, ".gif"},
		{"webp", "pic.bin", "image/webp", webpData, ".webp"},
		{"traversal filename", "../../etc/passwd", "image/jpeg", jpegData, ".jpg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			u := NewUploader(dir, zerolog.Nop())

			url, apiErr := u.SaveImage(newFileHeader(t, tc.filename, tc.contentType, tc.data))
			if apiErr != nil {
				t.Fatalf("SaveImage() = %v, want nil error", apiErr)
			}
			if !strings.HasSuffix(url, tc.wantExt) {
				t.Errorf("url = %q, want %s suffix", url, tc.wantExt)
			}
			if strings.Contains(url, "passwd") || strings.Contains(strings.TrimPrefix(url, "uploads/"), "/") {
				t.Errorf("url %q leaks client filename or path", url)
			}
		})
	}
}

func TestSaveImageRejectsOversized(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(dir, zerolog.Nop())

	big := append(append([]byte{}, jpegData...), bytes.Repeat([]byte{0}, 6<<20)...)
	_, apiErr := u.SaveImage(newFileHeader(t, "big.jpg", "image/jpeg", big))
	if apiErr == nil {
		t.Fatal("SaveImage() = nil, want error")
	}
	if apiErr.Kind != apierror.KindPayloadTooLarge {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, apierror.KindPayloadTooLarge)
	}
	if n := dirFileCount(t, dir); n != 0 {
		t.Errorf("upload dir holds %d files, want none after rejection", n)
	}
}

func TestSaveImageRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(dir, zerolog.Nop())

	_, apiErr := u.SaveImage(newFileHeader(t, "note.txt", "text/plain", []byte("hello")))
	if apiErr == nil {
		t.Fatal("SaveImage() = nil, want error")
	}
	if apiErr.Kind != apierror.KindUnsupportedMediaType {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, apierror.KindUnsupportedMediaType)
	}
	if n := dirFileCount(t, dir); n != 0 {
		t.Errorf("upload dir holds %d files, want none after rejection", n)
	}
}

func TestSaveImageRejectsMismatchedContent(t *testing.T) {
	// A non-image payload declared as image/png must not be stored.
	dir := t.TempDir()
	u := NewUploader(dir, zerolog.Nop())

	_, apiErr := u.SaveImage(newFileHeader(t, "fake.png", "image/png", []byte("<?php echo 1; ?>")))
	if apiErr == nil {
		t.Fatal("SaveImage() = nil, want error")
	}
	if apiErr.Kind != apierror.KindUnsupportedMediaType {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, apierror.KindUnsupportedMediaType)
	}
	if n := dirFileCount(t, dir); n != 0 {
		t.Errorf("upload dir holds %d files, want none after rejection", n)
	}
}

func TestSaveImageUniqueNames(t *testing.T) {
	dir := t.TempDir()
	u := NewUploader(dir, zerolog.Nop())

	first, apiErr := u.SaveImage(newFileHeader(t, "a.png", "image/png", pngData))
	if apiErr != nil {
		t.Fatalf("SaveImage() = %v, want nil error", apiErr)
	}
	second, apiErr := u.SaveImage(newFileHeader(t, "a.png", "image/png", pngData))
	if apiErr != nil {
		t.Fatalf("SaveImage() = %v, want nil error", apiErr)
	}
	if first == second {
		t.Errorf("two uploads of the same file share the path %q", first)
	}
}
