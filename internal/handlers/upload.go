package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jslopes/journal-backend/internal/apierror"
	"github.com/jslopes/journal-backend/internal/services"
)

// multipartOverhead leaves room for the multipart framing around a file that
// is itself at the size limit.
const multipartOverhead = 1 << 20

// Upload serves the image-upload endpoint.
type Upload struct {
	uploader *services.Uploader
	log      zerolog.Logger
}

func NewUpload(uploader *services.Uploader, log zerolog.Logger) *Upload {
	return &Upload{uploader: uploader, log: log}
}

// UploadImageResponse is the body returned after a stored upload.
type UploadImageResponse struct {
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
}

// Image accepts a single multipart file field named "image", stores it and
// returns its uploads/-relative path.
func (h *Upload) Image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		writeError(w, transportError(err))
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeError(w, apierror.UploadTransport("No image file provided"))
		return
	}
	file.Close()

	imageURL, apiErr := h.uploader.SaveImage(fileHeader)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, UploadImageResponse{Status: "success", ImageURL: imageURL})
}

// transportError maps each multipart parse failure to its own message.
func transportError(err error) *apierror.APIError {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return apierror.PayloadTooLarge(services.MaxUploadSize)
	case errors.Is(err, http.ErrNotMultipart):
		return apierror.UploadTransport("Request body is not multipart/form-data")
	case errors.Is(err, http.ErrMissingBoundary):
		return apierror.UploadTransport("Multipart boundary is missing")
	default:
		return apierror.UploadTransport("Malformed upload request")
	}
}
