package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jslopes/journal-backend/internal/apierror"
	"github.com/jslopes/journal-backend/internal/models"
)

const (
	WeekNumberMin = 1
	WeekNumberMax = 8
	MonthMin      = 1
	MonthMax      = 2

	// UploadPrefix is the only prefix image_url may carry. Anything else
	// (absolute URLs, traversal paths) is rejected before it reaches storage.
	UploadPrefix = "uploads/"
)

// CreateEntryRequest is the decoded body of a create-entry call. Pointer
// fields distinguish an absent field from a zero value so that presence can
// be validated explicitly instead of coercing missing input to 0.
type CreateEntryRequest struct {
	WeekNumber *int    `json:"week_number"`
	Month      *int    `json:"month"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	ImageURL   *string `json:"image_url"`
}

// UpdateEntryRequest is the decoded body of an update-entry call.
type UpdateEntryRequest struct {
	ID    *int64              `json:"id"`
	Entry *CreateEntryRequest `json:"entry"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(entryRules, CreateEntryRequest{})
	return v
}

// entryRules applies the create-entry rules in order; the first violated
// rule is the only one reported.
func entryRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateEntryRequest)

	required := []struct {
		name    string
		present bool
	}{
		{"week_number", req.WeekNumber != nil},
		{"month", req.Month != nil},
		{"title", req.Title != nil && strings.TrimSpace(*req.Title) != ""},
		{"content", req.Content != nil},
	}
	for _, f := range required {
		if !f.present {
			sl.ReportError(nil, f.name, f.name, "missing", "")
			return
		}
	}

	if *req.WeekNumber < WeekNumberMin || *req.WeekNumber > WeekNumberMax {
		sl.ReportError(*req.WeekNumber, "week_number", "WeekNumber", "out_of_range", "1,8")
		return
	}
	if *req.Month < MonthMin || *req.Month > MonthMax {
		sl.ReportError(*req.Month, "month", "Month", "out_of_range", "1,2")
		return
	}
	if req.ImageURL != nil && *req.ImageURL != "" && !strings.HasPrefix(*req.ImageURL, UploadPrefix) {
		sl.ReportError(*req.ImageURL, "image_url", "ImageURL", "image_prefix", UploadPrefix)
	}
}

// ValidateCreateEntry checks req against the create-entry rules and returns
// a well-typed draft, or the first violated rule as an APIError.
//
// Text fields are stored as-is; HTML escaping is the rendering client's
// responsibility and clients must re-check the image prefix before rendering.
func ValidateCreateEntry(req *CreateEntryRequest) (*models.EntryDraft, *apierror.APIError) {
	if err := validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	draft := &models.EntryDraft{
		WeekNumber: *req.WeekNumber,
		Month:      *req.Month,
		Title:      *req.Title,
		Content:    *req.Content,
	}
	if req.ImageURL != nil && *req.ImageURL != "" {
		draft.ImageURL = req.ImageURL
	}
	return draft, nil
}

// ValidateUpdateEntry checks the shape of an update request. The entry
// payload is held to the same rules as create.
func ValidateUpdateEntry(req *UpdateEntryRequest) *apierror.APIError {
	if req.ID == nil {
		return apierror.MissingField("id")
	}
	if req.Entry == nil {
		return apierror.MissingField("entry")
	}
	if _, apiErr := ValidateCreateEntry(req.Entry); apiErr != nil {
		return apiErr
	}
	return nil
}
