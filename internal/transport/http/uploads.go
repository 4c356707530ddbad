package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	apierrors "sellerpulse/internal/errors"
	"sellerpulse/internal/services"
	"sellerpulse/internal/sources"
)

// multipartMemory is how much of a multipart body is buffered in memory
// before spilling to temporary files
const multipartMemory = 8 << 20

// refSuffix names the form value that replaces an upload with a reference
const refSuffix = "_ref"

// parseUploadForm parses the multipart body once per request
func parseUploadForm(r *http.Request) error {
	if r.MultipartForm != nil {
		return nil
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return apierrors.InvalidRequestWithError(fmt.Errorf("invalid multipart body: %w", err))
	}
	return nil
}

// uploadInput returns the file uploaded under field, or the gsheet reference
// given as "<field>_ref". Callers must close the returned closer.
func uploadInput(r *http.Request, field string) (services.Input, func(), error) {
	noop := func() {}

	if err := parseUploadForm(r); err != nil {
		return services.Input{}, noop, err
	}

	if ref := strings.TrimSpace(r.FormValue(field + refSuffix)); ref != "" {
		parsed, err := sources.ParseRef(ref)
		if err != nil {
			return services.Input{}, noop, apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: field + refSuffix, Message: err.Error()},
			})
		}
		// Local paths would let clients read the server's filesystem
		if parsed.Kind != sources.RefGoogleSheet {
			return services.Input{}, noop, apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: field + refSuffix, Message: "only " + sources.GoogleSheetScheme + " references are accepted"},
			})
		}
		return services.RefInput(ref), noop, nil
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return services.Input{}, noop, apierrors.MissingUploadError(field)
		}
		return services.Input{}, noop, apierrors.InvalidRequestWithError(err)
	}
	return services.UploadInput(uploadName(header), file), func() { file.Close() }, nil
}

func uploadName(h *multipart.FileHeader) string {
	if h == nil || h.Filename == "" {
		return "upload"
	}
	return h.Filename
}
