package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewFormatError("orders upload", fmt.Errorf("no header row")),
			want: "[FORMAT] orders upload: no header row",
		},
		{
			name: "without cause",
			err:  NewNotFoundError("sheet Income"),
			want: "[NOT_FOUND] sheet Income not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_UnwrapAndContext(t *testing.T) {
	sentinel := errors.New("format not recognized")
	err := NewFormatError("payouts upload", fmt.Errorf("sheet Income: %w", sentinel)).
		WithContext("document", "payouts")

	assert.True(t, errors.Is(err, sentinel))

	var appErr *AppError
	assert.True(t, errors.As(fmt.Errorf("reconcile: %w", err), &appErr))
	assert.Equal(t, ErrTypeFormat, appErr.Type)
	assert.Equal(t, "payouts", appErr.Context["document"])

	bare := &AppError{Type: ErrTypeConfig, Message: "bad port"}
	bare.WithContext("port", 0)
	assert.Equal(t, 0, bare.Context["port"])
}

func TestAPIError(t *testing.T) {
	err := MissingUploadError("costs")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "MISSING_UPLOAD", err.ErrorCode)
	assert.Equal(t, `missing upload "costs"`, err.Error())
	assert.Equal(t, ValidationError{Field: "costs", Message: "file is required"}, err.Details)

	v := NewValidationErrors([]ValidationError{{Field: "invoices[0].status", Message: "oneof"}})
	assert.Equal(t, "VALIDATION_FAILED", v.ErrorCode)
	assert.Len(t, v.Details.(ValidationErrors).Errors, 1)

	assert.Equal(t, http.StatusUnprocessableEntity, ErrFormatNotRecognized.StatusCode)
}
