package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-editor/internal/assist"
	"github.com/jonathan/cv-editor/internal/db"
	"github.com/jonathan/cv-editor/internal/document"
	"github.com/jonathan/cv-editor/internal/editing"
	"github.com/jonathan/cv-editor/internal/ingestion"
	"github.com/jonathan/cv-editor/internal/interchange"
	"github.com/jonathan/cv-editor/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		invalidDoc  *types.ValidationError
		indexErr    *document.IndexError
		typeErr     *document.TypeError
		decodeErr   *interchange.DecodeError
		invalidPDF  *ingestion.InvalidPDFError
		parseErr    *assist.ParseError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, db.ErrNotFound), errors.As(err, &indexErr):
		return http.StatusNotFound
	case errors.Is(err, assist.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, assist.ErrMissingAPIKey):
		return http.StatusPreconditionFailed
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation),
		errors.As(err, &typeErr),
		errors.Is(err, document.ErrUnknownSection),
		errors.Is(err, document.ErrUnknownField),
		errors.Is(err, assist.ErrUnknownKind),
		errors.Is(err, assist.ErrMissingInput),
		errors.Is(err, assist.ErrNotApplicable),
		errors.Is(err, ingestion.ErrEmptyInput),
		errors.Is(err, editing.ErrNotEditing):
		return http.StatusBadRequest
	case errors.As(err, &invalidDoc),
		errors.As(err, &decodeErr),
		errors.As(err, &invalidPDF),
		errors.As(err, &parseErr),
		errors.Is(err, ingestion.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string             `json:"error"`
	Fields []types.FieldError `json:"fields,omitempty"`
	Raw    string             `json:"raw,omitempty"` // Unparsed model output
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}
	var invalidDoc *types.ValidationError
	if errors.As(err, &invalidDoc) {
		body.Fields = invalidDoc.Errors
	}
	var parseErr *assist.ParseError
	if errors.As(err, &parseErr) {
		body.Raw = parseErr.Raw
	}
	return body
}
