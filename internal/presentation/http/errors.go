package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"sdaadmin/app/internal/domain/accounts"
	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/media"
)

const (
	errorFallbackMessage = "We couldn't process your request right now."
	notFoundMessage      = "We couldn't find that record. It may have been deleted."
	unknownMessage       = "There is no such section in the administration."
	conflictMessage      = "A record with these values already exists."
	inUseMessage         = "This record is still used by other records and cannot be deleted."
	invalidLoginMessage  = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	rateLimitMessage     = "Too many sign-in attempts. Please wait a moment and try again."
)

var errRateLimited = eris.New("too many sign-in attempts")

// classifyError maps a service error onto a status and a user facing message.
func classifyError(err error) (int, string) {
	if err == nil {
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}

	if verr, ok := admin.AsValidationError(err); ok {
		return stdhttp.StatusUnprocessableEntity, verr.Error()
	}

	var uploadErr *media.UploadError
	switch {
	case eris.Is(err, admin.ErrUnknownResource):
		return stdhttp.StatusNotFound, unknownMessage
	case eris.Is(err, admin.ErrNotFound):
		return stdhttp.StatusNotFound, notFoundMessage
	case eris.Is(err, admin.ErrConflict):
		return stdhttp.StatusConflict, conflictMessage
	case eris.Is(err, admin.ErrInUse):
		return stdhttp.StatusConflict, inUseMessage
	case errors.As(err, &uploadErr):
		return stdhttp.StatusUnprocessableEntity, "Upload failed: " + uploadErr.Message
	case errors.Is(err, media.ErrEmptyFile):
		return stdhttp.StatusUnprocessableEntity, "The submitted file is empty."
	case errors.Is(err, media.ErrFileTooLarge):
		return stdhttp.StatusRequestEntityTooLarge, "The submitted file is too large."
	case eris.Is(err, accounts.ErrInvalidCredentials):
		return stdhttp.StatusUnauthorized, invalidLoginMessage
	case eris.Is(err, errRateLimited):
		return stdhttp.StatusTooManyRequests, rateLimitMessage
	default:
		return stdhttp.StatusInternalServerError, errorFallbackMessage
	}
}

// apiError converts a service error into a huma error, capturing unexpected ones.
func (s *Server) apiError(ctx context.Context, err error, message string, fields logrus.Fields) error {
	if verr, ok := admin.AsValidationError(err); ok {
		return huma.Error422UnprocessableEntity("validation failed", fieldDetails(verr)...)
	}

	status, detail := classifyError(err)
	if status == stdhttp.StatusInternalServerError {
		s.recordError(ctx, err, message, fields)
	}
	return huma.NewError(status, detail)
}

func fieldDetails(verr *admin.ValidationError) []error {
	keys := make([]string, 0, len(verr.Fields))
	for key := range verr.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	details := make([]error, 0, len(keys))
	for _, key := range keys {
		details = append(details, &huma.ErrorDetail{
			Location: "body." + key,
			Message:  verr.Fields[key],
		})
	}
	return details
}

// htmlError renders the error page for a failed service call.
func (s *Server) htmlError(ctx context.Context, err error, message string, fields logrus.Fields) (*htmlResponse, error) {
	status, detail := classifyError(err)
	if status == stdhttp.StatusInternalServerError {
		s.recordError(ctx, err, message, fields)
	}
	return s.renderErrorResponse(ctx, status, detail)
}

var errNoFile = eris.New("no file submitted")
