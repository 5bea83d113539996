package middleware

import (
	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog/log"
)

// RespondError writes err as {"message", "error_code"} with the status of its
// kind. Causes of internal errors are logged and never sent to the client.
func RespondError(c *drift.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal("Internal Server Error", err)
	}

	if appErr.Kind == apperr.KindInternal {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		_ = c.JSON(appErr.Kind.HTTPStatus(), dto.ErrorResponse{
			Message:   "Internal Server Error",
			ErrorCode: apperr.CodeInternal,
		})
		return
	}

	_ = c.JSON(appErr.Kind.HTTPStatus(), dto.ErrorResponse{
		Message:   appErr.Message,
		ErrorCode: appErr.Code,
	})
}

func abortWithError(c *drift.Context, err error) {
	RespondError(c, err)
	c.Abort()
}
