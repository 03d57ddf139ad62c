package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Messages sent to clients. Internal error details never reach the body.
const (
	msgMissingFields      = "Missing fields"
	msgEmailInUse         = "Email already in use"
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthorized       = "Unauthorized"
	msgForbidden          = "Forbidden"
	msgServerError        = "Server error"
	msgFetchNotesFailed   = "Failed to fetch notes"
	msgInvalidNote        = "Invalid note"
	msgInvalidFilter      = "Invalid filter"
)

func messageBody(msg string) messageResponse {
	return messageResponse{Message: msg}
}

// writeError maps a service error to a status and a fixed message.
// invalid is the message used for validation failures and internal for
// everything unexpected.
func (s *HTTPServer) writeError(c *gin.Context, err error, invalid, internal string) {
	status, msg := http.StatusInternalServerError, internal

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, msg = http.StatusBadRequest, invalid
	case errors.Is(err, common.ErrorDuplicateEmail):
		status, msg = http.StatusBadRequest, msgEmailInUse
	case errors.Is(err, common.ErrorInvalidCredentials):
		status, msg = http.StatusBadRequest, msgInvalidCredentials
	case errors.Is(err, common.ErrorUnauthorized):
		status, msg = http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, msgForbidden
	}

	if services.IsClientError(err) {
		s.logger.Debug(c.Request.Context(), "request rejected",
			"request_id", c.GetString(ctxRequestIDKey), "status", status, "error", err)
	} else {
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(ctxRequestIDKey), "error", err)
	}

	c.AbortWithStatusJSON(status, messageBody(msg))
}
