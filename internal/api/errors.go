package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"flipquest/internal/models"
	"flipquest/internal/renovation"
	"flipquest/internal/screen"
	"flipquest/internal/session"
	"flipquest/internal/submission"
)

type apiError struct {
	target error
	status int
	code   string
}

// Ordered: the first matching sentinel wins
var apiErrors = []apiError{
	{models.ErrUnknownRoomType, http.StatusBadRequest, "UNKNOWN_ROOM"},
	{renovation.ErrInvalidSelection, http.StatusBadRequest, "INVALID_SELECTION"},
	{renovation.ErrUnknownUpgrade, http.StatusBadRequest, "UNKNOWN_UPGRADE"},
	{renovation.ErrNoProperty, http.StatusServiceUnavailable, "NO_PROPERTY"},
	{models.ErrDegenerateInvestment, http.StatusUnprocessableEntity, "DEGENERATE_INVESTMENT"},
	{screen.ErrNoUpgradesSelected, http.StatusUnprocessableEntity, "NO_UPGRADES_SELECTED"},
	{screen.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{session.ErrSubmissionInProgress, http.StatusConflict, "SUBMISSION_IN_PROGRESS"},
	{session.ErrAlreadySubmitted, http.StatusConflict, "ALREADY_SUBMITTED"},
	{session.ErrSubmissionDiscarded, http.StatusConflict, "SUBMISSION_DISCARDED"},
	{submission.ErrSubmissionFailed, http.StatusBadGateway, "SUBMISSION_FAILED"},
}

func statusFor(err error) (int, string) {
	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func (h *Handler) writeError(c *gin.Context, action string, err error) {
	status, code := statusFor(err)
	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"action": action,
		"code":   code,
	})

	message := err.Error()
	if status == http.StatusInternalServerError {
		entry.Error("Request failed")
		message = fmt.Sprintf("Failed to %s", action)
	} else {
		entry.Info("Request rejected")
	}

	c.JSON(status, gin.H{"error": message, "code": code})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "email":
			msgs = append(msgs, "Please enter a valid email address")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field())))
		}
	}
	return strings.Join(msgs, "; ")
}
