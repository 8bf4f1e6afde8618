package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cleverbadge/cleverbadge/internal/quiz"
)

// Error codes the SPA switches on. Expired and abandoned are recoverable
// (prompt to restart); the rest render as inline banners.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION"
	CodeTestDisabled        = "TEST_DISABLED"
	CodeProtectedTest       = "PROTECTED_TEST"
	CodeAssessmentExpired   = "ASSESSMENT_EXPIRED"
	CodeAssessmentAbandoned = "ASSESSMENT_ABANDONED"
	CodeAssessmentCompleted = "ASSESSMENT_COMPLETED"
	CodeInternal            = "INTERNAL"
)

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]errBody{"error": {Code: code, Message: msg}})
}

// writeDomainErr maps domain sentinels onto status + code; anything
// unrecognized is a 500.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		writeErr(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, quiz.ErrDisabled):
		writeErr(w, http.StatusNotFound, CodeTestDisabled, err.Error())
	case errors.Is(err, quiz.ErrProtected):
		writeErr(w, http.StatusForbidden, CodeProtectedTest, err.Error())
	case errors.Is(err, quiz.ErrExpired):
		writeErr(w, http.StatusGone, CodeAssessmentExpired, err.Error())
	case errors.Is(err, quiz.ErrAbandoned):
		writeErr(w, http.StatusGone, CodeAssessmentAbandoned, err.Error())
	case errors.Is(err, quiz.ErrCompleted):
		writeErr(w, http.StatusConflict, CodeAssessmentCompleted, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}
