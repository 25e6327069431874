package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerylCAtieno/gtm-studio/internal/flow"
	"github.com/BerylCAtieno/gtm-studio/internal/models"
	"github.com/BerylCAtieno/gtm-studio/internal/profiler"
)

const (
	CodeSessionNotFound          = "SESSION_NOT_FOUND"
	CodeInvalidRequest           = "INVALID_REQUEST"
	CodeEmptyInput               = "EMPTY_INPUT"
	CodeIndexOutOfRange          = "INDEX_OUT_OF_RANGE"
	CodeUnknownField             = "UNKNOWN_FIELD"
	CodeBusy                     = "BUSY"
	CodeNoResult                 = "NO_RESULT"
	CodeNoRevision               = "NO_REVISION"
	CodeProfileGenerationFailed  = "PROFILE_GENERATION_FAILED"
	CodeFeedbackGenerationFailed = "FEEDBACK_GENERATION_FAILED"
	CodeInternal                 = "INTERNAL"
)

type apiError struct {
	Status int
	Code   string
	Err    error
}

func (e *apiError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *apiError) Unwrap() error { return e.Err }

func newAPIError(status int, code string, err error) *apiError {
	return &apiError{Status: status, Code: code, Err: err}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody   `json:"error"`
	State interface{} `json:"state,omitempty"`
}

// classify maps domain errors onto HTTP status and error code.
func classify(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return newAPIError(http.StatusNotFound, CodeSessionNotFound, err)
	case errors.Is(err, flow.ErrEmptyInput):
		return newAPIError(http.StatusBadRequest, CodeEmptyInput, err)
	case errors.Is(err, models.ErrIndexOutOfRange):
		return newAPIError(http.StatusBadRequest, CodeIndexOutOfRange, err)
	case errors.Is(err, models.ErrUnknownListField),
		errors.Is(err, models.ErrUnknownAssetType),
		errors.Is(err, flow.ErrUnknownView):
		return newAPIError(http.StatusBadRequest, CodeUnknownField, err)
	case errors.Is(err, flow.ErrBusy):
		return newAPIError(http.StatusConflict, CodeBusy, err)
	case errors.Is(err, flow.ErrNoResult):
		return newAPIError(http.StatusConflict, CodeNoResult, err)
	case errors.Is(err, flow.ErrNoRevision):
		return newAPIError(http.StatusConflict, CodeNoRevision, err)
	case errors.Is(err, profiler.ErrProfileGenerationFailed):
		return newAPIError(http.StatusBadGateway, CodeProfileGenerationFailed, profiler.ErrProfileGenerationFailed)
	case errors.Is(err, profiler.ErrFeedbackGenerationFailed):
		return newAPIError(http.StatusBadGateway, CodeFeedbackGenerationFailed, profiler.ErrFeedbackGenerationFailed)
	}
	return newAPIError(http.StatusInternalServerError, CodeInternal, err)
}

// respondError writes the error envelope. state, when non-nil, is the flow
// snapshot after the failure.
func respondError(c *gin.Context, err error, state interface{}) {
	ae := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(ae.Status, errorEnvelope{
		Error: errorBody{Code: ae.Code, Message: ae.Error()},
		State: state,
	})
}

func invalidRequest(err error) *apiError {
	return newAPIError(http.StatusBadRequest, CodeInvalidRequest, err)
}
