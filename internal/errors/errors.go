// Package errors writes the JSON error envelope shared by every API endpoint:
//
//	{"error": {"code": "NOT_FOUND", "message": "...", "request_id": "..."}}
package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/middleware"
)

// Error codes carried in ErrorDetail.Code.
const (
	ErrNotFound       = "NOT_FOUND"
	ErrBadRequest     = "BAD_REQUEST"
	ErrConflict       = "CONFLICT"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// fieldMessages maps validator tags to the text reported per field. A %s
// in the text is replaced with the tag parameter.
var fieldMessages = map[string]string{
	"required": "This field is required",
	"min":      "Value is too short or small (minimum: %s)",
	"max":      "Value is too long or large (maximum: %s)",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	"lt":       "Must be less than %s",
	"lte":      "Must be less than or equal to %s",
	"oneof":    "Must be one of: %s",
	"numeric":  "Must be a number",
}

// write sends the envelope and logs it through the request logger, if any.
// Client errors log at warn; server errors log at error with cause attached.
func write(c *gin.Context, status int, detail ErrorDetail, cause error) {
	detail.RequestID = middleware.GetRequestID(c)

	if log := middleware.GetLogger(c); log != nil {
		fields := logger.Fields{
			"code":   detail.Code,
			"status": status,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}
		if detail.Details != nil {
			fields["details"] = detail.Details
		}
		if status >= http.StatusInternalServerError {
			log.Error(detail.Message, cause, fields)
		} else {
			log.Warn(detail.Message, fields)
		}
	}

	c.JSON(status, ErrorResponse{Error: detail})
}

// NotFound responds 404.
func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, ErrorDetail{Code: ErrNotFound, Message: message}, nil)
}

// BadRequest responds 400 with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	write(c, http.StatusBadRequest, ErrorDetail{Code: ErrBadRequest, Message: message, Details: details}, nil)
}

// Conflict responds 409 when a write would duplicate an existing car park.
func Conflict(c *gin.Context, message string) {
	write(c, http.StatusConflict, ErrorDetail{Code: ErrConflict, Message: message}, nil)
}

// InternalServerError responds 500. err is logged, never sent.
func InternalServerError(c *gin.Context, message string, err error) {
	write(c, http.StatusInternalServerError, ErrorDetail{Code: ErrInternalServer, Message: message}, err)
}

// ValidationError responds 400 with one message per failing field.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{}, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Field()] = formatValidationError(fe)
	}

	write(c, http.StatusBadRequest, ErrorDetail{
		Code:    ErrValidation,
		Message: "Validation failed for one or more fields",
		Details: details,
	}, nil)
}

// BindingError reports a failed bind. Validator failures get per-field
// details; malformed JSON or a mistyped query value is a plain bad request.
func BindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		ValidationError(c, validationErrors)
		return
	}
	BadRequest(c, "Invalid request", map[string]interface{}{"error": err.Error()})
}

func formatValidationError(fe validator.FieldError) string {
	text, ok := fieldMessages[fe.Tag()]
	if !ok {
		return "Validation failed for tag: " + fe.Tag()
	}
	return strings.ReplaceAll(text, "%s", fe.Param())
}
