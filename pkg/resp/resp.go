package resp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SinaAfzali/elite-bite/services"
	"github.com/SinaAfzali/elite-bite/utils"

	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Body is the envelope every endpoint answers with.
type Body struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Status: statusSuccess, Data: data})
}

func OKMsg(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, Body{Status: statusSuccess, Message: msg, Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Body{Status: statusSuccess, Data: data})
}

func Fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Body{Status: statusError, Message: msg})
}

func BadRequest(c *gin.Context, msg string) { Fail(c, http.StatusBadRequest, msg) }
func Unauthorized(c *gin.Context, msg string) { Fail(c, http.StatusUnauthorized, msg) }
func Forbidden(c *gin.Context, msg string) { Fail(c, http.StatusForbidden, msg) }
func NotFound(c *gin.Context, msg string) { Fail(c, http.StatusNotFound, msg) }

func TooManyRequests(c *gin.Context, msg string) { Fail(c, http.StatusTooManyRequests, msg) }

// ServerError logs the cause; the client only sees a generic message.
func ServerError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "request failed",
		"method", c.Request.Method, "path", c.FullPath(),
		"request_id", utils.RequestID(c), "err", err)
	Fail(c, http.StatusInternalServerError, "internal server error")
}

// Error writes err using the HTTP status of its services.Kind.
func Error(c *gin.Context, err error) {
	msg := err.Error()
	var e *services.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	switch services.KindOf(err) {
	case services.KindUnauthorized:
		Unauthorized(c, msg)
	case services.KindNotFound:
		NotFound(c, msg)
	case services.KindValidation:
		BadRequest(c, msg)
	case services.KindForbidden:
		Forbidden(c, msg)
	default:
		ServerError(c, err)
	}
}
