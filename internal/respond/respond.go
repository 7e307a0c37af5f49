package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the JSON shape of every API response. Code doubles as the
// application status: transport-level failures (bad request, unknown
// resource) carry it as the literal HTTP status, while auth and scope
// failures inside the keyed API travel as HTTP 200 with the code in the
// body.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK responds with code 200 and optional data.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Message: "success", Data: data})
}

// Fail responds HTTP 200 with an application failure code in the envelope.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(http.StatusOK, Envelope{Code: code, Message: message})
}

// BadRequest rejects malformed or missing input.
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Envelope{Code: http.StatusBadRequest, Message: message})
}

// Unauthorized rejects a request missing a mandatory credential.
func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, Envelope{Code: http.StatusUnauthorized, Message: "Unauthorized"})
}

// NotFound hides unknown resources, including mismatched API keys.
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, Envelope{Code: http.StatusNotFound, Message: "Not Found"})
}

// Internal collapses unexpected failures to a generic envelope; no internal
// error detail is surfaced to the caller.
func Internal(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, Envelope{Code: http.StatusInternalServerError, Message: "internal error"})
}
