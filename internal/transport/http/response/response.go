package response

import "github.com/gin-gonic/gin"

// Values of the "error" field in failure bodies.
const (
	KindBadRequest   = "BadRequest"
	KindValidation   = "ValidationError"
	KindUnauthorized = "Unauthorized"
	KindConflict     = "Conflict"
	KindNotFound     = "NotFound"
	KindInternal     = "InternalError"
)

type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, data)
}

func Message(c *gin.Context, message string) {
	c.JSON(200, MessageBody{Message: message})
}

func Error(c *gin.Context, httpStatus int, kind, message string) {
	c.JSON(httpStatus, ErrorBody{
		Error:   kind,
		Message: message,
	})
}

func ValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(400, ErrorBody{
		Error:   KindValidation,
		Message: "request validation failed",
		Fields:  fields,
	})
}
