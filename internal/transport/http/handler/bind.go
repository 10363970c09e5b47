package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"vidshare/internal/transport/http/response"
)

var registerValidationOnce sync.Once

// RegisterValidation makes validator report JSON field names, so the fields
// map in a ValidationError body matches what the client sent.
func RegisterValidation() {
	registerValidationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindJSON decodes and validates a JSON body into req. On failure it writes
// the 400 response and returns false.
func bindJSON(c *gin.Context, req interface{}) bool {
	return bindWith(c, req, binding.JSON)
}

// bindRequest picks the decoder from the Content-Type, accepting both JSON
// and form posts.
func bindRequest(c *gin.Context, req interface{}) bool {
	return bindWith(c, req, binding.Default(c.Request.Method, c.ContentType()))
}

func bindWith(c *gin.Context, req interface{}, b binding.Binding) bool {
	err := c.ShouldBindWith(req, b)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		response.ValidationError(c, fields)
		return false
	}

	response.Error(c, http.StatusBadRequest, response.KindBadRequest, "invalid request payload")
	return false
}
