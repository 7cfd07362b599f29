package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationErrorDetail is one failed constraint on a request parameter.
type ValidationErrorDetail struct {
	Field    string      `json:"field"`
	Message  string      `json:"message"`
	Expected string      `json:"expected"`
	Received interface{} `json:"received"`
}

// BindQuery binds query parameters into obj and validates the binding tags.
// On failure it writes a 400 response with per-field details and returns
// false.
func BindQuery(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return true
	}

	var details []ValidationErrorDetail
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			detail := ValidationErrorDetail{
				Field:    e.Field(),
				Message:  fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", e.Field(), e.Tag()),
				Expected: e.Tag(),
				Received: e.Value(),
			}
			switch e.Tag() {
			case "required":
				detail.Message = fmt.Sprintf("Parameter '%s' is required", e.Field())
			case "min":
				detail.Message = fmt.Sprintf("Parameter '%s' must be at least %s", e.Field(), e.Param())
				detail.Expected = fmt.Sprintf("min %s", e.Param())
			case "max":
				detail.Message = fmt.Sprintf("Parameter '%s' must be at most %s", e.Field(), e.Param())
				detail.Expected = fmt.Sprintf("max %s", e.Param())
			case "oneof":
				detail.Message = fmt.Sprintf("Parameter '%s' must be one of: %s", e.Field(), e.Param())
				detail.Expected = e.Param()
			}
			details = append(details, detail)
		}
	} else {
		details = append(details, ValidationErrorDetail{
			Field:    "query",
			Message:  "Malformed query parameters",
			Expected: "valid query string",
			Received: c.Request.URL.RawQuery,
		})
	}

	c.JSON(http.StatusBadRequest, NewResponse(http.StatusBadRequest, "Invalid request parameters", gin.H{
		"errors": details,
	}))
	return false
}
