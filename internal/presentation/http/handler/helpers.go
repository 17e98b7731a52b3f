package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/pos-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-billing/pkg/apperror"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// bindError answers a failed ShouldBind call. Validation failures become a
// 422 with one entry per field; malformed bodies become a 400.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   toSnake(fe.Field()),
				Message: validationMessage(fe),
			})
		}
		response.Error(c, apperror.NewValidationError(fields))
		return
	}
	response.Error(c, apperror.NewBadRequestError("Invalid request body: "+err.Error()))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// toSnake converts a Go field name such as GSTType to gst_type
func toSnake(s string) string {
	isUpper := func(b byte) bool { return b >= 'A' && b <= 'Z' }

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isUpper(c) {
			b.WriteByte(c)
			continue
		}
		if i > 0 && (!isUpper(s[i-1]) || (i+1 < len(s) && !isUpper(s[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteByte(c + ('a' - 'A'))
	}
	return b.String()
}
