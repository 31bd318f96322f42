package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures into a
// 400 with a readable field list.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var invalidFields []string
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				invalidFields = append(invalidFields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
		}
		return fiber.NewError(fiber.StatusBadRequest,
			"Validation failed: "+strings.Join(invalidFields, ", "))
	}
	return nil
}
