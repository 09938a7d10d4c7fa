package utils

import (
	"notetasks/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("category", ValidateCategoryRule)
	v.RegisterValidation("task_status", ValidateTaskStatusRule)
}

// InitValidator registers the enum rules on gin's binding engine
func InitValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterCustomValidators(v)
	}
}

// Empty values pass; combine with "required" where the field is mandatory.
func ValidateCategoryRule(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || model.Category(value).IsValid()
}

func ValidateTaskStatusRule(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || model.TaskStatus(value).IsValid()
}
