package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingErrorMessage turns a request binding failure into a client message
func BindingErrorMessage(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "category":
			msgs = append(msgs, fmt.Sprintf("Invalid category: %v", fe.Value()))
		case "task_status":
			msgs = append(msgs, fmt.Sprintf("Invalid status: %v", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
