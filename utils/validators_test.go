package utils

import (
	"testing"

	"notetasks/model"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterCustomValidators(v)

	type request struct {
		Category *model.Category  `validate:"omitempty,category"`
		Status   model.TaskStatus `validate:"omitempty,task_status"`
	}

	work := model.CategoryWork
	school := model.Category("school")

	assert.NoError(t, v.Struct(request{}))
	assert.NoError(t, v.Struct(request{Category: &work, Status: model.StatusInProgress}))
	assert.Error(t, v.Struct(request{Category: &school}))
	assert.Error(t, v.Struct(request{Status: "done"}))
}
