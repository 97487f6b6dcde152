package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/yakoovad/meeting-guide/internal/validation"
)

type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validation.New()}
}

func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
