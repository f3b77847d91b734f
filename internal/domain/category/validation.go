package category

import "github.com/go-playground/validator/v10"

// Validate checks category inputs.
var Validate = validator.New(validator.WithRequiredStructEnabled())

type createInput struct {
	Title string `validate:"required,max=64"`
}
