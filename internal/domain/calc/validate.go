package calc

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// ValidStructure is the "structure" tag: the value must be a known building
// structure.
func ValidStructure(fl validator.FieldLevel) bool {
	return Structure(fl.Field().String()).Valid()
}

// RegisterValidations adds the calculator tags to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("structure", ValidStructure)
}

// Validate checks the binding tags of a calculator input, the same rules gin
// applies on the HTTP routes.
func Validate(in interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		if err := RegisterValidations(validate); err != nil {
			panic(fmt.Sprintf("calc: register validations: %v", err))
		}
	})
	return validate.Struct(in)
}
