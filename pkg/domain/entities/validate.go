package entities

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidEntity is wrapped by every validation failure of a catalog or stock entity
var ErrInvalidEntity = errors.New("invalid entity")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of an entity and flattens the field errors
// into a single error wrapping ErrInvalidEntity
func Validate(entity any) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidEntity, strings.Join(msgs, "; "))
}
