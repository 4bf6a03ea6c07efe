package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Custom registrations belong in
// init() before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags and returns a
// human-readable error or nil.
func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}
