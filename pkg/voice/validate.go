// ABOUTME: Struct-tag validation for voice descriptors
// ABOUTME: Reports out-of-range fields using their JSON names
package voice

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// Validate checks mood and gain ranges
func (d Descriptor) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", audio.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be between 0 and 1, got %v", e.Namespace(), e.Value()))
	}
	return fmt.Errorf("%w: voice %q: %s", audio.ErrInvalidInput, d.ID, strings.Join(msgs, "; "))
}
