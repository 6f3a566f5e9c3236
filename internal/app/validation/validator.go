// Package validation checks request payloads with go-playground/validator and
// turns the first failed rule into a user-facing message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/masir/internal/app/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Error is a single failed rule. It unwraps to models.ErrValidation.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return models.ErrValidation }

// Message extracts the user-facing text of a validation failure anywhere in err's chain.
func Message(err error) (string, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}

// GetValidator returns the shared validator with the domain tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		mustRegister(v, "road_type", oneOfValidator(models.RoadTypes))
		mustRegister(v, "poi_category", oneOfValidator(models.POICategories))
		mustRegister(v, "lat", coordinateValidator(0, 90))
		mustRegister(v, "lng", coordinateValidator(1, 180))
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

func oneOfValidator(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, a := range allowed {
			if s == a {
				return true
			}
		}
		return false
	}
}

// coordinateValidator checks element idx of a [lat, lng] pair against ±bound.
// Pairs of the wrong length are left to the len rule.
func coordinateValidator(idx int, bound float64) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Slice || f.Len() != 2 {
			return true
		}
		val := f.Index(idx).Float()
		return val >= -bound && val <= bound
	}
}

// Struct validates s and returns nil or an *Error describing the first violation.
func Struct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	fe := fieldErrs[0]
	return &Error{Field: fe.Field(), Tag: fe.Tag(), Message: translate(fe)}
}
