// Package forms holds the editable drafts behind every create and edit view,
// their client-side validation and the payloads they submit.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"takeoffadmin/internal/api"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	urlPattern   = regexp.MustCompile(`^https?://.+`)
)

// Mode says whether a draft creates a record or edits an existing one.
type Mode int

const (
	Create Mode = iota
	Edit
)

// FieldErrors maps a field's wire name to its message.
type FieldErrors map[string]string

// Fields returns the failing field names in order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Failure converts the errors into a validation failure, or nil when empty.
func (fe FieldErrors) Failure() error {
	if len(fe) == 0 {
		return nil
	}
	return api.NewValidationFailure(map[string]string(fe))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("forms: register %s: %v", tag, err))
		}
	}
	must("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	must("emailaddr", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	must("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	must("httpurl", func(fl validator.FieldLevel) bool {
		return urlPattern.MatchString(fl.Field().String())
	})
	return v
}

// check runs the struct tags of draft and returns one message per failing field.
func check(draft interface{}) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(draft)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = err.Error()
		return errs
	}

	t := reflect.Indirect(reflect.ValueOf(draft)).Type()
	for _, fe := range verrs {
		label := fe.StructField()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
		}
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe.Tag(), label)
		}
	}
	return errs
}

func message(tag, label string) string {
	switch tag {
	case "notblank", "required":
		return label + " is required"
	case "emailaddr":
		return "Invalid email format"
	case "phone":
		return "Invalid phone format"
	case "httpurl":
		return "Invalid " + label + " URL"
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	default:
		return "Invalid " + strings.ToLower(label)
	}
}
