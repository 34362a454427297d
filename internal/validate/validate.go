// Package validate runs struct-tag validation on request payloads and turns
// failures into InvalidArgument errors with one readable line per field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/focitech/focitech-backend/internal/apperr"
)

const maxTechStack = 10

var phoneRe = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,20}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		mustRegister(v, "urlprefix", urlPrefix)
		mustRegister(v, "phone", phone)
		mustRegister(v, "notblank", notBlank)
		mustRegister(v, "techstack", techStack)
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// fieldName reports fields by their wire name (json, then form).
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func urlPrefix(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "/")
}

func phone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(fl.Field().String())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func techStack(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Slice || f.Len() == 0 || f.Len() > maxTechStack {
		return false
	}
	for i := 0; i < f.Len(); i++ {
		if strings.TrimSpace(f.Index(i).String()) == "" {
			return false
		}
	}
	return true
}

// Struct validates s. The returned error is always an *apperr.Error.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.InvalidArgument("invalid request payload")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return apperr.InvalidArgument(strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	isText := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "urlprefix":
		return field + " must start with http://, https:// or /"
	case "phone":
		return field + " must be a valid phone number"
	case "notblank":
		return field + " cannot be blank"
	case "techstack":
		return techStackMessage(fe.Value())
	default:
		return field + " is invalid"
	}
}

func techStackMessage(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch {
	case rv.Kind() != reflect.Slice || rv.Len() == 0:
		return "tech stack cannot be empty"
	case rv.Len() > maxTechStack:
		return fmt.Sprintf("tech stack cannot have more than %d items", maxTechStack)
	default:
		return "tech stack items cannot be blank"
	}
}
