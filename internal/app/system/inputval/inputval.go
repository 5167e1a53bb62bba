// Package inputval validates form input with struct tags and turns failures
// into sentences a visitor can act on.
//
//	type contactInput struct {
//		Name  string `validate:"required,max=100" label:"Name"`
//		Email string `validate:"required,email" label:"Email"`
//	}
//	if res := inputval.Validate(in); res.HasErrors() { ... res.First() ... }
package inputval

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures of one Validate call in field order.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First is the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for a field's label, or "".
func (r *Result) For(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || IsValidHTTPURL(s)
		})
		_ = v.RegisterValidation("ytid", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || IsValidYouTubeID(s)
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// Validate runs the `validate` tags of the struct v.
func Validate(v any) *Result {
	res := &Result{}
	err := instance().Struct(v)
	if err == nil {
		return res
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "httpurl":
		return label + " must start with http:// or https://."
	case "ytid":
		return label + " must be a YouTube video id."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail accepts a bare address (no display name) with a well-formed
// local part and domain.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	for _, part := range []string{local, domain} {
		if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// IsValidHTTPURL accepts absolute http and https URLs with a host.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var ytID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,20}$`)

// IsValidYouTubeID accepts the id segment of a YouTube watch URL.
func IsValidYouTubeID(s string) bool {
	return ytID.MatchString(strings.TrimSpace(s))
}
