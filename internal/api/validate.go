package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule is one field check: evaluated against an already-parsed request,
// failing with Message when OK is false. Rules are collected rather than
// short-circuited so a response reports every invalid field at once.
type Rule struct {
	Field   string
	OK      bool
	Message string
}

// Validate runs the rules in order and accumulates failures into a
// field→message map. The first failing rule per field wins.
func Validate(rules []Rule) map[string]string {
	var errs map[string]string
	for _, r := range rules {
		if r.OK {
			continue
		}
		if errs == nil {
			errs = make(map[string]string)
		}
		if _, seen := errs[r.Field]; !seen {
			errs[r.Field] = r.Message
		}
	}
	return errs
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// ValidateStruct checks validate tags on s and maps each violation to the
// caller-supplied message for that field, keyed by the form/json tag name.
func ValidateStruct(s interface{}, messages map[string]string) map[string]string {
	err := structValidator.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": "Bad Request"}
	}

	errs := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()]; ok {
			errs[fe.Field()] = msg
		} else {
			errs[fe.Field()] = fe.Field() + " is invalid"
		}
	}
	return errs
}
