// Package validation evaluates explicit, ordered rule lists against request DTOs.
// Every field is checked and every failure is collected.
package validation

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, violation := range v {
		msgs = append(msgs, violation.Field+": "+violation.Message)
	}
	return strings.Join(msgs, "; ")
}

// Messages returns the human messages in evaluation order.
func (v Violations) Messages() []string {
	out := make([]string, 0, len(v))
	for _, violation := range v {
		out = append(out, violation.Message)
	}
	return out
}

// Check is a single rule over a string value. When a Bail check fails the
// remaining checks of the same field are skipped.
type Check struct {
	Rule    string
	Param   string
	Message string
	Bail    bool
	Test    func(value string) bool
}

func Required(message string) Check {
	return Check{
		Rule:    "required",
		Message: message,
		Bail:    true,
		Test: func(value string) bool {
			return strings.TrimSpace(value) != ""
		},
	}
}

// MaxLen counts characters, not bytes.
func MaxLen(n int, message string) Check {
	return Check{
		Rule:    "max",
		Param:   strconv.Itoa(n),
		Message: message,
		Test: func(value string) bool {
			return utf8.RuneCountInString(value) <= n
		},
	}
}

func Email(message string) Check {
	return Check{
		Rule:    "email",
		Message: message,
		Test: func(value string) bool {
			return validate.Var(value, "email") == nil
		},
	}
}

// OneOfFold passes when value equals one of allowed, ignoring case.
func OneOfFold(allowed []string, message string) Check {
	return Check{
		Rule:    "oneof",
		Param:   strings.Join(allowed, ", "),
		Message: message,
		Test: func(value string) bool {
			for _, a := range allowed {
				if strings.EqualFold(a, value) {
					return true
				}
			}
			return false
		},
	}
}

type Field[T any] struct {
	Name   string
	Value  func(T) string
	Checks []Check
}

// Rules is evaluated in slice order, so the order of violations is stable.
type Rules[T any] []Field[T]

func (r Rules[T]) Validate(v T) Violations {
	var out Violations

	for _, field := range r {
		value := field.Value(v)

		for _, check := range field.Checks {
			if check.Test(value) {
				continue
			}

			out = append(out, Violation{
				Field:   field.Name,
				Rule:    check.Rule,
				Param:   check.Param,
				Message: check.Message,
			})

			if check.Bail {
				break
			}
		}
	}

	return out
}
