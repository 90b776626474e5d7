// Package validation provides structural validation of withdrawal requests.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modeldto"
)

// FieldErrors maps a request field to the messages explaining its rejection.
type FieldErrors map[string][]string

// Validator checks structural validity of withdrawal requests. It has no side
// effects and touches neither storage nor the bus.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() (*Validator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("amount", validAmount); err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// ValidateWithdrawal returns nil for a well-formed request, otherwise one
// message per offending field.
func (v *Validator) ValidateWithdrawal(request modeldto.WithdrawalRequest) FieldErrors {
	err := v.validate.Struct(request)
	if err == nil {
		return nil
	}
	fieldErrors := make(FieldErrors)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fieldErrors["non_field_errors"] = append(fieldErrors["non_field_errors"], err.Error())
		return fieldErrors
	}
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		fieldErrors[field] = append(fieldErrors[field], fieldMessage(fieldError))
	}
	return fieldErrors
}

func fieldMessage(fieldError validator.FieldError) string {
	switch fieldError.Field() {
	case "account_id":
		return "must be an integer greater than or equal to 1"
	case "amount":
		return "must be a decimal with two fractional digits and no less than 0.01"
	default:
		return "invalid value"
	}
}

// validAmount accepts decimal strings with exactly two fractional digits and
// a value of at least 0.01, which rules out zero and negative amounts.
func validAmount(fl validator.FieldLevel) bool {
	parsed, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if parsed.Exponent() != -2 {
		return false
	}
	return parsed.GreaterThanOrEqual(decimal.New(1, -2))
}
