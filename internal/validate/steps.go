// Package validate holds the per-step field validation rules for the
// registration flows. Validation is pure: no network, no storage.
package validate

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Optional +254/254/0 prefix, then 7 and eight more digits: nine local
	// significant digits with a leading 7.
	kenyanPhoneRe = regexp.MustCompile(`^(?:\+254|254|0)?7\d{8}$`)
	// local@domain.tld
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	must(v.RegisterValidation("kenyan_phone", func(fl validator.FieldLevel) bool {
		return kenyanPhoneRe.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// StepOneFields is the data collected on the first registration step.
type StepOneFields struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email_addr"`
	Password string `validate:"required,min=6"`
}

// StepTwoFields is the data collected on the second registration step.
type StepTwoFields struct {
	PhoneNumber string `validate:"required,kenyan_phone"`
}

// StepThreeFields is the data collected on the final registration step.
type StepThreeFields struct {
	FullName    string `validate:"required"`
	IDNumber    string `validate:"required"`
	DateOfBirth string `validate:"required"`
	Address     string `validate:"required"`
}

// SignupFields is the single-page registration variant.
type SignupFields struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required,email_addr"`
	Password        string `validate:"required,min=6,eqfield=ConfirmPassword"`
	ConfirmPassword string `validate:"required"`
}

// StepOne validates the first step. An empty map means the fields are
// acceptable.
func StepOne(f StepOneFields) map[string]string {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	return check(f, map[string]string{
		"FullName": "fullName",
		"Email":    "email",
		"Password": "password",
	})
}

// StepTwo validates the second step.
func StepTwo(f StepTwoFields) map[string]string {
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	return check(f, map[string]string{
		"PhoneNumber": "phoneNumber",
	})
}

// StepThree validates the final step. Presence only; no format constraints.
func StepThree(f StepThreeFields) map[string]string {
	f.FullName = strings.TrimSpace(f.FullName)
	f.IDNumber = strings.TrimSpace(f.IDNumber)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Address = strings.TrimSpace(f.Address)
	return check(f, map[string]string{
		"FullName":    "fullName",
		"IDNumber":    "idNumber",
		"DateOfBirth": "dateOfBirth",
		"Address":     "address",
	})
}

// Signup validates the single-page registration variant.
func Signup(f SignupFields) map[string]string {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	return check(f, map[string]string{
		"FullName":        "fullName",
		"Email":           "email",
		"Password":        "password",
		"ConfirmPassword": "confirmPassword",
	})
}

// check runs the validator and converts its errors to a field→message map
// using the given struct-field to display-name mapping.
func check(s any, names map[string]string) map[string]string {
	errs := make(map[string]string)
	err := validate.Struct(s)
	if err == nil {
		return errs
	}
	for _, fe := range err.(validator.ValidationErrors) {
		field, ok := names[fe.StructField()]
		if !ok {
			field = fe.StructField()
		}
		errs[field] = message(field, fe)
	}
	return errs
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email_addr":
		return "enter a valid email address"
	case "kenyan_phone":
		return "enter a valid Kenyan phone number, e.g. 0712345678"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "eqfield":
		return "passwords do not match"
	default:
		return field + " is invalid"
	}
}
