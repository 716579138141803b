package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTwo_kenyanPhoneNumbers(t *testing.T) {
	accepted := []string{
		"0712345678",
		"0799999999",
		"712345678",
		"254712345678",
		"+254712345678",
	}
	for _, phone := range accepted {
		errs := StepTwo(StepTwoFields{PhoneNumber: phone})
		assert.Empty(t, errs, "expected %q to be accepted", phone)
	}

	rejected := []string{
		"",
		"0812345678",    // wrong leading digit
		"071234567",     // too short
		"07123456789",   // too long
		"+255712345678", // wrong country code
		"07123 45678",
		"phone",
	}
	for _, phone := range rejected {
		errs := StepTwo(StepTwoFields{PhoneNumber: phone})
		assert.Contains(t, errs, "phoneNumber", "expected %q to be rejected", phone)
	}
}

func TestStepOne(t *testing.T) {
	errs := StepOne(StepOneFields{
		FullName: "Jane Wanjiku",
		Email:    "jane@example.com",
		Password: "secret1",
	})
	assert.Empty(t, errs)

	t.Run("email without @ is always rejected", func(t *testing.T) {
		errs := StepOne(StepOneFields{
			FullName: "Jane Wanjiku",
			Email:    "janeexample.com",
			Password: "secret1",
		})
		assert.NotEmpty(t, errs["email"])
	})

	t.Run("email without tld is rejected", func(t *testing.T) {
		errs := StepOne(StepOneFields{FullName: "Jane", Email: "jane@example", Password: "secret1"})
		assert.NotEmpty(t, errs["email"])
	})

	t.Run("whitespace-only name is rejected", func(t *testing.T) {
		errs := StepOne(StepOneFields{FullName: "   ", Email: "jane@example.com", Password: "secret1"})
		assert.NotEmpty(t, errs["fullName"])
	})

	t.Run("short password is rejected", func(t *testing.T) {
		errs := StepOne(StepOneFields{FullName: "Jane", Email: "jane@example.com", Password: "12345"})
		assert.NotEmpty(t, errs["password"])
	})
}

func TestStepThree(t *testing.T) {
	errs := StepThree(StepThreeFields{
		FullName:    "Jane Wanjiku",
		IDNumber:    "12345678",
		DateOfBirth: "1990-04-02",
		Address:     "Nairobi",
	})
	assert.Empty(t, errs)

	errs = StepThree(StepThreeFields{FullName: "Jane Wanjiku"})
	assert.Contains(t, errs, "idNumber")
	assert.Contains(t, errs, "dateOfBirth")
	assert.Contains(t, errs, "address")
	assert.NotContains(t, errs, "fullName")
}

func TestSignup(t *testing.T) {
	errs := Signup(SignupFields{
		FullName:        "Jane Wanjiku",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	assert.Empty(t, errs)

	errs = Signup(SignupFields{
		FullName:        "Jane Wanjiku",
		Email:           "jane@example.com",
		Password:        "secret1",
		ConfirmPassword: "different",
	})
	assert.Equal(t, "passwords do not match", errs["password"])
}
