package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validDetails() Details {
	return Details{
		Name:    "Arul Raj",
		Email:   "arul@example.com",
		Phone:   "98765 43210",
		Address: "12 Church Street",
		City:    "Chennai",
		State:   "Tamil Nadu",
		Country: "India",
		Pincode: "600001",
	}
}

func TestValidate_ValidDetails(t *testing.T) {
	errs := Validate(validDetails())
	assert.Empty(t, errs)
}

func TestValidate_RequiredFields(t *testing.T) {
	errs := Validate(Details{})

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "phone")
	assert.Contains(t, errs, "address")
	assert.Contains(t, errs, "pincode")
}

func TestValidate_EmailFormat(t *testing.T) {
	d := validDetails()
	d.Email = "not-an-email"

	errs := Validate(d)
	assert.Equal(t, "email is invalid", errs["email"])
}

func TestValidate_DomesticPhoneMustBeTenDigits(t *testing.T) {
	d := validDetails()

	d.Phone = "+91 98765-43210" // 12 digits after stripping
	errs := Validate(d)
	assert.Equal(t, "phone must be 10 digits", errs["phone"])

	d.Phone = "(987) 654-3210" // exactly 10 after stripping
	errs = Validate(d)
	assert.NotContains(t, errs, "phone")
}

func TestValidate_InternationalPhoneLengthRange(t *testing.T) {
	d := validDetails()
	d.Country = "Singapore"

	d.Phone = "+65 6123 4567" // 9 digits
	errs := Validate(d)
	assert.NotContains(t, errs, "phone")

	d.Phone = "12345"
	errs = Validate(d)
	assert.Equal(t, "phone must be 7 to 15 digits", errs["phone"])
}

func TestValidate_EmptyCountryTreatedAsDomestic(t *testing.T) {
	d := validDetails()
	d.Country = ""
	d.Phone = "987654321" // 9 digits

	errs := Validate(d)
	assert.Equal(t, "phone must be 10 digits", errs["phone"])
}

func TestFirstError_Priority(t *testing.T) {
	errs := map[string]string{
		"pincode": "pincode is required",
		"email":   "email is required",
	}
	assert.Equal(t, "email is required", FirstError(errs))
	assert.Equal(t, "", FirstError(nil))
}
