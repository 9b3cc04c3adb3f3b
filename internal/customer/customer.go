package customer

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// Details holds the shipping and contact fields collected before checkout.
type Details struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
}

// Validate checks the details synchronously and returns a field→message
// map. An empty map means valid. The server side is still expected to
// re-validate anything it persists.
func Validate(d Details) map[string]string {
	errs := ValidateContact(d.Name, d.Email, d.Phone, d.Country)

	if strings.TrimSpace(d.Address) == "" {
		errs["address"] = "address is required"
	}

	if strings.TrimSpace(d.Pincode) == "" {
		errs["pincode"] = "pincode is required"
	}

	return errs
}

// ValidateContact checks the identity fields shared by the checkout and
// donation forms.
func ValidateContact(name, email, phone, country string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(name) == "" {
		errs["name"] = "name is required"
	}

	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(trimmed) {
		errs["email"] = "email is invalid"
	}

	if msg := validatePhone(phone, country); msg != "" {
		errs["phone"] = msg
	}

	return errs
}

// validatePhone strips non-digits and checks length. Domestic numbers
// (India, or no country given) must be exactly 10 digits; international
// numbers may be 7 to 15 digits.
func validatePhone(phone, country string) string {
	digits := nonDigitPattern.ReplaceAllString(phone, "")
	if digits == "" {
		return "phone is required"
	}

	if isDomestic(country) {
		if len(digits) != 10 {
			return "phone must be 10 digits"
		}
		return ""
	}

	if len(digits) < 7 || len(digits) > 15 {
		return "phone must be 7 to 15 digits"
	}
	return ""
}

func isDomestic(country string) bool {
	c := strings.ToLower(strings.TrimSpace(country))
	return c == "" || c == "india" || c == "in"
}

// FirstError returns one error message for toast-style surfacing, or
// an empty string when the map is empty.
func FirstError(errs map[string]string) string {
	// Stable priority so the surfaced message is deterministic.
	for _, field := range []string{"name", "email", "phone", "address", "pincode"} {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ""
}
