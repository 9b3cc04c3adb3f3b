package submissions

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission kinds the forms can post.
const (
	KindPrayerRequest = "prayer_request"
	KindFeedback      = "feedback"
	KindContact       = "contact"
)

var (
	ErrUnknownKind = errors.New("unknown submission kind")

	validKinds = map[string]bool{
		KindPrayerRequest: true,
		KindFeedback:      true,
		KindContact:       true,
	}

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Submission is one message posted from the prayer request, feedback,
// or contact forms.
type Submission struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError carries the field→message map for an invalid
// submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for _, field := range []string{"kind", "name", "email", "message"} {
		if msg, ok := e.Fields[field]; ok {
			return msg
		}
	}
	return "invalid submission"
}

// Validate checks a submission before it is stored. Email and phone are
// optional; email is checked only when present.
func Validate(s Submission) map[string]string {
	errs := make(map[string]string)

	if !validKinds[s.Kind] {
		errs["kind"] = "unknown submission kind"
	}
	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = "name is required"
	}
	if email := strings.TrimSpace(s.Email); email != "" && !emailPattern.MatchString(email) {
		errs["email"] = "email is invalid"
	}
	if strings.TrimSpace(s.Message) == "" {
		errs["message"] = "message is required"
	}

	return errs
}
