package checkout

// Status tracks one checkout attempt. AWAITING_PAYMENT is a suspension
// point: the session waits indefinitely for the payment widget to
// report success, cancel, or error.
type Status string

const (
	StatusInitiated        Status = "INITIATED"
	StatusAwaitingPayment  Status = "AWAITING_PAYMENT"
	StatusPaymentCompleted Status = "PAYMENT_COMPLETED"
	StatusCompleted        Status = "COMPLETED"
	StatusCancelled        Status = "CANCELLED"
	StatusFailed           Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusInitiated:        {StatusAwaitingPayment, StatusFailed},
	StatusAwaitingPayment:  {StatusPaymentCompleted, StatusCancelled, StatusFailed},
	StatusPaymentCompleted: {StatusCompleted, StatusFailed},
}

// CanTransitionTo reports whether moving from one status to another is legal.
func CanTransitionTo(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
