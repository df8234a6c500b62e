// Package shop implements the purchase conversation for the album bot: the
// per-user session store, the step machine that collects name, phone and a
// payment screenshot, and the admin review handshake that resolves an
// approve or reject decision back to the buyer.
package shop

// Step is the stage of an in-progress purchase conversation.
type Step int

const (
	// StepNone means no conversation is in progress. It is represented by
	// the absence of a Session and never stored.
	StepNone Step = iota
	StepAwaitingName
	StepAwaitingPhone
	StepAwaitingPaymentProof
)

func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepAwaitingName:
		return "awaiting_name"
	case StepAwaitingPhone:
		return "awaiting_phone"
	case StepAwaitingPaymentProof:
		return "awaiting_payment_proof"
	default:
		return "unknown"
	}
}

// Session holds one user's in-progress purchase flow.
type Session struct {
	UserID int64
	Step   Step
	Name   string
	Phone  string
	// PaymentProofRef is the transport file reference of the submitted
	// payment screenshot, set when the proof step completes.
	PaymentProofRef string
}
