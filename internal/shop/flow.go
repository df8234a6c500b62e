package shop

import (
	"fmt"
	"strings"
)

// Config carries the deployment-specific knobs of the purchase flow.
type Config struct {
	// AdminID receives review requests and decision confirmations.
	AdminID int64
	// DownloadLinkURL is sent to the buyer on approval.
	DownloadLinkURL string
	// PaymentText is the payment instructions shown after the phone step.
	PaymentText string
	// CoverPath is the prepared cover image sent by /start.
	CoverPath string
	// Validator checks phone input. A nil validator accepts anything.
	Validator *PhoneValidator
}

// Flow is the conversation state machine. Every handler takes the user's
// inbound event, mutates the session store under the user's lock, and
// returns the outbound actions to perform.
type Flow struct {
	cfg   Config
	store *Store
}

// NewFlow validates the configuration and binds the flow to a store.
func NewFlow(cfg Config, store *Store) (*Flow, error) {
	if store == nil {
		return nil, fmt.Errorf("shop: nil store")
	}
	if cfg.AdminID == 0 {
		return nil, fmt.Errorf("shop: admin id is required")
	}
	if cfg.DownloadLinkURL == "" {
		return nil, fmt.Errorf("shop: download link url is required")
	}
	if cfg.PaymentText == "" {
		return nil, fmt.Errorf("shop: payment instructions text is required")
	}
	return &Flow{cfg: cfg, store: store}, nil
}

// InProgress reports whether the user has an active purchase conversation.
func (f *Flow) InProgress(userID int64) bool {
	_, ok := f.store.Get(userID)
	return ok
}

// Start shows the album cover with the Buy button. An existing session is
// left untouched; pressing Buy again simply re-issues the current prompt.
func (f *Flow) Start(userID int64) []Action {
	return []Action{SendImage{
		To:      userID,
		Path:    f.cfg.CoverPath,
		Caption: textCoverCaption,
		Buttons: [][]Button{{{Text: textButtonBuy, Unique: ActionBuy}}},
	}}
}

// Help describes the available commands.
func (f *Flow) Help(userID int64) []Action {
	return []Action{SendText{To: userID, Text: textHelp}}
}

// Ping answers a liveness check.
func (f *Flow) Ping(userID int64) []Action {
	return []Action{SendText{To: userID, Text: textPong}}
}

// Cancel aborts the purchase from any step. Idempotent: with no active
// session it still confirms the cancellation.
func (f *Flow) Cancel(userID int64) []Action {
	unlock := f.store.Lock(userID)
	defer unlock()

	f.store.Delete(userID)
	return []Action{SendText{To: userID, Text: textCancelled}}
}

// Buy handles the Buy button press: a user with no session enters the name
// step; a user already in the flow gets the prompt for their current step.
func (f *Flow) Buy(userID int64) []Action {
	unlock := f.store.Lock(userID)
	defer unlock()

	if sess, ok := f.store.Get(userID); ok {
		return []Action{f.stepPrompt(sess)}
	}
	f.store.Set(Session{UserID: userID, Step: StepAwaitingName})
	return []Action{SendText{To: userID, Text: textNamePrompt}}
}

// HandleText advances the session according to the current step. The
// returned error, when non-nil, is a recovered condition for logging; the
// actions already contain the user-facing re-prompt.
func (f *Flow) HandleText(userID int64, text string) ([]Action, error) {
	unlock := f.store.Lock(userID)
	defer unlock()

	sess, ok := f.store.Get(userID)
	if !ok {
		return []Action{SendText{To: userID, Text: textStartHint}}, nil
	}

	switch sess.Step {
	case StepAwaitingName:
		name := strings.TrimSpace(text)
		if name == "" {
			return []Action{SendText{To: userID, Text: textNamePrompt}}, nil
		}
		sess.Name = name
		sess.Step = StepAwaitingPhone
		f.store.Set(sess)
		return []Action{SendText{To: userID, Text: phonePrompt(name)}}, nil

	case StepAwaitingPhone:
		phone := strings.TrimSpace(text)
		if strings.EqualFold(phone, "cancel") {
			f.store.Delete(userID)
			return []Action{SendText{To: userID, Text: textCancelled}}, nil
		}
		if err := f.cfg.Validator.Validate(phone); err != nil {
			return []Action{SendText{To: userID, Text: textInvalidPhone}}, err
		}
		sess.Phone = phone
		sess.Step = StepAwaitingPaymentProof
		f.store.Set(sess)
		return []Action{SendText{To: userID, Text: f.cfg.PaymentText}}, nil

	case StepAwaitingPaymentProof:
		return []Action{SendText{To: userID, Text: textProofPrompt}}, nil
	}

	return []Action{SendText{To: userID, Text: textStartHint}}, nil
}

// HandleImage processes an inbound photo. Only the payment-proof step
// consumes images; fileRef must be the highest-resolution variant. The
// session is retained until the admin decides.
func (f *Flow) HandleImage(userID int64, fileRef string) ([]Action, error) {
	unlock := f.store.Lock(userID)
	defer unlock()

	sess, ok := f.store.Get(userID)
	if !ok {
		return []Action{SendText{To: userID, Text: textMediaHint}}, nil
	}

	if sess.Step != StepAwaitingPaymentProof {
		return []Action{f.stepPrompt(sess)}, nil
	}

	sess.PaymentProofRef = fileRef
	f.store.Set(sess)

	actions := []Action{SendText{To: userID, Text: textProofAck}}
	actions = append(actions, f.reviewRequest(sess)...)
	return actions, nil
}

// HandleOther covers inbound messages with neither text nor a usable image.
func (f *Flow) HandleOther(userID int64) []Action {
	unlock := f.store.Lock(userID)
	defer unlock()

	if sess, ok := f.store.Get(userID); ok {
		return []Action{f.stepPrompt(sess)}
	}
	return []Action{SendText{To: userID, Text: textMediaHint}}
}

// stepPrompt re-issues the prompt for the session's current step.
func (f *Flow) stepPrompt(sess Session) Action {
	switch sess.Step {
	case StepAwaitingName:
		return SendText{To: sess.UserID, Text: textNamePrompt}
	case StepAwaitingPhone:
		return SendText{To: sess.UserID, Text: phonePrompt(sess.Name)}
	case StepAwaitingPaymentProof:
		return SendText{To: sess.UserID, Text: textProofPrompt}
	}
	return SendText{To: sess.UserID, Text: textStartHint}
}
