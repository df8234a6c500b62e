package shop

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const (
	testAdminID = int64(900001)
	testUserID  = int64(123456)
	testLink    = "https://example.org/album"
	testPayText = "Send payment to account 123456789, then upload a screenshot."
)

func newTestFlow(t *testing.T, validate bool) (*Flow, *Store) {
	t.Helper()
	v, err := NewPhoneValidator(validate, "")
	if err != nil {
		t.Fatalf("NewPhoneValidator: %v", err)
	}
	store := NewStore()
	flow, err := NewFlow(Config{
		AdminID:         testAdminID,
		DownloadLinkURL: testLink,
		PaymentText:     testPayText,
		CoverPath:       "testdata/cover.jpg",
		Validator:       v,
	}, store)
	if err != nil {
		t.Fatalf("NewFlow: %v", err)
	}
	return flow, store
}

func driveToProofStep(t *testing.T, flow *Flow) {
	t.Helper()
	flow.Buy(testUserID)
	if _, err := flow.HandleText(testUserID, "Jane Doe"); err != nil {
		t.Fatalf("name step: %v", err)
	}
	if _, err := flow.HandleText(testUserID, "0912345678"); err != nil {
		t.Fatalf("phone step: %v", err)
	}
}

func textsFor(actions []Action, target int64) []string {
	var out []string
	for _, a := range actions {
		if st, ok := a.(SendText); ok && st.To == target {
			out = append(out, st.Text)
		}
	}
	return out
}

func TestTextWithoutSessionPrompts(t *testing.T) {
	flow, store := newTestFlow(t, true)

	actions, err := flow.HandleText(testUserID, "hello there")
	if err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	got := textsFor(actions, testUserID)
	if len(got) != 1 || !strings.Contains(got[0], "/start") {
		t.Errorf("expected start hint, got %q", got)
	}
	if store.Len() != 0 {
		t.Errorf("store mutated: %d sessions", store.Len())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	flow, store := newTestFlow(t, true)

	flow.Buy(testUserID)
	if !flow.InProgress(testUserID) {
		t.Fatal("expected session after Buy")
	}

	first := flow.Cancel(testUserID)
	if flow.InProgress(testUserID) {
		t.Fatal("session survived cancel")
	}
	second := flow.Cancel(testUserID)

	for i, actions := range [][]Action{first, second} {
		got := textsFor(actions, testUserID)
		if len(got) != 1 || !strings.Contains(got[0], "canceled") {
			t.Errorf("cancel #%d: expected confirmation, got %q", i+1, got)
		}
	}
	if store.Len() != 0 {
		t.Errorf("store not empty after cancels")
	}
}

func TestStepsOnlyMoveForward(t *testing.T) {
	flow, store := newTestFlow(t, true)

	flow.Buy(testUserID)
	steps := []struct {
		input string
		want  Step
	}{
		{"Jane Doe", StepAwaitingPhone},
		{"0912345678", StepAwaitingPaymentProof},
	}
	for _, st := range steps {
		if _, err := flow.HandleText(testUserID, st.input); err != nil {
			t.Fatalf("HandleText(%q): %v", st.input, err)
		}
		sess, ok := store.Get(testUserID)
		if !ok {
			t.Fatalf("session gone after %q", st.input)
		}
		if sess.Step != st.want {
			t.Fatalf("after %q step = %v, want %v", st.input, sess.Step, st.want)
		}
	}

	// Further text at the proof step re-prompts without moving.
	if _, err := flow.HandleText(testUserID, "more text"); err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	sess, _ := store.Get(testUserID)
	if sess.Step != StepAwaitingPaymentProof {
		t.Errorf("step moved to %v on plain text", sess.Step)
	}

	// Pressing Buy again never resets an advanced session.
	flow.Buy(testUserID)
	sess, _ = store.Get(testUserID)
	if sess.Step != StepAwaitingPaymentProof {
		t.Errorf("Buy reset step to %v", sess.Step)
	}
}

func TestPhoneValidation(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"0912345678", true},
		{"+251912345678", true},
		{"12345", false},
		{"09123456789", false},
		{"+251812345678", false},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			flow, store := newTestFlow(t, true)
			flow.Buy(testUserID)
			if _, err := flow.HandleText(testUserID, "Jane Doe"); err != nil {
				t.Fatalf("name step: %v", err)
			}

			actions, err := flow.HandleText(testUserID, tc.input)
			sess, _ := store.Get(testUserID)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if sess.Step != StepAwaitingPaymentProof || sess.Phone != tc.input {
					t.Errorf("session = %+v, want proof step with phone %q", sess, tc.input)
				}
				if got := textsFor(actions, testUserID); len(got) != 1 || got[0] != testPayText {
					t.Errorf("expected payment instructions, got %q", got)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if sess.Step != StepAwaitingPhone || sess.Phone != "" {
				t.Errorf("session corrupted on invalid phone: %+v", sess)
			}
			if got := textsFor(actions, testUserID); len(got) != 1 || !strings.Contains(got[0], "valid phone") {
				t.Errorf("expected re-prompt, got %q", got)
			}
		})
	}
}

func TestPhoneValidationDisabled(t *testing.T) {
	flow, store := newTestFlow(t, false)
	flow.Buy(testUserID)
	if _, err := flow.HandleText(testUserID, "Jane Doe"); err != nil {
		t.Fatalf("name step: %v", err)
	}
	if _, err := flow.HandleText(testUserID, "call me maybe"); err != nil {
		t.Fatalf("phone step: %v", err)
	}
	sess, _ := store.Get(testUserID)
	if sess.Step != StepAwaitingPaymentProof || sess.Phone != "call me maybe" {
		t.Errorf("session = %+v, want any phone accepted", sess)
	}
}

func TestCancelWordAtPhoneStep(t *testing.T) {
	flow, store := newTestFlow(t, true)
	flow.Buy(testUserID)
	if _, err := flow.HandleText(testUserID, "Jane Doe"); err != nil {
		t.Fatalf("name step: %v", err)
	}
	actions, err := flow.HandleText(testUserID, "Cancel")
	if err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	if store.Len() != 0 {
		t.Error("session survived cancel word")
	}
	if got := textsFor(actions, testUserID); len(got) != 1 || !strings.Contains(got[0], "canceled") {
		t.Errorf("expected cancellation, got %q", got)
	}
}

func TestNonImageAtProofStepNeverSubmits(t *testing.T) {
	flow, store := newTestFlow(t, true)
	driveToProofStep(t, flow)

	actions, err := flow.HandleText(testUserID, "I paid, trust me")
	if err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	if got := textsFor(actions, testAdminID); len(got) != 0 {
		t.Errorf("admin notified without proof: %q", got)
	}
	sess, _ := store.Get(testUserID)
	if sess.Step != StepAwaitingPaymentProof || sess.PaymentProofRef != "" {
		t.Errorf("session advanced without image: %+v", sess)
	}
}

func TestEndToEndApproval(t *testing.T) {
	flow, store := newTestFlow(t, true)

	start := flow.Start(testUserID)
	if len(start) != 1 {
		t.Fatalf("Start returned %d actions", len(start))
	}
	cover, ok := start[0].(SendImage)
	if !ok || cover.To != testUserID {
		t.Fatalf("Start action = %#v, want cover image to user", start[0])
	}
	if len(cover.Buttons) != 1 || cover.Buttons[0][0].Unique != ActionBuy {
		t.Fatalf("cover keyboard = %#v, want Buy button", cover.Buttons)
	}
	if store.Len() != 0 {
		t.Fatal("Start created a session")
	}

	flow.Buy(testUserID)
	if _, err := flow.HandleText(testUserID, "Jane Doe"); err != nil {
		t.Fatalf("name: %v", err)
	}
	if _, err := flow.HandleText(testUserID, "0912345678"); err != nil {
		t.Fatalf("phone: %v", err)
	}

	actions, err := flow.HandleImage(testUserID, "file-ref-42")
	if err != nil {
		t.Fatalf("HandleImage: %v", err)
	}

	sess, ok := store.Get(testUserID)
	if !ok {
		t.Fatal("session cleared before admin decision")
	}
	if sess.Name != "Jane Doe" || sess.Phone != "0912345678" || sess.PaymentProofRef != "file-ref-42" {
		t.Fatalf("session = %+v", sess)
	}

	adminTexts := textsFor(actions, testAdminID)
	if len(adminTexts) != 1 || !strings.Contains(adminTexts[0], "Jane Doe") || !strings.Contains(adminTexts[0], "0912345678") {
		t.Errorf("admin summary = %q", adminTexts)
	}
	var proof SendImage
	found := false
	for _, a := range actions {
		if img, ok := a.(SendImage); ok && img.To == testAdminID {
			proof, found = img, true
		}
	}
	if !found {
		t.Fatal("no proof image sent to admin")
	}
	if proof.FileRef != "file-ref-42" {
		t.Errorf("proof FileRef = %q", proof.FileRef)
	}
	if len(proof.Buttons) != 1 || len(proof.Buttons[0]) != 2 {
		t.Fatalf("proof keyboard = %#v", proof.Buttons)
	}
	wantData := fmt.Sprintf("%d", testUserID)
	for i, verb := range []string{VerbApprove, VerbReject} {
		btn := proof.Buttons[0][i]
		if btn.Unique != verb || btn.Data != wantData {
			t.Errorf("button %d = %+v, want unique %q data %q", i, btn, verb, wantData)
		}
	}

	decided, err := flow.Decide(fmt.Sprintf("approve:%d", testUserID))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	userTexts := textsFor(decided, testUserID)
	if len(userTexts) != 1 || !strings.Contains(userTexts[0], testLink) {
		t.Errorf("buyer message = %q, want download link", userTexts)
	}
	if got := textsFor(decided, testAdminID); len(got) != 1 || !strings.Contains(got[0], "sent") {
		t.Errorf("admin confirmation = %q", got)
	}
	if store.Len() != 0 {
		t.Error("session survived approval")
	}
}

func TestRejectPath(t *testing.T) {
	flow, store := newTestFlow(t, true)
	driveToProofStep(t, flow)
	if _, err := flow.HandleImage(testUserID, "file-ref-7"); err != nil {
		t.Fatalf("HandleImage: %v", err)
	}

	decided, err := flow.Decide(fmt.Sprintf("reject:%d", testUserID))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	userTexts := textsFor(decided, testUserID)
	if len(userTexts) != 1 || strings.Contains(userTexts[0], testLink) {
		t.Errorf("buyer message = %q, must not contain the link", userTexts)
	}
	if !strings.Contains(userTexts[0], "could not verify") {
		t.Errorf("buyer message = %q, want failure notice", userTexts)
	}
	if store.Len() != 0 {
		t.Error("session survived rejection")
	}
}

func TestDecisionDoublePress(t *testing.T) {
	flow, _ := newTestFlow(t, true)
	driveToProofStep(t, flow)
	if _, err := flow.HandleImage(testUserID, "file-ref-9"); err != nil {
		t.Fatalf("HandleImage: %v", err)
	}

	action := fmt.Sprintf("approve:%d", testUserID)
	if _, err := flow.Decide(action); err != nil {
		t.Fatalf("first Decide: %v", err)
	}

	actions, err := flow.Decide(action)
	var missing *MissingSessionError
	if !errors.As(err, &missing) {
		t.Fatalf("second Decide error = %v, want *MissingSessionError", err)
	}
	if missing.UserID != testUserID {
		t.Errorf("missing UserID = %d", missing.UserID)
	}
	if got := textsFor(actions, testUserID); len(got) != 1 {
		t.Errorf("buyer messages on second press = %q", got)
	}
	if got := textsFor(actions, testAdminID); len(got) != 1 {
		t.Errorf("admin messages on second press = %q", got)
	}
}

func TestDecideMalformedPayloads(t *testing.T) {
	flow, _ := newTestFlow(t, true)

	for _, payload := range []string{
		"",
		"approve",
		"approve:",
		"approve:abc",
		"approve:0",
		"escalate:123456",
		"123456",
	} {
		t.Run(payload, func(t *testing.T) {
			actions, err := flow.Decide(payload)
			var malformed *MalformedActionError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want *MalformedActionError", err)
			}
			if len(actions) != 0 {
				t.Errorf("actions = %#v, want none", actions)
			}
		})
	}
}

func TestHandleOther(t *testing.T) {
	flow, _ := newTestFlow(t, true)

	actions := flow.HandleOther(testUserID)
	if got := textsFor(actions, testUserID); len(got) != 1 || !strings.Contains(got[0], "/start") {
		t.Errorf("no-session media hint = %q", got)
	}

	flow.Buy(testUserID)
	actions = flow.HandleOther(testUserID)
	if got := textsFor(actions, testUserID); len(got) != 1 || !strings.Contains(got[0], "name") {
		t.Errorf("in-flow media prompt = %q", got)
	}
}

func TestHelpListsOnlyVisibleCommands(t *testing.T) {
	flow, _ := newTestFlow(t, true)

	actions := flow.Help(testUserID)
	texts := textsFor(actions, testUserID)
	if len(texts) != 1 {
		t.Fatalf("help actions = %#v, want one text", actions)
	}
	for _, cmd := range []string{"/start", "/cancel", "/help"} {
		if !strings.Contains(texts[0], cmd) {
			t.Errorf("help text missing %s: %q", cmd, texts[0])
		}
	}
	if strings.Contains(texts[0], "/ping") {
		t.Errorf("help text lists the hidden liveness command: %q", texts[0])
	}
}
