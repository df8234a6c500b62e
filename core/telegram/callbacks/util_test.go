package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		unique  string
		payload string
	}{
		{"unique with payload", "\fapprove|123456", "approve", "123456"},
		{"unique only", "\fbuy_album", "buy_album", ""},
		{"no prefix", "reject|42", "reject", "42"},
		{"empty", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
			if unique != tc.unique || payload != tc.payload {
				t.Fatalf("got (%q, %q), want (%q, %q)", unique, payload, tc.unique, tc.payload)
			}
		})
	}
}

func TestParseCallbackDataPreSplit(t *testing.T) {
	unique, payload := ParseCallbackData(&tele.Callback{Unique: "approve", Data: "123456"})
	if unique != "approve" || payload != "123456" {
		t.Fatalf("got (%q, %q), want pre-split values passed through", unique, payload)
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	unique, payload := ParseCallbackData(nil)
	if unique != "" || payload != "" {
		t.Fatalf("expected empty result for nil callback")
	}
}
