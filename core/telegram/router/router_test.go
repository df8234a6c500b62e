package router

import (
	"errors"
	"testing"

	tg "albumbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

func TestCommandToken(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/start", "/start"},
		{"/START", "/start"},
		{"/start@AlbumBot", "/start"},
		{"/cancel please", "/cancel"},
		{"cancel", "cancel"},
		{"Ping", "ping"},
		{"Jane Doe", ""},
		{"0912345678", "0912345678"},
		{"  /help  ", "/help"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := commandToken(tc.text); got != tc.want {
			t.Errorf("commandToken(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/start", "start"},
		{"  /Ping  ", "ping"},
		{"buy album", "buy_album"},
		{"", "unknown"},
	}
	for _, tc := range cases {
		if got := normalizeHandlerName(tc.in); got != tc.want {
			t.Errorf("normalizeHandlerName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

type codedError struct{ code string }

func (e *codedError) Error() string { return "coded" }
func (e *codedError) Code() string  { return e.code }

func TestDeriveErrorCode(t *testing.T) {
	if got := deriveErrorCode(nil); got != "" {
		t.Errorf("nil error code = %q", got)
	}
	if got := deriveErrorCode(&codedError{code: "missing session"}); got != "MISSING_SESSION" {
		t.Errorf("coded error = %q", got)
	}
	if got := deriveErrorCode(errors.New("plain")); got != "ERRORSTRING" {
		t.Errorf("plain error = %q", got)
	}
}

func TestParseCallback(t *testing.T) {
	key, payload := parseCallback(&tele.Callback{Data: "\fapprove|123456"})
	if key != "approve" || payload != "123456" {
		t.Fatalf("got (%q, %q)", key, payload)
	}
	key, payload = parseCallback(&tele.Callback{Unique: "reject", Data: "42"})
	if key != "reject" || payload != "42" {
		t.Fatalf("pre-split got (%q, %q)", key, payload)
	}
	if key, _ := parseCallback(nil); key != "" {
		t.Fatalf("nil callback key = %q", key)
	}
}

type recordingFlow struct {
	active map[int64]bool
	calls  []string
}

func (f *recordingFlow) InProgress(id int64) bool { return f.active[id] }
func (f *recordingFlow) TextHandler(tele.Context) error {
	f.calls = append(f.calls, "text")
	return nil
}
func (f *recordingFlow) PhotoHandler(tele.Context) error {
	f.calls = append(f.calls, "photo")
	return nil
}
func (f *recordingFlow) MediaHandler(tele.Context) error {
	f.calls = append(f.calls, "media")
	return nil
}

// routeContext is the minimal tele.Context surface the message routes touch.
type routeContext struct {
	tele.Context
	sender *tele.User
	data   map[string]any
}

func newRouteContext(userID int64) *routeContext {
	return &routeContext{sender: &tele.User{ID: userID}, data: map[string]any{}}
}

func (c *routeContext) Sender() *tele.User { return c.sender }
func (c *routeContext) Chat() *tele.Chat {
	return &tele.Chat{ID: c.sender.ID, Type: tele.ChatPrivate}
}
func (c *routeContext) Update() tele.Update { return tele.Update{ID: 1} }
func (c *routeContext) Text() string { return "" }
func (c *routeContext) Get(key string) any { return c.data[key] }
func (c *routeContext) Set(key string, v any) { c.data[key] = v }

func routeFor(t *testing.T, routes []tg.Route, endpoint any) tele.HandlerFunc {
	t.Helper()
	for _, r := range routes {
		if r.Endpoint == endpoint {
			if r.Handler == nil {
				t.Fatalf("route for endpoint %v has nil handler", endpoint)
			}
			return r.Handler
		}
	}
	t.Fatalf("no route registered for endpoint %v", endpoint)
	return nil
}

func TestTextRoutesCoverNonTextUpdates(t *testing.T) {
	routes := TextRoutes(&recordingFlow{}, nil, TextOptions{})
	for _, endpoint := range []any{
		tele.OnText, tele.OnPhoto, tele.OnDocument,
		tele.OnMedia, tele.OnContact, tele.OnLocation,
	} {
		routeFor(t, routes, endpoint)
	}
}

func TestMediaRouteReachesFlowDuringPurchase(t *testing.T) {
	flow := &recordingFlow{active: map[int64]bool{42: true}}
	routes := TextRoutes(flow, nil, TextOptions{})

	for _, endpoint := range []any{tele.OnMedia, tele.OnDocument, tele.OnContact} {
		if err := routeFor(t, routes, endpoint)(newRouteContext(42)); err != nil {
			t.Fatalf("handler for %v returned error: %v", endpoint, err)
		}
	}
	if len(flow.calls) != 3 {
		t.Fatalf("expected 3 media handler calls, got %v", flow.calls)
	}
	for _, call := range flow.calls {
		if call != "media" {
			t.Fatalf("unexpected flow call %q", call)
		}
	}
}

func TestMediaRouteFallsBackOutsidePurchase(t *testing.T) {
	flow := &recordingFlow{}
	fallbacks := 0
	routes := TextRoutes(flow, nil, TextOptions{
		UnknownMedia: func(tele.Context) error { fallbacks++; return nil },
	})

	if err := routeFor(t, routes, tele.OnMedia)(newRouteContext(42)); err != nil {
		t.Fatalf("media handler returned error: %v", err)
	}
	if fallbacks != 1 {
		t.Fatalf("expected unknown-media fallback, got %d calls", fallbacks)
	}
	if len(flow.calls) != 0 {
		t.Fatalf("flow should not run without a session, got %v", flow.calls)
	}
}
