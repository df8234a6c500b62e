package router

import (
	"strings"
	"time"

	tg "albumbot/core/telegram"
	"albumbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Flow defines the minimal interface for the conversation flow manager.
type Flow interface {
	InProgress(userID int64) bool
	TextHandler(c tele.Context) error
	PhotoHandler(c tele.Context) error
	MediaHandler(c tele.Context) error
}

// TextOptions controls fallback behaviour for text and media updates.
type TextOptions struct {
	UnknownText  tele.HandlerFunc
	UnknownMedia tele.HandlerFunc
}

// TextRoutes builds handlers for text, photo and other message routing.
// Commands are matched before the in-progress flow so that /cancel and
// friends work at any step, and matching ignores letter case.
func TextRoutes(flow Flow, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if token := commandToken(text); token != "" {
				if key, cmd, ok := reg.LookupCommand(token); ok && cmd.Handler != nil {
					name := normalizeHandlerName(key)
					return handleWithSummary(c, name, start, "", "", func() error {
						return cmd.Handler(c)
					})
				}
			}
		}

		if flow != nil && flow.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "flow", start, "", "", func() error {
				return flow.TextHandler(c)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if flow != nil && flow.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "flow_photo", start, "", "", func() error {
				return flow.PhotoHandler(c)
			})
		}
		if opts.UnknownMedia != nil {
			return handleWithSummary(c, "unexpected_photo", start, "", "", func() error {
				return opts.UnknownMedia(c)
			})
		}
		logHandlerSummary(c, "unexpected_photo", start, "skip", "ok", nil)
		return nil
	}

	// Non-photo media, contacts and locations all land here. OnMedia is
	// telebot's catch-all for media kinds without a dedicated route, so
	// voice notes, stickers, videos and the like still get an answer
	// instead of being dropped.
	mediaHandler := func(kind string) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if flow != nil && flow.InProgress(c.Sender().ID) {
				return handleWithSummary(c, "flow_"+kind, start, "", "", func() error {
					return flow.MediaHandler(c)
				})
			}
			if opts.UnknownMedia != nil {
				return handleWithSummary(c, "unexpected_"+kind, start, "", "", func() error {
					return opts.UnknownMedia(c)
				})
			}
			logHandlerSummary(c, "unexpected_"+kind, start, "skip", "ok", nil)
			return nil
		}
	}

	routes := []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
		{Endpoint: tele.OnPhoto, Handler: photoHandler},
		{Endpoint: tele.OnDocument, Handler: mediaHandler("document")},
		{Endpoint: tele.OnMedia, Handler: mediaHandler("media")},
		{Endpoint: tele.OnContact, Handler: mediaHandler("contact")},
		{Endpoint: tele.OnLocation, Handler: mediaHandler("location")},
	}
	for i := range routes {
		routes[i].Handler = middleware.RecoverMiddleware(middleware.LoggerMiddleware(routes[i].Handler))
	}
	return routes
}

// commandToken extracts the command from a message, lower-cased and stripped
// of a bot-name suffix. Slash commands match on the first word; a bare
// command word matches only when it is the entire message, so ordinary flow
// input is not mistaken for a command.
func commandToken(text string) string {
	text = strings.TrimSpace(text)
	token := text
	if idx := strings.IndexAny(token, " \t\n"); idx > 0 {
		token = token[:idx]
	}
	if !strings.HasPrefix(token, "/") && token != text {
		return ""
	}
	if idx := strings.Index(token, "@"); idx > 0 {
		token = token[:idx]
	}
	return strings.ToLower(token)
}
