package helpers

import (
	"errors"
	"log/slog"
	"sync/atomic"

	"albumbot/core/logger"
	"albumbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func currentChatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return 0
}

func sendAsync(c tele.Context, to int64, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, to, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, currentChatID(c), "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, sendOpts)
		}
		return c.Send(text)
	})
}

// SendMD sends a message with Markdown parse mode and optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: rm}
	return SendText(c, text, opts)
}

// SendTextTo sends text to an arbitrary recipient, not necessarily the chat
// the update came from. Used when one update fans out to several chats
// (e.g. buyer acknowledgment plus admin notification).
func SendTextTo(c tele.Context, to int64, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, to, "send.text", "sendMessage", func() error {
		recipient := &tele.User{ID: to}
		if sendOpts != nil {
			_, err := c.Bot().Send(recipient, text, sendOpts)
			return err
		}
		_, err := c.Bot().Send(recipient, text)
		return err
	})
}

// SendPhotoTo sends a photo to an arbitrary recipient.
func SendPhotoTo(c tele.Context, to int64, photo *tele.Photo, markup ...*tele.ReplyMarkup) error {
	var rm *tele.ReplyMarkup
	if len(markup) > 0 {
		rm = markup[0]
	}
	return sendAsync(c, to, "send.photo", "sendPhoto", func() error {
		if rm != nil {
			_, err := c.Bot().Send(&tele.User{ID: to}, photo, rm)
			return err
		}
		_, err := c.Bot().Send(&tele.User{ID: to}, photo)
		return err
	})
}
