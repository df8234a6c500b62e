// Package app wires the shop conversation flow into the Telegram bot core:
// command and callback registration, routing, and execution of the flow's
// outbound actions.
package app

import (
	"errors"
	"fmt"

	"albumbot/core/bootstrap"
	"albumbot/core/cover"
	"albumbot/core/logger"
	coretelegram "albumbot/core/telegram"
	"albumbot/core/telegram/callbacks"
	"albumbot/core/telegram/commands"
	tghelpers "albumbot/core/telegram/helpers"
	"albumbot/core/telegram/keyboard"
	"albumbot/core/telegram/middleware"
	"albumbot/core/telegram/router"
	"albumbot/core/telegram/ui"
	"albumbot/internal/shop"

	tele "gopkg.in/telebot.v4"
	"log/slog"
)

// App binds the purchase flow to the Telegram runtime.
type App struct {
	cfg  *Config
	flow *shop.Flow
	reg  *coretelegram.Registry
}

// Bootstrap initializes the logger, prepares the cover image and builds the
// application.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config: cfg.CoreConfig(),
		Cover: cover.Config{
			SourcePath: cfg.Shop.CoverSource,
			OutputPath: cfg.Shop.CoverOutput,
		},
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, res.CoverPath)
}

// New assembles the flow, registry and handlers. coverPath must point at the
// prepared cover image.
func New(cfg *Config, coverPath string) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	validator, err := shop.NewPhoneValidator(cfg.Shop.PhoneValidationEnabled(), cfg.Shop.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	flow, err := shop.NewFlow(shop.Config{
		AdminID:         cfg.Telegram.AdminID,
		DownloadLinkURL: cfg.Shop.DownloadLinkURL,
		PaymentText:     cfg.Shop.PaymentText,
		CoverPath:       coverPath,
		Validator:       validator,
	}, shop.NewStore())
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{
		cfg:  cfg,
		flow: flow,
		reg:  coretelegram.NewRegistry(),
	}
	a.registerCommands()
	if err := a.registerCallbacks(); err != nil {
		return nil, err
	}
	a.reg.SetTextFallback(a.handleText)

	return a, nil
}

func (a *App) registerCommands() {
	a.reg.RegisterCommand("/start", commands.Command{
		Handler:     func(c tele.Context) error { return a.perform(c, a.flow.Start(c.Sender().ID)) },
		Description: "Show the album cover and the Buy button",
	})
	a.reg.RegisterCommand("/help", commands.Command{
		Handler:     func(c tele.Context) error { return a.perform(c, a.flow.Help(c.Sender().ID)) },
		Description: "List available commands",
	})
	a.reg.RegisterCommand("/cancel", commands.Command{
		Handler:     func(c tele.Context) error { return a.perform(c, a.flow.Cancel(c.Sender().ID)) },
		Description: "Abort the current purchase",
	})
	a.reg.RegisterCommand("/ping", commands.Command{
		Handler:     func(c tele.Context) error { return a.perform(c, a.flow.Ping(c.Sender().ID)) },
		Description: "Check that the bot is alive",
		Hidden:      true,
	})
}

func (a *App) registerCallbacks() error {
	if err := a.reg.RegisterCallback(shop.ActionBuy, func(c tele.Context) error {
		return a.perform(c, a.flow.Buy(c.Sender().ID))
	}); err != nil {
		return err
	}

	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	for _, verb := range []string{shop.VerbApprove, shop.VerbReject} {
		verb := verb
		if err := a.reg.RegisterCallback(verb, adminOnly(func(c tele.Context) error {
			return a.handleDecision(c, verb)
		})); err != nil {
			return err
		}
	}
	return nil
}

// handleDecision rebuilds the "<verb>:<userId>" action payload from the
// callback and resolves it. Malformed or stale decisions are logged and
// swallowed; the callback was already acknowledged by the router.
func (a *App) handleDecision(c tele.Context, verb string) error {
	action := verb + ":" + callbacks.CallbackPayload(c)
	acts, err := a.flow.Decide(action)
	if perfErr := a.perform(c, acts); perfErr != nil {
		return perfErr
	}
	if err != nil {
		a.logRecovered(c, "decision.recovered", err)
		var malformed *shop.MalformedActionError
		var missing *shop.MissingSessionError
		if errors.As(err, &malformed) || errors.As(err, &missing) {
			return nil
		}
		return err
	}
	return nil
}

// handleText feeds a text update through the flow. Used both for in-progress
// sessions and as the registry's fallback for unrecognized text.
func (a *App) handleText(c tele.Context) error {
	acts, err := a.flow.HandleText(c.Sender().ID, c.Text())
	if perfErr := a.perform(c, acts); perfErr != nil {
		return perfErr
	}
	if err != nil {
		a.logRecovered(c, "flow.recovered", err)
	}
	return nil
}

func (a *App) handlePhoto(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return a.handleMedia(c)
	}
	acts, err := a.flow.HandleImage(c.Sender().ID, msg.Photo.FileID)
	if perfErr := a.perform(c, acts); perfErr != nil {
		return perfErr
	}
	if err != nil {
		a.logRecovered(c, "flow.recovered", err)
	}
	return nil
}

func (a *App) handleMedia(c tele.Context) error {
	return a.perform(c, a.flow.HandleOther(c.Sender().ID))
}

func (a *App) logRecovered(c tele.Context, event string, err error) {
	ctx := tghelpers.BuildContext(c)
	attrs := []slog.Attr{
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	}
	type coder interface{ Code() string }
	if coded, ok := err.(coder); ok {
		attrs = append(attrs, slog.String("err_code", coded.Code()))
	}
	logger.Warn(ctx, "shop", event, attrs...)
}

// perform executes the flow's outbound actions through the async send
// helpers. A failed enqueue aborts the remaining actions.
func (a *App) perform(c tele.Context, acts []shop.Action) error {
	for _, act := range acts {
		switch v := act.(type) {
		case shop.SendText:
			markup := buttonsMarkup(v.Buttons)
			if v.To == c.Sender().ID {
				var err error
				if v.Markdown {
					err = tghelpers.SendMD(c, v.Text, markup)
				} else {
					err = tghelpers.SendText(c, v.Text, &tele.SendOptions{ReplyMarkup: markup})
				}
				if err != nil {
					return err
				}
				continue
			}
			opts := &tele.SendOptions{ReplyMarkup: markup}
			if v.Markdown {
				opts.ParseMode = tele.ModeMarkdown
			}
			if err := tghelpers.SendTextTo(c, v.To, v.Text, opts); err != nil {
				return err
			}
		case shop.SendImage:
			photo := &tele.Photo{Caption: v.Caption}
			if v.FileRef != "" {
				photo.File = tele.File{FileID: v.FileRef}
			} else {
				photo.File = tele.FromDisk(v.Path)
			}
			if err := tghelpers.SendPhotoTo(c, v.To, photo, buttonsMarkup(v.Buttons)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("app: unsupported action %T", act)
		}
	}
	return nil
}

// UnknownText handles text from users with no active session.
func (a *App) UnknownText() tele.HandlerFunc { return a.handleText }

// UnknownMedia handles media the flow has no use for.
func (a *App) UnknownMedia() tele.HandlerFunc { return a.handleMedia }

// UnknownCallback acknowledges button presses with no registered handler.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	}
}

// flowAdapter exposes the app's update handlers to the message router.
type flowAdapter struct{ app *App }

func (f flowAdapter) InProgress(userID int64) bool      { return f.app.flow.InProgress(userID) }
func (f flowAdapter) TextHandler(c tele.Context) error  { return f.app.handleText(c) }
func (f flowAdapter) PhotoHandler(c tele.Context) error { return f.app.handlePhoto(c) }
func (f flowAdapter) MediaHandler(c tele.Context) error { return f.app.handleMedia(c) }

func buttonsMarkup(rows [][]shop.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	kbRows := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]keyboard.InlineBtn, 0, len(row))
		for _, btn := range row {
			kbRow = append(kbRow, keyboard.InlineBtn{
				Text:   btn.Text,
				Unique: btn.Unique,
				Data:   btn.Data,
			})
		}
		kbRows = append(kbRows, kbRow)
	}
	return keyboard.InlineButtonsRows(kbRows...)
}

// TelegramRunOptions builds the bot runtime configuration: default
// middleware chain plus the command, message and callback routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	core := a.cfg.CoreConfig()

	var fb ui.FallbackProvider = a

	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(flowAdapter{a}, a.reg, router.TextOptions{
		UnknownText:  fb.UnknownText(),
		UnknownMedia: fb.UnknownMedia(),
	})...)
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{
		NotFound: fb.UnknownCallback(),
	}))

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    a.reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
	}, nil
}
