package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"geobot/internal/config"
	"geobot/internal/logger"
	"geobot/internal/session"
	"geobot/internal/telegram"
	"log/slog"
)

// Bot wires the Telegram transport with the conversation router.
type Bot struct {
	tb     *tele.Bot
	router *Router
}

// New builds the bot, registers all routes, and publishes the command menu.
// Every handler is registered up front; which one acts on a given text
// message is decided by the stored session state, never by late
// handler registration.
func New(cfg *config.Config, sessions session.Store, geo Geocoder) (*Bot, error) {
	settings := tele.Settings{
		Token:     cfg.Telegram.Token,
		Poller:    telegram.BuildPoller(cfg),
		Client:    telegram.BuildHTTPClient(),
		ParseMode: tele.ModeMarkdown,
	}

	start := time.Now()
	tb, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("bot initialization failed: %w", err)
	}
	logger.TG.Info("bot built",
		slog.String("event", "tg.build"),
		slog.String("mode", cfg.Telegram.RunMode),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	router := NewRouter(sessions, geo)
	b := &Bot{tb: tb, router: router}

	tb.Use(recoverMiddleware, loggerMiddleware)

	tb.Handle("/start", b.wrap(router.Start))
	tb.Handle("/help", b.wrap(router.Help))
	tb.Handle("/search", b.wrap(router.SearchPrompt))
	tb.Handle("/advanced", b.wrap(router.AdvancedPrompt))
	tb.Handle(tele.OnText, b.onText)
	tb.Handle(tele.OnCallback, b.onCallback)

	if err := tb.SetCommands([]tele.Command{
		{Text: "/start", Description: "Restart the bot"},
		{Text: "/help", Description: "What this bot can do"},
		{Text: "/search", Description: "Find a place by name"},
		{Text: "/advanced", Description: "Find a place by its details"},
	}); err != nil {
		logger.TG.Warn("failed to set command menu",
			slog.String("event", "tg.commands"),
			slog.String("err", err.Error()),
		)
	}

	return b, nil
}

// Run starts the bot and blocks until the context is done.
func (b *Bot) Run(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.tb.Start()
		close(done)
	}()

	select {
	case <-ctx.Done():
		b.tb.Stop()
		<-done
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (b *Bot) wrap(h func(ctx context.Context, ch chat) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		return h(b.updateContext(c), teleChat{c: c})
	}
}

func (b *Bot) onText(c tele.Context) error {
	ctx := b.updateContext(c)
	ch := teleChat{c: c}

	// Reply keyboard buttons are aliases for the slash commands.
	switch c.Text() {
	case basicSearchLabel:
		return b.router.SearchPrompt(ctx, ch)
	case advancedSearchLabel:
		return b.router.AdvancedPrompt(ctx, ch)
	}
	return b.router.HandleText(ctx, ch, c.Text())
}

func (b *Bot) onCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	return b.router.HandleCallback(b.updateContext(c), teleChat{c: c}, cb.Data)
}

func (b *Bot) updateContext(c tele.Context) context.Context {
	rid, _ := c.Get("rid").(string)
	if rid == "" {
		var chatID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		rid = logger.BuildRID(c.Update().ID, chatID)
	}
	return logger.WithRID(context.Background(), rid)
}
