package bot

import (
	"context"
	"runtime/debug"
	"time"

	tele "gopkg.in/telebot.v4"

	"geobot/internal/logger"
	"log/slog"
)

// recoverMiddleware catches panics in handlers and prevents the bot from crashing.
func recoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// loggerMiddleware logs a single receipt line per update and stores the
// correlation id for downstream handlers.
func loggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		var chatID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		rid := logger.BuildRID(upd.ID, chatID)
		c.Set("rid", rid)

		attrs := []slog.Attr{
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
			slog.Int64("chat_id", chatID),
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("kind", "callback"))
		case upd.Message != nil:
			attrs = append(attrs, slog.String("kind", "message"))
		}
		logger.TG.LogAttrs(context.Background(), slog.LevelDebug, "update received", attrs...)

		start := time.Now()
		err := next(c)
		logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "update handled",
			slog.String("rid", rid),
			slog.String("status", logger.Status(err)),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return err
	}
}
