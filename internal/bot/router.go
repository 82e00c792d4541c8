// Package bot implements the conversation logic of the geocoding bot:
// command handling, the per-chat state machine, inline keyboard
// rendering, and callback dispatch.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"geobot/internal/geocode"
	"geobot/internal/logger"
	"geobot/internal/session"
	"log/slog"
)

// Geocoder is the slice of the geocoding client the router consumes.
type Geocoder interface {
	SearchText(ctx context.Context, query string) ([]geocode.Location, error)
	SearchDetails(ctx context.Context, details []geocode.Detail) ([]geocode.Location, error)
	ReverseLookup(ctx context.Context, lat, lon string) (string, error)
}

// chat is the narrow slice of messaging operations handlers use for
// one update. It keeps the conversation logic independent of the
// transport so it can be exercised with a recording fake.
type chat interface {
	ChatID() int64
	Send(text string, markup *tele.ReplyMarkup) error
	Reply(text string) error
	Edit(text string) error
	EditMarkup(markup *tele.ReplyMarkup) error
	Delete() error
	SendLocation(lat, lon float32, markup *tele.ReplyMarkup) error
	// Answer responds to the pending callback query; empty text just
	// clears the loading state.
	Answer(text string) error
	// Markup returns the reply markup of the message that owns the
	// pressed button, nil for plain text updates.
	Markup() *tele.ReplyMarkup
}

// Router dispatches incoming text and callback events based on the
// chat's persisted session state and the shape of callback payloads.
type Router struct {
	sessions session.Store
	geo      Geocoder
}

// NewRouter wires the conversation router with its collaborators.
func NewRouter(sessions session.Store, geo Geocoder) *Router {
	return &Router{sessions: sessions, geo: geo}
}

// Start resets the chat to an idle session and sends the welcome
// message with the mode selection keyboard.
func (r *Router) Start(ctx context.Context, ch chat) error {
	if err := r.sessions.Put(ctx, ch.ChatID(), session.Idle()); err != nil {
		return err
	}
	return ch.Send(startMessage, replyMenu())
}

// Help sends the usage summary.
func (r *Router) Help(_ context.Context, ch chat) error {
	return ch.Send(helpMessage, nil)
}

// SearchPrompt puts the chat into simple search mode.
func (r *Router) SearchPrompt(ctx context.Context, ch chat) error {
	if err := r.sessions.Put(ctx, ch.ChatID(), session.Session{State: session.StateAwaitingQuery}); err != nil {
		return err
	}
	return ch.Send(searchWelcomeMessage, nil)
}

// AdvancedPrompt puts the chat into the detail selection sub-state and
// renders the toggle keyboard.
func (r *Router) AdvancedPrompt(ctx context.Context, ch chat) error {
	if err := r.sessions.Put(ctx, ch.ChatID(), session.Session{State: session.StateSelectingDetails}); err != nil {
		return err
	}
	return ch.Send(advancedWelcomeMessage, detailKeyboard(nil))
}

// HandleText dispatches a plain text message by session state.
// Reply-keyboard aliases are resolved by the transport layer before
// this is reached; anything arriving in an idle state is ignored.
func (r *Router) HandleText(ctx context.Context, ch chat, text string) error {
	sess, err := r.sessions.Get(ctx, ch.ChatID())
	if err != nil {
		return err
	}

	switch sess.State {
	case session.StateAwaitingQuery:
		return r.simpleSearch(ctx, ch, text)
	case session.StateAwaitingDetails:
		return r.detailSearch(ctx, ch, sess, text)
	default:
		logger.Debug(ctx, "tg", "text.ignored",
			slog.Int64("chat_id", ch.ChatID()),
			slog.String("state", string(sess.State)),
		)
		return nil
	}
}

// HandleCallback dispatches a button press by payload shape: detail
// toggles and the confirm token first, then single coordinate pairs
// ("lat:lon"), then slash-joined page lists. Unknown payloads get an
// ephemeral notice.
func (r *Router) HandleCallback(ctx context.Context, ch chat, payload string) error {
	if field, ok := geocode.ParseField(payload); ok {
		return r.toggleDetail(ctx, ch, field)
	}
	if payload == confirmPayload {
		return r.confirmDetails(ctx, ch)
	}
	if lat, lon, ok := parseCoordPair(payload); ok {
		return r.showLocation(ctx, ch, lat, lon)
	}
	if strings.Contains(payload, "/") {
		return r.switchPage(ctx, ch, payload)
	}
	return ch.Answer(unsupportedMessage)
}

func (r *Router) toggleDetail(ctx context.Context, ch chat, field geocode.Field) error {
	sess, err := r.sessions.Get(ctx, ch.ChatID())
	if err != nil {
		return err
	}

	toggled := make([]geocode.Field, 0, len(sess.Details)+1)
	found := false
	for _, f := range sess.Details {
		if f == field {
			found = true
			continue
		}
		toggled = append(toggled, f)
	}
	if !found {
		toggled = append(toggled, field)
	}
	sess.Details = toggled

	if err := r.sessions.Put(ctx, ch.ChatID(), sess); err != nil {
		return err
	}
	if err := ch.EditMarkup(detailKeyboard(sess.Details)); err != nil {
		return err
	}
	return ch.Answer("")
}

func (r *Router) confirmDetails(ctx context.Context, ch chat) error {
	sess, err := r.sessions.Get(ctx, ch.ChatID())
	if err != nil {
		return err
	}
	if len(sess.Details) == 0 {
		return ch.Answer(needDetailsMessage)
	}

	sess.State = session.StateAwaitingDetails
	if err := r.sessions.Put(ctx, ch.ChatID(), sess); err != nil {
		return err
	}

	names := make([]string, 0, len(sess.Details))
	for _, f := range sess.Details {
		names = append(names, f.Human())
	}
	var prompt string
	if len(names) == 1 {
		prompt = fmt.Sprintf(waitForDetailMessage, names[0])
	} else {
		prompt = fmt.Sprintf(waitForDetailsMessage, strings.Join(names, ", "))
	}

	if err := ch.Edit(prompt); err != nil {
		return err
	}
	return ch.Answer("")
}

func (r *Router) simpleSearch(ctx context.Context, ch chat, query string) error {
	locations, err := r.geo.SearchText(ctx, query)
	if err != nil {
		logger.Warn(ctx, "tg", "search.failed",
			slog.Int64("chat_id", ch.ChatID()),
			slog.String("err", err.Error()),
		)
		if sendErr := ch.Send(searchFailedMessage, nil); sendErr != nil {
			return sendErr
		}
		return r.sessions.Put(ctx, ch.ChatID(), session.Idle())
	}

	if len(locations) == 0 {
		if err := ch.Send(noResultsMessage, nil); err != nil {
			return err
		}
		return r.sessions.Put(ctx, ch.ChatID(), session.Idle())
	}

	if err := ch.Send(fmt.Sprintf(foundByQueryMessage, query), paginate(locations)); err != nil {
		return err
	}
	return r.sessions.Put(ctx, ch.ChatID(), session.Idle())
}

func (r *Router) detailSearch(ctx context.Context, ch chat, sess session.Session, text string) error {
	if len(sess.Details) == 0 {
		// The awaiting-details state without a stored field list is a
		// broken session, not a user mistake.
		return fmt.Errorf("chat %d awaits detail values with no stored fields", ch.ChatID())
	}

	values := strings.Split(text, ",")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	if len(values) != len(sess.Details) {
		return ch.Send(badDetailCountMessage, nil)
	}

	details := make([]geocode.Detail, 0, len(values))
	for i, f := range sess.Details {
		details = append(details, geocode.Detail{Field: f, Value: values[i]})
	}

	locations, err := r.geo.SearchDetails(ctx, details)
	if err != nil {
		logger.Warn(ctx, "tg", "search.failed",
			slog.Int64("chat_id", ch.ChatID()),
			slog.String("err", err.Error()),
		)
		if sendErr := ch.Send(searchFailedMessage, nil); sendErr != nil {
			return sendErr
		}
		return r.sessions.Put(ctx, ch.ChatID(), session.Idle())
	}

	if len(locations) == 0 {
		return ch.Reply(noResultsMessage)
	}
	return ch.Send(foundPlacesMessage, paginate(locations))
}

func (r *Router) showLocation(ctx context.Context, ch chat, lat, lon string) error {
	latF, err := strconv.ParseFloat(lat, 32)
	if err != nil {
		return err
	}
	lonF, err := strconv.ParseFloat(lon, 32)
	if err != nil {
		return err
	}

	markup := ch.Markup()
	if err := ch.Delete(); err != nil {
		logger.Warn(ctx, "tg", "message.delete_failed",
			slog.Int64("chat_id", ch.ChatID()),
			slog.String("err", err.Error()),
		)
	}
	if err := ch.SendLocation(float32(latF), float32(lonF), markup); err != nil {
		return err
	}
	return ch.Answer("")
}

func (r *Router) switchPage(ctx context.Context, ch chat, payload string) error {
	pairs, err := decodePagePayload(payload)
	if err != nil {
		return ch.Answer(pageErrorMessage)
	}

	current := ch.Markup()
	if current == nil || len(current.InlineKeyboard) == 0 {
		return ch.Answer(pageErrorMessage)
	}
	pagesRow := current.InlineKeyboard[len(current.InlineKeyboard)-1]

	rows := make([][]tele.InlineButton, 0, len(pairs)+1)
	for _, pair := range pairs {
		name, err := r.geo.ReverseLookup(ctx, pair[0], pair[1])
		if err != nil {
			logger.Warn(ctx, "tg", "page.rebuild_failed",
				slog.Int64("chat_id", ch.ChatID()),
				slog.String("err", err.Error()),
			)
			return ch.Answer(pageErrorMessage)
		}
		rows = append(rows, []tele.InlineButton{{
			Text: truncateLabel(name),
			Data: encodeCoordPair(pair[0], pair[1]),
		}})
	}
	rows = append(rows, pagesRow)

	if err := ch.EditMarkup(&tele.ReplyMarkup{InlineKeyboard: rows}); err != nil {
		return ch.Answer(pageErrorMessage)
	}
	return ch.Answer("")
}
