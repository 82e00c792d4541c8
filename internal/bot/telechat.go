package bot

import (
	tele "gopkg.in/telebot.v4"
)

// teleChat adapts tele.Context to the chat interface handlers use.
type teleChat struct {
	c tele.Context
}

func (t teleChat) ChatID() int64 {
	return t.c.Chat().ID
}

func (t teleChat) Send(text string, markup *tele.ReplyMarkup) error {
	if markup != nil {
		return t.c.Send(text, markup)
	}
	return t.c.Send(text)
}

func (t teleChat) Reply(text string) error {
	return t.c.Reply(text)
}

func (t teleChat) Edit(text string) error {
	return t.c.Edit(text)
}

func (t teleChat) EditMarkup(markup *tele.ReplyMarkup) error {
	return t.c.Edit(markup)
}

func (t teleChat) Delete() error {
	return t.c.Delete()
}

func (t teleChat) SendLocation(lat, lon float32, markup *tele.ReplyMarkup) error {
	loc := &tele.Location{Lat: lat, Lng: lon}
	if markup != nil {
		return t.c.Send(loc, markup)
	}
	return t.c.Send(loc)
}

func (t teleChat) Answer(text string) error {
	if text == "" {
		return t.c.Respond()
	}
	return t.c.Respond(&tele.CallbackResponse{Text: text})
}

func (t teleChat) Markup() *tele.ReplyMarkup {
	cb := t.c.Callback()
	if cb == nil || cb.Message == nil {
		return nil
	}
	return cb.Message.ReplyMarkup
}
