package bot

import (
	"errors"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"geobot/internal/geocode"
)

var errBadPagePayload = errors.New("malformed page payload")

const (
	// pageSize is the number of results rendered as rows per page.
	pageSize = 2
	// maxButtonText keeps labels within Telegram's button text limit.
	maxButtonText = 64

	confirmPayload = "search"
	checkedPrefix  = "✔️ "
)

var fieldLabels = map[geocode.Field]string{
	geocode.FieldCountry:    "\U0001F30E Country",
	geocode.FieldState:      "State",
	geocode.FieldCounty:     "County",
	geocode.FieldCity:       "\U0001F3D9 City",
	geocode.FieldStreet:     "\U0001F6E3 Street",
	geocode.FieldPostalCode: "\U0001F4EE Postal code",
}

// replyMenu is the persistent reply keyboard offering both search modes.
func replyMenu() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(markup.Row(
		markup.Text(basicSearchLabel),
		markup.Text(advancedSearchLabel),
	))
	return markup
}

// detailKeyboard renders the six detail toggles plus a confirm button.
// Selected fields get a checkmark prefix. The keyboard is built fresh
// on every render; nothing is mutated in place.
func detailKeyboard(selected []geocode.Field) *tele.ReplyMarkup {
	chosen := make(map[geocode.Field]bool, len(selected))
	for _, f := range selected {
		chosen[f] = true
	}

	var row []tele.InlineButton
	var rows [][]tele.InlineButton
	for _, f := range geocode.Fields() {
		label := fieldLabels[f]
		if chosen[f] {
			label = checkedPrefix + label
		}
		row = append(row, tele.InlineButton{Text: label, Data: string(f)})
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	rows = append(rows, []tele.InlineButton{{Text: "\U0001F50D Search", Data: confirmPayload}})

	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

// paginate turns an ordered result list into an inline keyboard: the
// first pageSize results as full-width selectable rows, then a single
// trailing row with one button per remaining page. Selecting a result
// sends its "<lat>:<lon>" pair back; a page button carries the
// slash-joined pairs of its members.
func paginate(locations []geocode.Location) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton

	first := locations
	if len(first) > pageSize {
		first = first[:pageSize]
	}
	for _, loc := range first {
		rows = append(rows, []tele.InlineButton{{
			Text: truncateLabel(loc.DisplayName),
			Data: encodeCoordPair(loc.Lat, loc.Lon),
		}})
	}

	if len(locations) > pageSize {
		var pageRow []tele.InlineButton
		page := 2
		for i := pageSize; i < len(locations); i += pageSize {
			end := i + pageSize
			if end > len(locations) {
				end = len(locations)
			}
			pageRow = append(pageRow, tele.InlineButton{
				Text: strconv.Itoa(page),
				Data: encodePagePayload(locations[i:end]),
			})
			page++
		}
		rows = append(rows, pageRow)
	}

	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func encodeCoordPair(lat, lon string) string {
	return lat + ":" + lon
}

// parseCoordPair recognizes a "<lat>:<lon>" payload. Both tokens must
// be numeric; the original text is returned untouched so re-encoding
// yields the identical payload.
func parseCoordPair(payload string) (lat, lon string, ok bool) {
	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	for _, p := range parts {
		if _, err := strconv.ParseFloat(p, 64); err != nil {
			return "", "", false
		}
	}
	return parts[0], parts[1], true
}

func encodePagePayload(page []geocode.Location) string {
	pairs := make([]string, 0, len(page))
	for _, loc := range page {
		pairs = append(pairs, encodeCoordPair(loc.Lat, loc.Lon))
	}
	return strings.Join(pairs, "/")
}

// decodePagePayload splits a page-switch payload back into coordinate
// pairs, rejecting anything that is not a slash-joined list of
// "<lat>:<lon>" tokens.
func decodePagePayload(payload string) ([][2]string, error) {
	segments := strings.Split(payload, "/")
	pairs := make([][2]string, 0, len(segments))
	for _, seg := range segments {
		lat, lon, ok := parseCoordPair(seg)
		if !ok {
			return nil, errBadPagePayload
		}
		pairs = append(pairs, [2]string{lat, lon})
	}
	return pairs, nil
}

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxButtonText {
		return s
	}
	return string(r[:maxButtonText-1]) + "…"
}
