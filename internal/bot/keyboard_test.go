package bot

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"geobot/internal/geocode"
)

func locs(n int) []geocode.Location {
	out := make([]geocode.Location, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, geocode.Location{
			DisplayName: fmt.Sprintf("Place %d", i+1),
			Lat:         fmt.Sprintf("%d.50", i+1),
			Lon:         fmt.Sprintf("%d.25", i+1),
		})
	}
	return out
}

func TestPaginateFirstRowsCarryCoordPayloads(t *testing.T) {
	markup := paginate(locs(2))

	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(markup.InlineKeyboard))
	}
	for i, row := range markup.InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons, want 1", i, len(row))
		}
	}
	if got := markup.InlineKeyboard[0][0].Data; got != "1.50:1.25" {
		t.Fatalf("first payload = %q", got)
	}
	if got := markup.InlineKeyboard[1][0].Data; got != "2.50:2.25" {
		t.Fatalf("second payload = %q", got)
	}
}

func TestPaginatePageButtonCount(t *testing.T) {
	// ceil(max(0, n-2)/2) page buttons; none at all for n <= 2.
	cases := []struct {
		n     int
		pages int
	}{
		{0, 0}, {1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 2}, {6, 2}, {7, 3},
	}
	for _, tc := range cases {
		markup := paginate(locs(tc.n))
		rows := markup.InlineKeyboard

		resultRows := tc.n
		if resultRows > pageSize {
			resultRows = pageSize
		}
		if tc.pages == 0 {
			if len(rows) != resultRows {
				t.Fatalf("n=%d: got %d rows, want %d and no page row", tc.n, len(rows), resultRows)
			}
			continue
		}
		if len(rows) != resultRows+1 {
			t.Fatalf("n=%d: got %d rows, want %d", tc.n, len(rows), resultRows+1)
		}
		pageRow := rows[len(rows)-1]
		if len(pageRow) != tc.pages {
			t.Fatalf("n=%d: got %d page buttons, want %d", tc.n, len(pageRow), tc.pages)
		}
	}
}

func TestPaginatePageLabelsAndPayloads(t *testing.T) {
	markup := paginate(locs(5))
	pageRow := markup.InlineKeyboard[len(markup.InlineKeyboard)-1]

	if pageRow[0].Text != "2" || pageRow[1].Text != "3" {
		t.Fatalf("page labels = %q, %q", pageRow[0].Text, pageRow[1].Text)
	}
	if pageRow[0].Data != "3.50:3.25/4.50:4.25" {
		t.Fatalf("page 2 payload = %q", pageRow[0].Data)
	}
	if pageRow[1].Data != "5.50:5.25" {
		t.Fatalf("page 3 payload = %q", pageRow[1].Data)
	}
}

func TestPaginateIsDeterministic(t *testing.T) {
	input := locs(6)
	if !reflect.DeepEqual(paginate(input), paginate(input)) {
		t.Fatal("same input must produce the same layout")
	}
}

func TestPagePayloadRoundTrip(t *testing.T) {
	page := []geocode.Location{
		{DisplayName: "A", Lat: "48.8500", Lon: "2.3500"},
		{DisplayName: "B", Lat: "-33.05", Lon: "151.10"},
	}
	payload := encodePagePayload(page)

	pairs, err := decodePagePayload(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	reencoded := make([]string, 0, len(pairs))
	for _, p := range pairs {
		reencoded = append(reencoded, encodeCoordPair(p[0], p[1]))
	}
	if got := strings.Join(reencoded, "/"); got != payload {
		t.Fatalf("round trip %q -> %q", payload, got)
	}
	// Original precision must survive untouched.
	if pairs[0][0] != "48.8500" || pairs[0][1] != "2.3500" {
		t.Fatalf("coordinates were altered: %v", pairs[0])
	}
}

func TestDecodePagePayloadRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "abc", "1:2:3", "1:2/nope", "1:2/"} {
		if _, err := decodePagePayload(payload); err == nil {
			t.Fatalf("payload %q must not decode", payload)
		}
	}
}

func TestParseCoordPair(t *testing.T) {
	lat, lon, ok := parseCoordPair("48.85:2.35")
	if !ok || lat != "48.85" || lon != "2.35" {
		t.Fatalf("got %q %q %v", lat, lon, ok)
	}
	for _, payload := range []string{"search", "city", "1:2:3", "a:b", ""} {
		if _, _, ok := parseCoordPair(payload); ok {
			t.Fatalf("payload %q must not parse as a pair", payload)
		}
	}
}

func TestTruncateLabelKeepsButtonsSafe(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := truncateLabel(long)
	if len([]rune(got)) > maxButtonText {
		t.Fatalf("label still too long: %d runes", len([]rune(got)))
	}
	if truncateLabel("short") != "short" {
		t.Fatal("short labels must pass through")
	}
}

func TestDetailKeyboardMarksSelection(t *testing.T) {
	plain := detailKeyboard(nil)
	selected := detailKeyboard([]geocode.Field{geocode.FieldCity})

	// 2 rows of toggles plus confirm row.
	if len(plain.InlineKeyboard) != 3 {
		t.Fatalf("got %d rows, want 3", len(plain.InlineKeyboard))
	}
	confirm := plain.InlineKeyboard[2][0]
	if confirm.Data != confirmPayload {
		t.Fatalf("confirm payload = %q", confirm.Data)
	}

	var cityLabel, plainCityLabel string
	for i, row := range selected.InlineKeyboard {
		for j, btn := range row {
			if btn.Data == string(geocode.FieldCity) {
				cityLabel = btn.Text
				plainCityLabel = plain.InlineKeyboard[i][j].Text
			}
		}
	}
	if cityLabel != checkedPrefix+plainCityLabel {
		t.Fatalf("selected city label = %q, want checked %q", cityLabel, plainCityLabel)
	}

	// Deselecting renders the original keyboard again.
	if !reflect.DeepEqual(detailKeyboard(nil), plain) {
		t.Fatal("rendering with no selection must be stable")
	}
}
