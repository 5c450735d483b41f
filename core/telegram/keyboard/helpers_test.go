package keyboard

import "testing"

func TestInlineButtonsNPerRow(t *testing.T) {
	btns := []InlineBtn{
		{Text: "A", Unique: "k", Data: "a"},
		{Text: "B", Unique: "k", Data: "b"},
		{Text: "C", Unique: "k", Data: "c"},
		{Text: "D", Unique: "k", Data: "d"},
		{Text: "E", Unique: "k", Data: "e"},
	}

	cases := []struct {
		name     string
		perRow   int
		wantRows []int
	}{
		{"one per row", 1, []int{1, 1, 1, 1, 1}},
		{"pairs with remainder", 2, []int{2, 2, 1}},
		{"wider than list", 10, []int{5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			markup := InlineButtonsNPerRow(btns, tc.perRow)
			if len(markup.InlineKeyboard) != len(tc.wantRows) {
				t.Fatalf("got %d rows, want %d", len(markup.InlineKeyboard), len(tc.wantRows))
			}
			for i, want := range tc.wantRows {
				if len(markup.InlineKeyboard[i]) != want {
					t.Fatalf("row %d: got %d buttons, want %d", i, len(markup.InlineKeyboard[i]), want)
				}
			}
		})
	}

	first := InlineButtonsNPerRow(btns, 2).InlineKeyboard[0][0]
	if first.Text != "A" || first.Data != "a" {
		t.Fatalf("button order or data lost: %+v", first)
	}
}
