package keyboard

import "testing"

func TestInlineButtonsRowsKeepsLayout(t *testing.T) {
	markup := InlineButtonsRows(
		[]InlineBtn{{Text: "Freezer Top", Unique: "loc", Data: "freezer_top"}, {Text: "Chiller", Unique: "loc", Data: "chiller"}},
		nil,
		[]InlineBtn{{Text: "Back", Unique: "act", Data: "back"}},
	)
	if markup == nil {
		t.Fatal("expected markup")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows: got %d", len(markup.InlineKeyboard))
	}
	first := markup.InlineKeyboard[0]
	if len(first) != 2 || first[1].Text != "Chiller" || first[1].Unique != "loc" || first[1].Data != "chiller" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if back := markup.InlineKeyboard[1][0]; back.Unique != "act" || back.Data != "back" {
		t.Fatalf("unexpected back button: %+v", back)
	}
}

func TestInlineButtonsRowsEmpty(t *testing.T) {
	if InlineButtonsRows() != nil {
		t.Fatal("expected nil markup without rows")
	}
}
