package pivots

import "testing"

func TestParsePivotRows(t *testing.T) {
	rows := [][]interface{}{
		{"Level", "High", "Low", "Touches", "Support %", "Resistance %"},
		{"1,234.56", "1240", "1230", "4", "62%", "48%"},
		{"980.00", "985", "975", "2", "55.5%", "70%"},
	}
	book, err := parsePivotRows(rows)
	if err != nil {
		t.Fatalf("parsePivotRows returned error: %v", err)
	}
	if len(book) != 2 {
		t.Fatalf("expected 2 pivots, got %d", len(book))
	}
	if book[0].Level != 1234.56 {
		t.Fatalf("expected comma-stripped level 1234.56, got %g", book[0].Level)
	}
	if book[0].SupportProb != 0.62 || book[0].ResistanceProb != 0.48 {
		t.Fatalf("unexpected probabilities: %+v", book[0])
	}
	if book[1].SupportProb != 0.555 {
		t.Fatalf("expected 55.5%% to parse as 0.555, got %g", book[1].SupportProb)
	}
}

func TestParsePivotRowsRejectsShortRow(t *testing.T) {
	rows := [][]interface{}{
		{"Level", "Support %", "Resistance %"},
		{"100.0", "62%"},
	}
	if _, err := parsePivotRows(rows); err == nil {
		t.Fatalf("expected error for row with too few columns")
	}
}

func TestParseSettingsRow(t *testing.T) {
	st, err := parseSettingsRow([][]interface{}{{"55%", "TRUE"}})
	if err != nil {
		t.Fatalf("parseSettingsRow returned error: %v", err)
	}
	if st.MinProbability != 0.55 {
		t.Fatalf("expected 0.55, got %g", st.MinProbability)
	}
	if !st.Enabled {
		t.Fatalf("expected enabled")
	}

	st, err = parseSettingsRow([][]interface{}{{"60%", "false"}})
	if err != nil {
		t.Fatalf("parseSettingsRow returned error: %v", err)
	}
	if st.Enabled {
		t.Fatalf("expected disabled")
	}
}

func TestParseSettingsRowEmpty(t *testing.T) {
	if _, err := parseSettingsRow(nil); err == nil {
		t.Fatalf("expected error for empty settings range")
	}
}
