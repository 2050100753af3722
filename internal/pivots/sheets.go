package pivots

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource loads pivot books and settings from a Google spreadsheet.
// One sheet per symbol: columns A:H hold the pivot rows (level in A, the two
// rightmost columns hold support/resistance success percentages), and J2:K2
// holds {minimum probability %, enabled}.
type SheetsSource struct {
	SpreadsheetID   string
	CredentialsFile string
	TokenFile       string
}

// Load fetches every sheet of the spreadsheet and parses it into the pivot
// and settings tables.
func (s SheetsSource) Load(ctx context.Context) (map[string]Book, map[string]Settings, error) {
	svc, err := s.service(ctx)
	if err != nil {
		return nil, nil, err
	}

	doc, err := svc.Spreadsheets.Get(s.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("get spreadsheet: %w", err)
	}

	books := make(map[string]Book, len(doc.Sheets))
	settings := make(map[string]Settings, len(doc.Sheets))
	for _, sheet := range doc.Sheets {
		sym := sheet.Properties.Title

		rows, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, sym+"!A:H").Context(ctx).Do()
		if err != nil {
			return nil, nil, fmt.Errorf("get pivot rows for %s: %w", sym, err)
		}
		book, err := parsePivotRows(rows.Values)
		if err != nil {
			return nil, nil, fmt.Errorf("symbol %s: %w", sym, err)
		}

		cfg, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, sym+"!J2:K2").Context(ctx).Do()
		if err != nil {
			return nil, nil, fmt.Errorf("get settings for %s: %w", sym, err)
		}
		st, err := parseSettingsRow(cfg.Values)
		if err != nil {
			return nil, nil, fmt.Errorf("symbol %s: %w", sym, err)
		}

		if err := validateSymbol(sym, st.MinProbability, book); err != nil {
			return nil, nil, err
		}
		books[sym] = book
		settings[sym] = st
	}
	return books, settings, nil
}

func (s SheetsSource) service(ctx context.Context) (*sheets.Service, error) {
	creds, err := os.ReadFile(s.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.ConfigFromJSON(creds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	tok, err := readToken(s.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return svc, nil
}

func readToken(path string) (*oauth2.Token, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(file).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// parsePivotRows converts raw sheet rows into a pivot book. The first row is
// a header and skipped. Levels may carry thousands separators; the two
// trailing columns are percent-formatted success rates.
func parsePivotRows(rows [][]interface{}) (Book, error) {
	var book Book
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("pivot row %d has %d columns, want at least 3", i+1, len(row))
		}
		level, err := parseNumberCell(row[0])
		if err != nil {
			return nil, fmt.Errorf("pivot row %d level: %w", i+1, err)
		}
		support, err := parsePercentCell(row[len(row)-2])
		if err != nil {
			return nil, fmt.Errorf("pivot row %d support: %w", i+1, err)
		}
		resistance, err := parsePercentCell(row[len(row)-1])
		if err != nil {
			return nil, fmt.Errorf("pivot row %d resistance: %w", i+1, err)
		}
		book = append(book, Pivot{Level: level, SupportProb: support, ResistanceProb: resistance})
	}
	return book, nil
}

func parseSettingsRow(rows [][]interface{}) (Settings, error) {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return Settings{}, fmt.Errorf("settings range J2:K2 is empty")
	}
	minProb, err := parsePercentCell(rows[0][0])
	if err != nil {
		return Settings{}, fmt.Errorf("minimum probability: %w", err)
	}
	enabled := strings.EqualFold(cellString(rows[0][1]), "TRUE")
	return Settings{MinProbability: minProb, Enabled: enabled}, nil
}

func parseNumberCell(cell interface{}) (float64, error) {
	raw := strings.ReplaceAll(cellString(cell), ",", "")
	return strconv.ParseFloat(raw, 64)
}

func parsePercentCell(cell interface{}) (float64, error) {
	raw := strings.TrimSuffix(cellString(cell), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

func cellString(cell interface{}) string {
	s, _ := cell.(string)
	return strings.TrimSpace(s)
}
