package usecase

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"DocketWatch/internal/domain"
)

const dateLayout = "2006-01-02"

// Record is the JSON shape of one new entry.
type Record struct {
	Category    string   `json:"category"`
	Kind        string   `json:"kind"`
	SubKind     string   `json:"sub_kind"`
	Docket      string   `json:"docket,omitempty"`
	CaseName    string   `json:"case_name,omitempty"`
	Date        string   `json:"date"`
	ActionType  string   `json:"action_type"`
	Author      string   `json:"author,omitempty"`
	Joiners     []string `json:"joiners,omitempty"`
	Recusals    []string `json:"recusals,omitempty"`
	LowerCourt  string   `json:"lower_court,omitempty"`
	Disposition string   `json:"disposition,omitempty"`
	Section     string   `json:"section,omitempty"`
	Source      string   `json:"source"`
}

// NewRecord flattens a classified entry for output.
func NewRecord(e domain.ClassifiedEntry) Record {
	return Record{
		Category:    string(e.Category),
		Kind:        string(e.Kind),
		SubKind:     e.SubKind,
		Docket:      e.Docket,
		CaseName:    e.CaseName,
		Date:        e.Date.Format(dateLayout),
		ActionType:  e.ActionType,
		Author:      e.Author,
		Joiners:     e.Joiners,
		Recusals:    e.Recusals,
		LowerCourt:  e.LowerCourt,
		Disposition: e.Disposition,
		Section:     e.Section,
		Source:      e.Source,
	}
}

// WriteJSONLines writes one JSON object per entry.
func WriteJSONLines(w io.Writer, entries []domain.ClassifiedEntry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(NewRecord(e)); err != nil {
			return fmt.Errorf("encode entry: %w", err)
		}
	}
	return nil
}

// WriteText writes one tab-separated line per entry.
func WriteText(w io.Writer, entries []domain.ClassifiedEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, formatLine(e)); err != nil {
			return err
		}
	}
	return nil
}

func formatLine(e domain.ClassifiedEntry) string {
	docket := e.Docket
	if docket == "" {
		docket = "-"
	}
	name := e.CaseName
	if name == "" {
		name = "-"
	}
	return strings.Join([]string{
		string(e.Kind),
		e.SubKind,
		docket,
		name,
		e.Date.Format(dateLayout),
		e.ActionType,
	}, "\t")
}

func buildDigestMessage(result Result) string {
	if len(result.New) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d new", result.Category, len(result.New))
	if result.Title != "" {
		fmt.Fprintf(&b, " (%s)", result.Title)
	}
	b.WriteString("\n\n")
	for _, e := range result.New {
		name := e.CaseName
		if name == "" {
			name = "untitled entry"
		}
		fmt.Fprintf(&b, "- %s %s\n  %s, %s\n", e.Docket, name, e.SubKind, e.Date.Format(dateLayout))
	}
	if result.Source != "" {
		b.WriteString("\n")
		b.WriteString(result.Source)
	}
	return b.String()
}
