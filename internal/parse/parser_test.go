package parse

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DocketWatch/internal/classify"
	"DocketWatch/internal/domain"
)

func normalized(category domain.Category, date time.Time, texts ...string) domain.NormalizedText {
	lines := make([]domain.Line, 0, len(texts))
	for i, t := range texts {
		lines = append(lines, domain.Line{Ordinal: i*2 + 1, Page: 1, Text: t})
	}
	return domain.NormalizedText{Category: category, Source: "test://" + string(category), Date: date, Lines: lines}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func collect(t *testing.T, text domain.NormalizedText) []domain.Entry {
	t.Helper()
	seq, err := New(nil).Parse(text)
	require.NoError(t, err)
	return slices.Collect(seq.All())
}

var orderList = []string{
	"(ORDER LIST: 598 U.S.)",
	"MONDAY, JUNE 5, 2023",
	"CERTIORARI -- SUMMARY DISPOSITIONS",
	"21-1234 SMITH V. JONES",
	"The petition for a writ of certiorari is granted. The judgment is vacated, and the case is remanded.",
	"ORDERS IN PENDING CASES",
	"143, ORIG. TEXAS V. NEW MEXICO",
	"The motion of the Special Master for fees is granted.",
	"CERTIORARI DENIED",
	"22-10 DOE V. ROE",
	"22-11 IN RE BROWN",
	"SUPREME COURT OF THE UNITED STATES",
	"JOHN DOE v. TEXAS",
	"ON PETITION FOR WRIT OF CERTIORARI TO THE COURT OF CRIMINAL APPEALS OF TEXAS",
	"No. 22-1234. Decided June 5, 2023",
	"JUSTICE SOTOMAYOR, dissenting from the denial of certiorari.",
	"I would grant the petition.",
}

func TestParseOrderList(t *testing.T) {
	text := normalized(domain.CategoryOrder, day(2023, 6, 6), orderList...)
	entries := collect(t, text)
	require.Len(t, entries, 5)

	want := []struct {
		docket, name, action, section, author string
		span                                  domain.Span
	}{
		{"21-1234", "SMITH v. JONES", "Certiorari Granted, Judgment Vacated and Remanded", "CERTIORARI -- SUMMARY DISPOSITIONS", "", domain.Span{First: 2, Last: 4}},
		{"22O143", "TEXAS v. NEW MEXICO", "Motion Granted", "ORDERS IN PENDING CASES", "", domain.Span{First: 5, Last: 7}},
		{"22-10", "DOE v. ROE", "Certiorari Denied", "CERTIORARI DENIED", "", domain.Span{First: 8, Last: 9}},
		{"22-11", "IN RE BROWN", "Certiorari Denied", "CERTIORARI DENIED", "", domain.Span{First: 10, Last: 10}},
		{"22-1234", "JOHN DOE v. TEXAS", "Dissenting from the Denial of Certiorari", "CERTIORARI DENIED", "JUSTICE SOTOMAYOR", domain.Span{First: 11, Last: 16}},
	}

	for i, w := range want {
		e := entries[i]
		assert.Equal(t, w.docket, e.Docket, "entry %d docket", i)
		assert.Equal(t, w.name, e.CaseName, "entry %d case name", i)
		assert.Equal(t, w.action, e.ActionType, "entry %d action", i)
		assert.Equal(t, w.section, e.Section, "entry %d section", i)
		assert.Equal(t, w.author, e.Author, "entry %d author", i)
		assert.Equal(t, w.span, e.Span, "entry %d span", i)
		assert.Equal(t, day(2023, 6, 5), e.Date, "entry %d date", i)
		assert.Equal(t, domain.CategoryOrder, e.Category)
		assert.Equal(t, text.Source, e.Source)
	}
	assert.Equal(t, "Vacated and Remanded", entries[0].Disposition)
	assert.Equal(t, "COURT OF CRIMINAL APPEALS OF TEXAS", entries[4].LowerCourt)
	assert.Empty(t, entries[2].LowerCourt)
}

func TestParseSpanRoundTrip(t *testing.T) {
	text := normalized(domain.CategoryOrder, day(2023, 6, 6), orderList...)
	seq, err := New(nil).Parse(text)
	require.NoError(t, err)

	var parts []string
	for _, line := range seq.Preamble() {
		parts = append(parts, line.Text)
	}
	next := len(seq.Preamble())
	for e := range seq.All() {
		require.Equal(t, next, e.Span.First, "spans must be contiguous")
		require.Equal(t, text.Join(e.Span.First, e.Span.Last), e.Text)
		parts = append(parts, e.Text)
		next = e.Span.Last + 1
	}
	assert.Equal(t, len(text.Lines), next)
	assert.Equal(t, strings.Join(orderList, "\n"), strings.Join(parts, "\n"))
}

func TestParseSlipPerCuriam(t *testing.T) {
	text := normalized(domain.CategorySlip, day(2023, 6, 2),
		"NOTE: Where it is feasible, a syllabus will be released.",
		"No. 21-123, Smith v. Jones, Decided June 1, 2023.",
		"Per Curiam.",
		"The judgment of the Court of Appeals is vacated.",
	)

	entries := collect(t, text)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "21-123", e.Docket)
	assert.Equal(t, "Smith v. Jones", e.CaseName)
	assert.Equal(t, "Per Curiam", e.ActionType)
	assert.Equal(t, "PER CURIAM", e.Author)
	assert.Equal(t, day(2023, 6, 1), e.Date)
	assert.Equal(t, domain.Span{First: 1, Last: 3}, e.Span)
}

func TestParseSlipBannerAbsorbsFirstDocket(t *testing.T) {
	text := normalized(domain.CategorySlip, day(2023, 6, 2),
		"SUPREME COURT OF THE UNITED STATES",
		"No. 21-123",
		"SMITH, PETITIONER v. JONES",
		"[June 1, 2023]",
		"JUSTICE KAGAN delivered the opinion of the Court.",
		"SUPREME COURT OF THE UNITED STATES",
		"No. 21-123",
		"SMITH, PETITIONER v. JONES",
		"[June 1, 2023]",
		"JUSTICE THOMAS, dissenting.",
	)

	entries := collect(t, text)
	require.Len(t, entries, 2)

	assert.Equal(t, "Opinion of the Court", entries[0].ActionType)
	assert.Equal(t, "JUSTICE KAGAN", entries[0].Author)
	assert.Equal(t, "SMITH v. JONES", entries[0].CaseName)
	assert.Equal(t, "21-123", entries[0].Docket)
	assert.Equal(t, day(2023, 6, 1), entries[0].Date)

	assert.Equal(t, "Dissenting", entries[1].ActionType)
	assert.Equal(t, "JUSTICE THOMAS", entries[1].Author)
	assert.Equal(t, domain.Span{First: 5, Last: 9}, entries[1].Span)
}

func TestParseRelatingStatementAndDissent(t *testing.T) {
	text := normalized(domain.CategoryRelating, day(2023, 6, 5),
		"SUPREME COURT OF THE UNITED STATES",
		"DOE v. TEXAS",
		"ON PETITION FOR WRIT OF CERTIORARI TO THE COURT OF CRIMINAL APPEALS OF TEXAS",
		"No. 22-1234. Decided June 5, 2023",
		"The petition for a writ of certiorari is denied.",
		"Statement of JUSTICE SOTOMAYOR respecting the denial of certiorari.",
		"SUPREME COURT OF THE UNITED STATES",
		"DOE v. TEXAS",
		"No. 22-1234. Decided June 5, 2023",
		"JUSTICE ALITO, dissenting from the denial of certiorari.",
	)

	entries := collect(t, text)
	require.Len(t, entries, 2)
	assert.Equal(t, "Statement Respecting the Denial of Certiorari", entries[0].ActionType)
	assert.Equal(t, "JUSTICE SOTOMAYOR", entries[0].Author)
	assert.Equal(t, "Dissenting from the Denial of Certiorari", entries[1].ActionType)
	assert.Equal(t, "JUSTICE ALITO", entries[1].Author)
	for _, e := range entries {
		assert.Equal(t, "22-1234", e.Docket)
		assert.Equal(t, "DOE v. TEXAS", e.CaseName)
	}
}

func TestParseDateFallsBackToRelease(t *testing.T) {
	text := normalized(domain.CategorySlip, day(2024, 1, 9),
		"No. 23-5",
		"Some text without a decision date.",
	)
	entries := collect(t, text)
	require.Len(t, entries, 1)
	assert.Equal(t, day(2024, 1, 9), entries[0].Date)
	assert.Equal(t, domain.ActionUnclassified, entries[0].ActionType)
}

func TestParseNoEntries(t *testing.T) {
	text := normalized(domain.CategorySlip, day(2023, 6, 1), "lorem ipsum", "dolor sit amet")

	_, err := New(nil).Parse(text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoEntries))

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Lines)
}

func TestParseEmptyText(t *testing.T) {
	seq, err := New(nil).Parse(domain.NormalizedText{Category: domain.CategoryOrder})
	require.NoError(t, err)
	_, ok := seq.Next()
	assert.False(t, ok)
}

func TestSequenceIsSingleUse(t *testing.T) {
	seq, err := New(nil).Parse(normalized(domain.CategoryOrder, day(2023, 6, 6), orderList...))
	require.NoError(t, err)

	first := slices.Collect(seq.All())
	require.NotEmpty(t, first)
	assert.Empty(t, slices.Collect(seq.All()))
}

func TestParseIsDeterministic(t *testing.T) {
	text := normalized(domain.CategoryOrder, day(2023, 6, 6), orderList...)
	assert.Equal(t, collect(t, text), collect(t, text))
}

func TestNormalizeDocket(t *testing.T) {
	tests := []struct {
		raw  string
		date time.Time
		want string
	}{
		{"21–123", day(2023, 6, 1), "21-123"},
		{"22a45", day(2023, 6, 1), "22A45"},
		{"143, Orig.", day(2023, 6, 1), "22O143"},
		{"141 ORIG.", day(2023, 11, 1), "23O141"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDocket(tt.raw, tt.date), tt.raw)
	}
}

func TestFindActionPrefersLeftmostThenLongest(t *testing.T) {
	action, ok := findAction(relatingVocabulary, "JUSTICE ALITO, dissenting from the denial of certiorari.")
	require.True(t, ok)
	assert.Equal(t, "Dissenting from the Denial of Certiorari", action)

	action, ok = findAction(slipVocabulary, "JUSTICE X, concurring in part and dissenting in part.")
	require.True(t, ok)
	assert.Equal(t, "Concurring in Part and Dissenting in Part", action)

	_, ok = findAction(slipVocabulary, "nothing here")
	assert.False(t, ok)
}

func TestParseBareDispositionKeywords(t *testing.T) {
	tests := []struct {
		name       string
		text       domain.NormalizedText
		wantAction string
		wantKind   string
	}{
		{
			name:       "order list dissent from denial",
			text:       normalized(domain.CategoryOrder, day(2023, 6, 5), "22-10 DOE V. ROE", "Denied.", "Dissent from Denial."),
			wantAction: "Dissent from Denial",
			wantKind:   "Dissent from Denial",
		},
		{
			name:       "relating dissent from denial",
			text:       normalized(domain.CategoryRelating, day(2023, 6, 5), "No. 22-1234. Decided June 5, 2023", "Denied.", "JUSTICE ALITO, Dissent from Denial."),
			wantAction: "Dissent from Denial",
			wantKind:   "Dissent from Denial",
		},
		{
			name:       "slip granted",
			text:       normalized(domain.CategorySlip, day(2023, 6, 1), "No. 22-1. Decided June 1, 2023.", "Granted."),
			wantAction: "Granted",
			wantKind:   "Granted",
		},
		{
			name:       "order list denied",
			text:       normalized(domain.CategoryOrder, day(2023, 6, 5), "22-10 DOE V. ROE", "Denied."),
			wantAction: "Denied",
			wantKind:   "Denied",
		},
	}

	c := classify.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := collect(t, tt.text)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantAction, entries[0].ActionType)
			assert.Equal(t, tt.wantKind, c.Classify(entries[0]).SubKind)
		})
	}
}

func TestSectionHeadingOutranksBareKeyword(t *testing.T) {
	entries := collect(t, normalized(domain.CategoryOrder, day(2023, 6, 5),
		"CERTIORARI DENIED",
		"22-10 DOE V. ROE",
		"Denied.",
	))
	require.Len(t, entries, 1)
	assert.Equal(t, "Certiorari Denied", entries[0].ActionType)
}

func TestEveryVocabularyActionHasRule(t *testing.T) {
	c := classify.New()
	for _, category := range domain.Categories() {
		phrases := append(slices.Clone(vocabularyFor(category)), genericVocabulary...)
		for _, ph := range phrases {
			entry := domain.Entry{Category: category, ActionType: ph.Action}
			got := c.Classify(entry)
			assert.NotEqual(t, domain.SubKindOther, got.SubKind, "%s/%s", category, ph.Action)
		}
	}
}

func TestParseOpinionAttribution(t *testing.T) {
	text := normalized(domain.CategorySlip, day(2023, 6, 30),
		"SUPREME COURT OF THE UNITED STATES",
		"No. 21-476",
		"SMITH, PETITIONER v. JONES",
		"ON WRIT OF CERTIORARI TO THE UNITED STATES COURT OF APPEALS FOR",
		"THE TENTH CIRCUIT",
		"[June 30, 2023]",
		"JUSTICE GORSUCH delivered the opinion of the Court, in which ROBERTS, C. J., and THOMAS, ALITO, and BARRETT, JJ., joined.",
		"The judgment of the Court of Appeals is reversed, and the case is remanded for further proceedings.",
		"It is so ordered. JUSTICE KAGAN took no part in the consideration or decision of this case.",
	)

	entries := collect(t, text)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "JUSTICE GORSUCH", e.Author)
	assert.Equal(t, []string{"CHIEF JUSTICE ROBERTS", "JUSTICE THOMAS", "JUSTICE ALITO", "JUSTICE BARRETT"}, e.Joiners)
	assert.Equal(t, []string{"JUSTICE KAGAN"}, e.Recusals)
	assert.Equal(t, "UNITED STATES COURT OF APPEALS FOR THE TENTH CIRCUIT", e.LowerCourt)
	assert.Equal(t, "Reversed and Remanded", e.Disposition)
}

func TestFindJoiners(t *testing.T) {
	tests := []struct {
		name string
		flat string
		want []string
	}{
		{"with whom", "JUSTICE SOTOMAYOR, with whom JUSTICE KAGAN and JUSTICE JACKSON join, dissenting.", []string{"JUSTICE KAGAN", "JUSTICE JACKSON"}},
		{"chief justice", "JUSTICE THOMAS, with whom THE CHIEF JUSTICE joins, concurring.", []string{"CHIEF JUSTICE"}},
		{"none", "JUSTICE ALITO, dissenting.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findJoiners(tt.flat))
		})
	}
}

func TestFindRecusalsStopsAtSentenceEnd(t *testing.T) {
	flat := "22-10 DOE V. ROE The petition for a writ of certiorari is denied. JUSTICE ALITO took no part in the consideration or decision of this petition."
	assert.Equal(t, []string{"JUSTICE ALITO"}, findRecusals(flat))

	flat = "The motion is granted. THE CHIEF JUSTICE and JUSTICE KAVANAUGH took no part in the decision of this motion."
	assert.Equal(t, []string{"CHIEF JUSTICE", "JUSTICE KAVANAUGH"}, findRecusals(flat))

	flat = "22-10 DOE V. ROE JUSTICE BREYER took no part in the consideration or decision of this petition."
	assert.Equal(t, []string{"JUSTICE BREYER"}, findRecusals(flat))

	assert.Empty(t, findRecusals("The petition for a writ of certiorari is denied."))
}
