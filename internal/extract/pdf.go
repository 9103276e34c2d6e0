package extract

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// wordGap is the horizontal gap, as a fraction of the font size, above which
// two glyphs on one baseline belong to different words.
const wordGap = 0.15

// readPDF returns the rows of every page, top to bottom.
func readPDF(content []byte) (pages [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, pageRows(page.Content().Text))
	}

	return pages, nil
}

// pageRows groups glyphs by baseline and joins each row left to right.
func pageRows(glyphs []pdf.Text) []string {
	rows := make(map[int64][]pdf.Text)
	var baselines []int64
	for _, g := range glyphs {
		if g.S == "" || strings.IndexFunc(g.S, unicode.IsControl) >= 0 {
			continue
		}
		y := int64(math.Round(g.Y))
		if _, ok := rows[y]; !ok {
			baselines = append(baselines, y)
		}
		rows[y] = append(rows[y], g)
	}
	slices.SortFunc(baselines, func(a, b int64) int { return cmp.Compare(b, a) })

	lines := make([]string, 0, len(baselines))
	for _, y := range baselines {
		row := rows[y]
		slices.SortStableFunc(row, func(a, b pdf.Text) int { return cmp.Compare(a.X, b.X) })
		lines = append(lines, joinRow(row))
	}
	return lines
}

func joinRow(row []pdf.Text) string {
	var b strings.Builder
	for j, g := range row {
		if j > 0 {
			prev := row[j-1]
			if g.S != " " && prev.S != " " && g.X-(prev.X+prev.W) > wordGap*g.FontSize {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}
