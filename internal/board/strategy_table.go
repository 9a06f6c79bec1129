package board

import (
	"context"
	"github.com/PuerkitoBio/goquery"
)

// StructuredTableStrategy 从表格（或 ARIA grid）的每一行解析一条记录
type StructuredTableStrategy struct{}

func (StructuredTableStrategy) Name() string { return "structured-table" }

func (s StructuredTableStrategy) Extract(ctx context.Context, page Page) ([]RawCandidate, error) {
	doc, err := parseDocument(ctx, page)
	if err != nil {
		return nil, err
	}

	var out []RawCandidate
	for _, row := range tableRows(doc) {
		if len(row) < 2 {
			continue
		}
		// 没有可解析金额的行直接跳过
		if c, ok := CandidateFromCells(row); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// tableRows 依次尝试 tbody 行、所有 table 行、role=row 的网格
func tableRows(doc *goquery.Document) [][]string {
	read := func(rows *goquery.Selection, cellSel string) [][]string {
		var out [][]string
		rows.Each(func(_ int, r *goquery.Selection) {
			if cells := cellTexts(r.Find(cellSel)); len(cells) > 0 {
				out = append(out, cells)
			}
		})
		return out
	}

	if rows := read(doc.Find("table tbody tr"), "td"); len(rows) > 0 {
		return rows
	}
	if rows := read(doc.Find("table tr"), "td"); len(rows) > 0 {
		return rows
	}
	return read(doc.Find(`[role="row"]`), `[role="cell"], [role="gridcell"]`)
}
