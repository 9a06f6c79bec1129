package board

import (
	"context"
	"github.com/PuerkitoBio/goquery"
	"hyperboard/pkg/money"
	"strings"
)

// Page 一个已加载完成的页面，由浏览器会话提供
type Page interface {
	// HTML 当前 DOM 的完整 HTML
	HTML(ctx context.Context) (string, error)
	// VisibleText 页面可见文本（innerText）
	VisibleText(ctx context.Context) (string, error)
	// CapturedJSON 页面加载过程中捕获到的 JSON 响应体，按到达顺序
	CapturedJSON() [][]byte
}

// Session 持有浏览器资源的页面，用完必须 Close
type Session interface {
	Page
	Close() error
}

// PageOpener 打开排行榜页面并等待渲染稳定
type PageOpener interface {
	Open(ctx context.Context) (Session, error)
}

// Strategy 从页面中抽取候选记录的一种方式
type Strategy interface {
	Name() string
	Extract(ctx context.Context, page Page) ([]RawCandidate, error)
}

// DefaultStrategies 按优先级排列的四种抽取策略
func DefaultStrategies() []Strategy {
	return []Strategy{
		EmbeddedStateStrategy{},
		NetworkCaptureStrategy{},
		StructuredTableStrategy{},
		FreeTextStrategy{},
	}
}

// 至少有一条金额非零的候选才算命中
func usableCount(cands []RawCandidate) int {
	n := 0
	for _, c := range cands {
		if money.ParseAmount(c.AmountText) != 0 {
			n++
		}
	}
	return n
}

func parseDocument(ctx context.Context, page Page) (*goquery.Document, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// 单元格文本，去掉空白单元格
func cellTexts(sel *goquery.Selection) []string {
	var cells []string
	sel.Each(func(_ int, cell *goquery.Selection) {
		if t := strings.Join(strings.Fields(cell.Text()), " "); t != "" {
			cells = append(cells, t)
		}
	})
	return cells
}
