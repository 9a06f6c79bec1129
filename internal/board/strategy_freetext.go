package board

import (
	"context"
	"strings"
)

// FreeTextStrategy 最后的兜底：逐行扫描可见文本，含货币符号的行当作一条记录
type FreeTextStrategy struct{}

func (FreeTextStrategy) Name() string { return "free-text" }

func (s FreeTextStrategy) Extract(ctx context.Context, page Page) ([]RawCandidate, error) {
	text, err := page.VisibleText(ctx)
	if err != nil {
		return nil, err
	}

	var out []RawCandidate
	for _, line := range strings.Split(text, "\n") {
		if !strings.ContainsAny(line, "$€£¥") {
			continue
		}
		if c, ok := CandidateFromText(line); ok {
			out = append(out, c)
		}
	}
	return out, nil
}
