package board

import (
	"context"
	"github.com/PuerkitoBio/goquery"
	"regexp"
	"strings"
)

// EmbeddedStateStrategy 读取页面内嵌的服务端渲染状态（__NEXT_DATA__ 之类的 script JSON），
// 在其中寻找最像排行榜的数组
type EmbeddedStateStrategy struct{}

func (EmbeddedStateStrategy) Name() string { return "embedded-state" }

var jsonScriptTypes = map[string]bool{
	"application/json":    true,
	"application/ld+json": true,
}

// window.__INITIAL_STATE__ = {...}; self.__data = [...]
var stateAssignRe = regexp.MustCompile(`(?:window|self|globalThis)\.[A-Za-z0-9_$]+\s*=\s*`)

func (s EmbeddedStateStrategy) Extract(ctx context.Context, page Page) ([]RawCandidate, error) {
	doc, err := parseDocument(ctx, page)
	if err != nil {
		return nil, err
	}

	var best scoredArray
	for _, blob := range embeddedBlobs(doc) {
		root, err := DecodeTree([]byte(blob))
		if err != nil {
			continue
		}
		if sa, ok := bestArray(root); ok && sa.score > best.score {
			best = sa
		}
	}
	if best.score == 0 {
		return nil, nil
	}
	return CandidatesFromArray(best.arr), nil
}

// embeddedBlobs 收集所有可能是 JSON 的 script 内容
func embeddedBlobs(doc *goquery.Document) []string {
	var blobs []string
	doc.Find("script").Each(func(_ int, sc *goquery.Selection) {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			return
		}
		typ, _ := sc.Attr("type")
		id, _ := sc.Attr("id")
		if jsonScriptTypes[strings.ToLower(typ)] || id == "__NEXT_DATA__" || id == "__NUXT_DATA__" {
			blobs = append(blobs, text)
			return
		}
		// 普通脚本里的状态赋值，取等号后面的 JSON 值
		for _, loc := range stateAssignRe.FindAllStringIndex(text, -1) {
			rest := strings.TrimSpace(text[loc[1]:])
			if strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") {
				blobs = append(blobs, rest)
			}
		}
	})
	return blobs
}
