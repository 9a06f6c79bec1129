package board

import (
	"context"
)

// NetworkCaptureStrategy 使用页面加载期间捕获的 JSON 响应，
// 适用于数据通过异步接口而不是内嵌在 HTML 中的情况
type NetworkCaptureStrategy struct{}

func (NetworkCaptureStrategy) Name() string { return "network-capture" }

func (s NetworkCaptureStrategy) Extract(ctx context.Context, page Page) ([]RawCandidate, error) {
	// 每个响应取一个最佳数组
	var found []scoredArray
	for _, body := range page.CapturedJSON() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		root, err := DecodeTree(body)
		if err != nil {
			continue
		}
		if sa, ok := bestArray(root); ok {
			found = append(found, sa)
		}
	}
	if len(found) == 0 {
		return nil, nil
	}

	// 字段得分最高的一组合并（分页接口会返回多段同结构的数组）
	top := 0
	for _, sa := range found {
		if fs := fieldScore(sa.score); fs > top {
			top = fs
		}
	}
	var out []RawCandidate
	for _, sa := range found {
		if fieldScore(sa.score) == top {
			out = append(out, CandidatesFromArray(sa.arr)...)
		}
	}
	return out, nil
}
