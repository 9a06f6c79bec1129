package ecode

// 业务错误码，0 表示成功
const (
	Success        = 0
	Unknown        = 10000
	InvalidParams  = 10001
	TooManyRequest = 10002

	// 排行榜
	NoData      = 20001 // 暂时没有抓到数据
	FetchFailed = 20002 // 浏览器/页面故障
	NotCached   = 20003 // 还没有缓存
)
