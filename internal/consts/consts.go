package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	// 客户端语言，用于参数校验错误的翻译
	LanguageId = "T-Language-Id"

	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

const (
	// websocket 推送的消息类型
	ActionBoardUpdate = "board_update"
	ActionBoardState  = "board_state"
)
