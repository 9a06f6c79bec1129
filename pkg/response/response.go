package response

import (
	"github.com/gin-gonic/gin"
	"hyperboard/internal/consts"
	"hyperboard/pkg/errors"
	"hyperboard/pkg/errors/ecode"
	"net/http"
)

// 代表响应给客户端的的一个消息结构，包括错误码，错误信息，响应数据
type ApiResponse struct {
	RequestId string      `json:"request_id"` // 请求的唯一ID
	Code      int         `json:"code"`       // 错误码 0表示无错误
	Message   string      `json:"message"`    // 提示信息
	Data      interface{} `json:"data"`       // 响应数据
}

// 错误码对应的http状态码，没有列出的一律 400
var httpStatus = map[int]int{
	ecode.Success:        http.StatusOK,
	ecode.NoData:         http.StatusOK, // 暂时没数据不算故障，客户端稍后重试
	ecode.NotCached:      http.StatusNotFound,
	ecode.FetchFailed:    http.StatusServiceUnavailable,
	ecode.TooManyRequest: http.StatusTooManyRequests,
	ecode.Unknown:        http.StatusInternalServerError,
}

func statusOf(code int) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusBadRequest
}

// 发送json格式数据
func JSON(c *gin.Context, err error, data interface{}) {
	code, message := errors.DecodeErr(err)
	c.JSON(statusOf(code), ApiResponse{
		RequestId: c.GetString(consts.RequestId),
		Code:      code,
		Message:   message,
		Data:      data,
	})
}

// 请求频繁，返回429
func TooManyRequests(c *gin.Context) {
	JSON(c, errors.New(ecode.TooManyRequest, "The request is too frequent. Please try again later."), nil)
}
