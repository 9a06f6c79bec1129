package errors

import (
	stderrors "errors"
	"hyperboard/pkg/errors/ecode"
)

// Err 带业务错误码的错误
type Err struct {
	Code    int
	Message string
	cause   error
}

func (e *Err) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Err) Unwrap() error {
	return e.cause
}

func New(code int, message string) *Err {
	return &Err{Code: code, Message: message}
}

// Wrap 给底层错误附加错误码，对外只暴露 message
func Wrap(code int, message string, cause error) *Err {
	return &Err{Code: code, Message: message, cause: cause}
}

// DecodeErr 把错误解析成 (code, message)，nil 表示成功
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, "success"
	}
	var e *Err
	if stderrors.As(err, &e) {
		return e.Code, e.Message
	}
	return ecode.Unknown, err.Error()
}
