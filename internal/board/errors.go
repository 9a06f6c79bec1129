package board

import (
	"errors"
	"fmt"
)

// ErrNoData 所有策略都没有抓到数据，不是故障
var ErrNoData = errors.New("no leaderboard data currently available")

// ErrHardTimeout 单次抓取超过总时长上限
var ErrHardTimeout = errors.New("fetch exceeded hard timeout")

// 浏览器会话出错的阶段
type Stage string

const (
	StageLaunch   Stage = "launch"
	StageNavigate Stage = "navigate"
	StageSettle   Stage = "settle"
	StageExtract  Stage = "extract"
)

// SessionError 浏览器/页面基础设施故障，带阶段标记
type SessionError struct {
	Stage Stage
	Err   error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("page session %s failed: %v", e.Stage, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// StageOf 取出错误所在阶段，非会话错误返回空
func StageOf(err error) Stage {
	var se *SessionError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
