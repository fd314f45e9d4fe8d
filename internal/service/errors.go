package service

import "errors"

// ErrMatchNotFound 按 id 找不到比赛
var ErrMatchNotFound = errors.New("match not found")

// ValidationError 请求参数不合法（对应 HTTP 400）
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
