package service

import (
	"errors"

	"github.com/6045054-web/CHENGHUI/internal/report"
)

var (
	ErrNotFound       = errors.New("记录不存在")
	ErrForbidden      = report.ErrForbidden
	ErrBadCredentials = errors.New("工号或密码错误")
	ErrAINotReady     = errors.New("AI 助手未配置")
)

// ValidationError is a user-facing input problem; nothing has been written when it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
