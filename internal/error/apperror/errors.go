// Package apperror 定义服务内部使用的错误分类, 由 response 包映射为HTTP响应.
package apperror

import (
	"errors"
	"fmt"
	"strings"

	"property-http-service/internal/error/code"
)

// Coder 携带业务错误码的错误
type Coder interface {
	error
	Code() int
}

// ConfigError 数据库配置缺失或无效
type ConfigError struct {
	Missing []string
	Reason  string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) > 0 {
		return "Missing required environment variables: " + strings.Join(e.Missing, ", ")
	}
	return "invalid configuration: " + e.Reason
}

func (e *ConfigError) Code() int { return code.ErrConfig }

// FieldError 单个字段的校验失败
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError 请求输入不满足约束
type ValidationError struct {
	ErrCode int
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Code() int { return e.ErrCode }

// NewValidationError 使用错误码的默认消息创建校验错误
func NewValidationError(errCode int, fields []FieldError) *ValidationError {
	return &ValidationError{ErrCode: errCode, Message: code.GetMessage(errCode), Fields: fields}
}

// NotFoundError 目标记录不存在
type NotFoundError struct {
	ErrCode int
	Entity  string
	ID      uint
}

func (e *NotFoundError) Error() string { return code.GetMessage(e.ErrCode) }

func (e *NotFoundError) Code() int { return e.ErrCode }

// NewNotFoundError 创建记录不存在错误
func NewNotFoundError(errCode int, entity string, id uint) *NotFoundError {
	return &NotFoundError{ErrCode: errCode, Entity: entity, ID: id}
}

// StoreError 数据库操作失败, 消息保留底层原因
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Code() int { return code.ErrDatabase }

// Store 将数据库错误包装为 StoreError, 已分类的错误原样返回
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	var coder Coder
	if errors.As(err, &coder) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// SetupError 启动阶段的连接或迁移失败
type SetupError struct {
	ErrCode int
	Op      string
	Err     error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %s: %v", code.GetMessage(e.ErrCode), e.Op, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

func (e *SetupError) Code() int { return e.ErrCode }

// Connection 包装建立数据库连接时的错误
func Connection(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SetupError{ErrCode: code.ErrConnectionFailed, Op: op, Err: err}
}

// Migration 包装表结构迁移时的错误
func Migration(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SetupError{ErrCode: code.ErrMigrationFailed, Op: op, Err: err}
}

// CodeOf 提取错误码, 未分类的错误视为 ErrUnknown
func CodeOf(err error) int {
	var coder Coder
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return code.ErrUnknown
}

// Describe 用于日志输出, 数据库错误带上操作名
func Describe(err error) string {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return fmt.Sprintf("%s: %v", storeErr.Op, storeErr.Err)
	}
	return err.Error()
}
