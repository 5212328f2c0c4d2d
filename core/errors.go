package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 同一 Module + Code 的错误在 errors.Is 下视为相等，便于包装后判断
//
// 使用场景：
//   - Source 错误：NOT_FOUND, UNAVAILABLE
//   - Recommend 错误：EMPTY_LIBRARY, INSUFFICIENT_PLAYTIME, NO_SIMILAR_USERS
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "source", "recommend"）

	cause error
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap 返回底层原因（可能为 nil）。
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is 让 errors.Is 按 Module + Code 匹配，而不是按指针。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// Wrap 基于当前错误生成一个带原因的新错误，原错误本身不被修改。
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Module:  e.Module,
		cause:   cause,
	}
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中第一个 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 推荐链路错误代码
	ErrorCodeEmptyLibrary         = "EMPTY_LIBRARY"         // 用户没有任何游戏记录
	ErrorCodeInsufficientPlaytime = "INSUFFICIENT_PLAYTIME" // 没有游戏达到时长门槛
	ErrorCodeNoSimilarUsers       = "NO_SIMILAR_USERS"      // 扫描结束仍没有相似用户
)

// 模块名称常量
const (
	ModuleStore     = "store"     // 存储模块
	ModuleSource    = "source"    // 用户数据源
	ModuleRecommend = "recommend" // 推荐链路
)

// 推荐链路错误
var (
	// ErrUserNotFound 表示目标用户不在数据源中
	ErrUserNotFound = NewDomainError(ModuleSource, ErrorCodeNotFound, "source: user not found")

	// ErrSourceUnavailable 表示分页读取失败，扫描被中止（不重试）
	ErrSourceUnavailable = NewDomainError(ModuleSource, ErrorCodeUnavailable, "source: unavailable")

	// ErrEmptyLibrary 表示用户没有任何游戏记录
	ErrEmptyLibrary = NewDomainError(ModuleRecommend, ErrorCodeEmptyLibrary, "recommend: empty library")

	// ErrInsufficientPlaytime 表示没有任何游戏达到时长门槛
	ErrInsufficientPlaytime = NewDomainError(ModuleRecommend, ErrorCodeInsufficientPlaytime, "recommend: insufficient playtime")

	// ErrNoSimilarUsers 表示扫描完成但没有相似用户
	ErrNoSimilarUsers = NewDomainError(ModuleRecommend, ErrorCodeNoSimilarUsers, "recommend: no similar users")

	// ErrInvalidInput 表示请求参数不合法
	ErrInvalidInput = NewDomainError(ModuleRecommend, ErrorCodeInvalidInput, "recommend: invalid input")
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}
