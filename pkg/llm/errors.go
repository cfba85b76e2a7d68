package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误类型
// ═══════════════════════════════════════════════════════════════════════════

// ErrorType 错误类型
type ErrorType string

const (
	// ErrTypeConfig 配置错误
	ErrTypeConfig ErrorType = "config_error"

	// ErrTypeRequest 请求错误（序列化、构建等）
	ErrTypeRequest ErrorType = "request_error"

	// ErrTypeHTTP HTTP 层错误（网络、超时等）
	ErrTypeHTTP ErrorType = "http_error"

	// ErrTypeAPI API 业务错误（4xx, 5xx）
	ErrTypeAPI ErrorType = "api_error"

	// ErrTypeResponse 响应解析错误
	ErrTypeResponse ErrorType = "response_error"

	// ErrTypeStream 流式错误
	ErrTypeStream ErrorType = "stream_error"

	// ErrTypeUnknownProvider 未知的 Provider 标识
	ErrTypeUnknownProvider ErrorType = "unknown_provider"

	// ErrTypeUnsupportedCapability Provider 不支持请求的能力
	ErrTypeUnsupportedCapability ErrorType = "unsupported_capability"

	// ErrTypeMissingCredential 缺少凭证
	ErrTypeMissingCredential ErrorType = "missing_credential"

	// ErrTypeMalformedIdentifier 标识格式错误
	ErrTypeMalformedIdentifier ErrorType = "malformed_identifier"
)

// ═══════════════════════════════════════════════════════════════════════════
// 基础错误
// ═══════════════════════════════════════════════════════════════════════════

// BaseError 基础错误实现
type BaseError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置错误
// ═══════════════════════════════════════════════════════════════════════════

// ConfigError 配置错误
type ConfigError struct {
	*BaseError
}

// NewConfigError 创建配置错误
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{
		BaseError: &BaseError{
			Type:    ErrTypeConfig,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求错误
// ═══════════════════════════════════════════════════════════════════════════

// RequestError 请求错误
type RequestError struct {
	*BaseError

	Stage string // "marshal", "build", etc.
}

// NewRequestError 创建请求错误
func NewRequestError(stage string, err error) *RequestError {
	return &RequestError{
		BaseError: &BaseError{
			Type:    ErrTypeRequest,
			Message: fmt.Sprintf("failed to %s request", stage),
			Err:     err,
		},
		Stage: stage,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// HTTP 错误
// ═══════════════════════════════════════════════════════════════════════════

// HTTPError HTTP 层错误
type HTTPError struct {
	*BaseError
}

// NewHTTPError 创建 HTTP 错误
func NewHTTPError(message string, err error) *HTTPError {
	return &HTTPError{
		BaseError: &BaseError{
			Type:    ErrTypeHTTP,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// API 错误
// ═══════════════════════════════════════════════════════════════════════════

// APIError API 业务错误
type APIError struct {
	*BaseError

	StatusCode int
	Response   string
	Provider   string
	RequestID  string
	ErrorCode  string // Provider 特定的错误代码
}

// NewAPIError 创建 API 错误
func NewAPIError(statusCode int, response string) *APIError {
	return &APIError{
		BaseError: &BaseError{
			Type:    ErrTypeAPI,
			Message: apiErrorMessage(statusCode, response),
		},
		StatusCode: statusCode,
		Response:   response,
	}
}

// WithProvider 设置 Provider 名称
func (e *APIError) WithProvider(provider string) *APIError {
	e.Provider = provider
	return e
}

// WithRequestID 设置请求 ID
func (e *APIError) WithRequestID(requestID string) *APIError {
	e.RequestID = requestID
	return e
}

// WithErrorCode 设置错误代码
func (e *APIError) WithErrorCode(code string) *APIError {
	e.ErrorCode = code
	return e
}

func (e *APIError) Error() string {
	base := e.BaseError.Error()
	if e.Provider != "" {
		base = e.Provider + ": " + base
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id: %s)", base, e.RequestID)
	}
	return base
}

// IsRetryable 检查错误是否可重试
//
// 仅供调用方决策，本包不做任何重试。
func (e *APIError) IsRetryable() bool {
	// 429 (Rate Limit), 500, 502, 503, 504 可重试
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500 && e.StatusCode <= 504
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应解析错误
// ═══════════════════════════════════════════════════════════════════════════

// ResponseError 响应解析错误
type ResponseError struct {
	*BaseError

	Field string // 出错的字段
}

// NewResponseError 创建响应错误
func NewResponseError(field string, err error) *ResponseError {
	return &ResponseError{
		BaseError: &BaseError{
			Type:    ErrTypeResponse,
			Message: fmt.Sprintf("failed to parse response field '%s'", field),
			Err:     err,
		},
		Field: field,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 流式错误
// ═══════════════════════════════════════════════════════════════════════════

// StreamError 流式错误
type StreamError struct {
	*BaseError
}

// NewStreamError 创建流式错误
func NewStreamError(message string, err error) *StreamError {
	return &StreamError{
		BaseError: &BaseError{
			Type:    ErrTypeStream,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 解析错误（工厂在构造任何网络客户端之前返回）
// ═══════════════════════════════════════════════════════════════════════════

// UnknownProviderError 未知的 Provider 标识
type UnknownProviderError struct {
	*BaseError

	Token string
}

// NewUnknownProviderError 创建未知 Provider 错误
func NewUnknownProviderError(token string) *UnknownProviderError {
	return &UnknownProviderError{
		BaseError: &BaseError{
			Type:    ErrTypeUnknownProvider,
			Message: fmt.Sprintf("unknown LLM provider: %q", token),
		},
		Token: token,
	}
}

// UnsupportedCapabilityError Provider 不支持请求的能力
type UnsupportedCapabilityError struct {
	*BaseError

	Provider   ProviderType
	Capability Capability
}

// NewUnsupportedCapabilityError 创建能力不支持错误
func NewUnsupportedCapabilityError(provider ProviderType, capability Capability) *UnsupportedCapabilityError {
	return &UnsupportedCapabilityError{
		BaseError: &BaseError{
			Type:    ErrTypeUnsupportedCapability,
			Message: fmt.Sprintf("provider %s does not support %s", provider, capability),
		},
		Provider:   provider,
		Capability: capability,
	}
}

// MissingCredentialError 凭证字段既无显式值也无环境变量
type MissingCredentialError struct {
	*BaseError

	Provider ProviderType
	Field    string
	EnvVar   string
}

// NewMissingCredentialError 创建缺少凭证错误，消息中包含环境变量名
func NewMissingCredentialError(provider ProviderType, field, envVar string) *MissingCredentialError {
	return &MissingCredentialError{
		BaseError: &BaseError{
			Type:    ErrTypeMissingCredential,
			Message: fmt.Sprintf("required environment variable `%s` not found (provider %s, field %s)", envVar, provider, field),
		},
		Provider: provider,
		Field:    field,
		EnvVar:   envVar,
	}
}

// MalformedIdentifierError 标识缺少 ":" 分隔符或模型名为空
type MalformedIdentifierError struct {
	*BaseError

	Identifier string
}

// NewMalformedIdentifierError 创建标识格式错误
func NewMalformedIdentifierError(identifier string) *MalformedIdentifierError {
	return &MalformedIdentifierError{
		BaseError: &BaseError{
			Type:    ErrTypeMalformedIdentifier,
			Message: fmt.Sprintf("identifier %q must have the form <provider>:<model>", identifier),
		},
		Identifier: identifier,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误匹配函数（支持 errors.Is/As）
// ═══════════════════════════════════════════════════════════════════════════

// IsConfigError 检查是否为配置错误
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsRequestError 检查是否为请求错误
func IsRequestError(err error) bool {
	var e *RequestError
	return errors.As(err, &e)
}

// IsHTTPError 检查是否为 HTTP 错误
func IsHTTPError(err error) bool {
	var e *HTTPError
	return errors.As(err, &e)
}

// IsAPIError 检查是否为 API 错误
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsResponseError 检查是否为响应解析错误
func IsResponseError(err error) bool {
	var e *ResponseError
	return errors.As(err, &e)
}

// IsStreamError 检查是否为流式错误
func IsStreamError(err error) bool {
	var e *StreamError
	return errors.As(err, &e)
}

// IsUnknownProviderError 检查是否为未知 Provider 错误
func IsUnknownProviderError(err error) bool {
	var e *UnknownProviderError
	return errors.As(err, &e)
}

// IsUnsupportedCapabilityError 检查是否为能力不支持错误
func IsUnsupportedCapabilityError(err error) bool {
	var e *UnsupportedCapabilityError
	return errors.As(err, &e)
}

// IsMissingCredentialError 检查是否为缺少凭证错误
func IsMissingCredentialError(err error) bool {
	var e *MissingCredentialError
	return errors.As(err, &e)
}

// IsMalformedIdentifierError 检查是否为标识格式错误
func IsMalformedIdentifierError(err error) bool {
	var e *MalformedIdentifierError
	return errors.As(err, &e)
}

// IsRetryableError 检查错误是否可重试
func IsRetryableError(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.IsRetryable()
	}
	return false
}

// GetAPIError 提取 APIError（如果存在）
func GetAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetStatusCode 提取 HTTP 状态码（如果是 API 错误）
func GetStatusCode(err error) int {
	if e, ok := GetAPIError(err); ok {
		return e.StatusCode
	}
	return 0
}

// apiErrorMessage 生成 API 错误消息，响应体过长时截断
func apiErrorMessage(statusCode int, response string) string {
	const maxBody = 512
	if response == "" {
		return fmt.Sprintf("API returned error status %d", statusCode)
	}
	if len(response) > maxBody {
		response = response[:maxBody] + "..."
	}
	return fmt.Sprintf("API returned error status %d: %s", statusCode, response)
}
