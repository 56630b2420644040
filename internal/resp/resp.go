// Package resp 提供统一的 JSON 响应信封。
// 所有 API 响应共享同一结构，便于前端与排障脚本统一解析。
package resp

import (
	"encoding/json"
	"net/http"
)

// 业务错误码。与 HTTP 状态码互补：HTTP 码表达传输语义，业务码表达失败类别。
const (
	CodeOK            = 0
	CodeInvalidParam  = 10001
	CodeUnauthorized  = 10002
	CodeForbidden     = 10003
	CodeNotFound      = 10004
	CodeConflict      = 10005
	CodeRateLimited   = 10006
	CodeUnprocessable = 10007
	CodeTimeout       = 10008
	CodeInternalError = 20001
)

// HTTPStatusFromCode 将业务错误码映射为默认的 HTTP 状态码
func HTTPStatusFromCode(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Body 响应信封
type Body struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// OK 输出成功响应
func OK(w http.ResponseWriter, data interface{}, requestID, traceID string) {
	write(w, http.StatusOK, &Body{
		Code:      CodeOK,
		Message:   "ok",
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// Error 输出错误响应
func Error(w http.ResponseWriter, status, code int, message, requestID, traceID string) {
	write(w, status, &Body{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

func write(w http.ResponseWriter, status int, body *Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// 编码失败时响应头已发出，只能放弃；调用方无法补救
	_ = json.NewEncoder(w).Encode(body)
}
