// Package apierror defines the JSON error envelope shared by handlers and
// middleware, its stable machine-readable codes, and the localized message
// catalog behind them.
//
// Every error body has the shape:
//
//	{ "ok": false, "error": "<localized text>", "code": "<code>", "request_id": "..." }
//
// Messages default to Korean and switch to English when the request's
// Accept-Language prefers it.
package apierror

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// Stable error codes. Clients branch on these, never on the message text.
const (
	CodeBadRequest          = "bad_request"
	CodeValidation          = "validation_failed"
	CodeInvalidID           = "invalid_id"
	CodeNotFound            = "not_found"
	CodeMethodNotAllowed    = "method_not_allowed"
	CodeRateLimited         = "too_many_requests"
	CodeBadIdempotencyKey   = "bad_idempotency_key"
	CodeIdempotencyConflict = "idempotency_conflict"
	CodeIdempotencyMismatch = "idempotency_key_reused"
	CodeInternal            = "internal_error"

	// Domain-specific:
	CodeListFailed   = "list_failed"
	CodeCreateFailed = "create_failed"
	CodeDeleteFailed = "delete_failed"
)

// Response is the standard error envelope returned by all endpoints.
type Response struct {
	// Always false for errors
	OK bool `json:"ok" example:"false"`
	// Human-readable, localized message (safe to show to users)
	Error string `json:"error" example:"이름, 제목, 문의 내용을 모두 입력해주세요."`
	// Stable, machine-readable code
	Code string `json:"code" example:"validation_failed"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

var supported = []language.Tag{language.Korean, language.English}

var matcher = language.NewMatcher(supported)

// catalog maps code -> {Korean, English}.
var catalog = map[string][2]string{
	CodeBadRequest:          {"잘못된 요청입니다.", "The request could not be understood."},
	CodeValidation:          {"이름, 제목, 문의 내용을 모두 입력해주세요.", "Please enter your name, a title and a message."},
	CodeInvalidID:           {"잘못된 문의 번호입니다.", "The inquiry id must be a positive integer."},
	CodeNotFound:            {"요청한 경로를 찾을 수 없습니다.", "The requested route does not exist."},
	CodeMethodNotAllowed:    {"허용되지 않은 요청 방식입니다.", "Method not allowed."},
	CodeRateLimited:         {"요청이 너무 많습니다. 잠시 후 다시 시도해주세요.", "Too many requests. Please try again shortly."},
	CodeBadIdempotencyKey:   {"Idempotency-Key 값이 올바르지 않습니다.", "Invalid Idempotency-Key header."},
	CodeIdempotencyConflict: {"같은 요청이 처리 중입니다. 잠시 후 다시 시도해주세요.", "A request with this Idempotency-Key is still in progress."},
	CodeIdempotencyMismatch: {"이미 다른 내용으로 사용된 Idempotency-Key입니다.", "This Idempotency-Key was already used with a different request body."},
	CodeInternal:            {"서버 오류가 발생했습니다.", "Internal server error."},
	CodeListFailed:          {"문의 목록 조회 중 오류가 발생했습니다.", "Failed to load inquiries."},
	CodeCreateFailed:        {"문의 등록 중 오류가 발생했습니다.", "Failed to submit the inquiry."},
	CodeDeleteFailed:        {"문의 삭제 중 오류가 발생했습니다.", "Failed to delete the inquiry."},
}

// Message returns the catalog text for code in the language best matching
// acceptLanguage. Unknown codes fall back to the internal error text.
func Message(acceptLanguage, code string) string {
	msgs, ok := catalog[code]
	if !ok {
		msgs = catalog[CodeInternal]
	}
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	if idx == 1 {
		return msgs[1]
	}
	return msgs[0]
}

// New builds the envelope for code, localized for the request and stamped
// with the correlation id already set on the response.
func New(c *gin.Context, code string) Response {
	lang := ""
	if c.Request != nil {
		lang = c.GetHeader("Accept-Language")
	}
	return Response{
		OK:        false,
		Error:     Message(lang, code),
		Code:      code,
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}
}

// Abort writes the envelope for code with status and stops the chain.
func Abort(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, New(c, code))
}
