package supplier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// StatusError 공급사 API가 성공이 아닌 상태 코드를 반환했을 때의 에러입니다.
//
// 에러 체인에는 항상 apperrors.SupplierUnavailable 타입의 AppError가 포함됩니다.
type StatusError struct {
	StatusCode int
	URL        string

	// Message 공급사가 응답 본문에 담아 보낸 에러 메시지 (없으면 빈 문자열)
	Message string

	cause error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("공급사 API 응답 오류 (상태 코드: %d, URL: %s)", e.StatusCode, e.URL)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.cause
}

// newErrSupplier fetcher 에러를 공급사 도메인 에러로 변환합니다.
//
// HTTP 상태 코드 에러는 *StatusError로, 네트워크 오류는 SupplierUnavailable AppError로 변환하고,
// 컨텍스트 취소는 호출자가 식별할 수 있도록 그대로 감싸서 반환합니다.
func newErrSupplier(err error, op string) error {
	var httpErr *fetcher.HTTPStatusError
	if errors.As(err, &httpErr) {
		return &StatusError{
			StatusCode: httpErr.StatusCode,
			URL:        httpErr.URL,
			Message:    extractErrorMessage(httpErr.BodySnippet),
			cause:      apperrors.Wrap(err, apperrors.SupplierUnavailable, fmt.Sprintf("%s 요청이 실패했습니다 (상태 코드: %d)", op, httpErr.StatusCode)),
		}
	}

	return apperrors.Wrap(err, apperrors.SupplierUnavailable, fmt.Sprintf("%s 요청 중 공급사 API에 연결할 수 없습니다", op))
}

// extractErrorMessage 공급사 에러 응답 본문에서 사람이 읽을 수 있는 메시지를 추출합니다.
//
//	{"code":404,"result":"Not Found","error":{"reason":"NotFound","message":"Product not found"}}
func extractErrorMessage(body string) string {
	if body == "" || !gjson.Valid(body) {
		return ""
	}

	for _, path := range []string{"error.message", "result", "error.reason"} {
		if v := gjson.Get(body, path); v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}

	return ""
}
