package fetcher

import (
	"fmt"
	"net/http"
)

// HTTPStatusError 허용되지 않은 HTTP 상태 코드를 받았을 때 반환되는 구조화된 에러입니다.
//
// Cause에는 상태 코드에 따라 분류된 apperrors.AppError가 들어 있으므로
// apperrors.Is(err, apperrors.Unavailable) 처럼 타입으로 판별할 수 있습니다.
type HTTPStatusError struct {
	StatusCode int
	Status     string

	// URL 민감 정보(토큰 등)가 마스킹된 요청 URL
	URL string

	// Header 민감 헤더가 마스킹된 응답 헤더
	Header http.Header

	// BodySnippet 응답 본문의 앞부분 (최대 4KB)
	BodySnippet string

	Cause error
}

func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += fmt.Sprintf(" URL: %s", e.URL)
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(", Body: %s", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}
