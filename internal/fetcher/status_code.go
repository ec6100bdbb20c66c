package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"slices"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

const maxBodySnippetBytes = 4096

// StatusCodeFetcher 허용되지 않은 상태 코드를 HTTPStatusError로 변환하는 미들웨어입니다.
type StatusCodeFetcher struct {
	delegate Fetcher

	// allowedStatusCodes 비어 있으면 2xx 전체를 허용합니다.
	allowedStatusCodes []int
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 2xx 응답만 성공으로 처리하는 StatusCodeFetcher를 생성합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowedStatusCodes ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:           delegate,
		allowedStatusCodes: allowedStatusCodes,
	}
}

func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if statusErr := CheckResponseStatus(resp, f.allowedStatusCodes...); statusErr != nil {
		drainAndCloseBody(resp.Body)
		return nil, statusErr
	}

	return resp, nil
}

// CheckResponseStatus 응답 상태 코드를 검사하여 허용되지 않으면 *HTTPStatusError를 반환합니다.
//
// 응답 본문의 앞부분을 읽어 BodySnippet에 담으므로, 에러가 반환된 뒤에는 Body를 다시 읽을 수 없습니다.
func CheckResponseStatus(resp *http.Response, allowedStatusCodes ...int) error {
	if len(allowedStatusCodes) == 0 {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
	} else if slices.Contains(allowedStatusCodes, resp.StatusCode) {
		return nil
	}

	var snippet string
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippetBytes))
		snippet = string(b)
	}

	var url string
	if resp.Request != nil {
		url = redactURL(resp.Request.URL)
	}

	status := resp.Status
	if status == "" {
		status = http.StatusText(resp.StatusCode)
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      status,
		URL:         url,
		Header:      redactHeaders(resp.Header),
		BodySnippet: snippet,
		Cause:       apperrors.New(classifyStatusCode(resp.StatusCode), fmt.Sprintf("HTTP 요청이 실패했습니다 (상태 코드: %d)", resp.StatusCode)),
	}
}

// classifyStatusCode HTTP 상태 코드를 에러 타입으로 분류합니다.
func classifyStatusCode(statusCode int) apperrors.ErrorType {
	switch {
	case statusCode == http.StatusNotFound:
		return apperrors.NotFound
	case statusCode == http.StatusTooManyRequests, statusCode == http.StatusRequestTimeout:
		return apperrors.Unavailable
	case statusCode >= 500:
		return apperrors.Unavailable
	case statusCode >= 400:
		return apperrors.InvalidInput
	default:
		return apperrors.Unknown
	}
}
