package fetcher

import (
	"fmt"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

// ErrMaxRetriesExceeded 재시도 횟수를 모두 소진했을 때 에러 체인에 포함됩니다.
var ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")

func newErrMaxRetriesExceeded(lastErr error) error {
	if lastErr == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(lastErr, apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")
}

func newErrRetryAfterExceeded(retryAfter, maxDelay string) error {
	return apperrors.New(apperrors.Unavailable, fmt.Sprintf("서버가 요구한 대기 시간(Retry-After: %s)이 최대 재시도 대기 시간(%s)을 초과합니다", retryAfter, maxDelay))
}

func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("응답 본문 크기가 제한(%d 바이트)을 초과했습니다", limit))
}

func newErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("응답 본문 크기(Content-Length: %d 바이트)가 제한(%d 바이트)을 초과했습니다", contentLength, limit))
}
