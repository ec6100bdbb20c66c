package middleware

import (
	"fmt"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/httputil"
)

var (
	// ErrAppKeyRequired X-App-Key 헤더가 없을 때 반환하는 에러입니다.
	ErrAppKeyRequired = httputil.NewUnauthorizedError(constants.ErrMsgAuthAppKeyRequired)

	// ErrInvalidAppKey X-App-Key 값이 설정과 일치하지 않을 때 반환하는 에러입니다.
	ErrInvalidAppKey = httputil.NewUnauthorizedError(constants.ErrMsgUnauthorized)

	// ErrRateLimitExceeded 허용된 요청 빈도를 초과한 클라이언트에게 반환할 429 에러입니다.
	ErrRateLimitExceeded = httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)
)

// newErrPanicRecovered 캡처된 패닉 값을 내부 시스템 오류로 래핑합니다.
func newErrPanicRecovered(r any) error {
	if err, ok := r.(error); ok {
		return apperrors.Wrap(err, apperrors.Internal, "핸들러에서 패닉이 발생했습니다")
	}
	return apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
}
