package middleware

import (
	"net/http"
	"runtime"

	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	// stackBufferSize panic 발생 시 스택 트레이스를 저장할 버퍼 크기 (4KB)
	stackBufferSize = 4 << 10
)

// PanicRecovery panic을 복구하고 로깅하는 미들웨어를 반환합니다.
//
// 핸들러에서 발생한 panic을 복구하여 서버 다운을 방지하고, 스택 트레이스와 함께 에러를 로깅합니다.
// 미들웨어 체인의 가장 바깥에 위치해야 다른 미들웨어의 panic도 복구할 수 있습니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					// http.ErrAbortHandler는 의도된 중단이므로 그대로 다시 던집니다.
					if r == http.ErrAbortHandler {
						panic(r)
					}

					err := newErrPanicRecovered(r)

					stack := make([]byte, stackBufferSize)
					length := runtime.Stack(stack, false)

					fields := applog.Fields{
						"error":  err,
						"stack":  string(stack[:length]),
						"path":   c.Request().URL.Path,
						"method": c.Request().Method,
					}
					if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
						fields["request_id"] = requestID
					}

					applog.WithComponentAndFields(constants.ComponentMiddleware, fields).Error("패닉 복구: 예기치 못한 오류가 발생하여 안전하게 복구했습니다")

					returnErr = err
				}
			}()

			return next(c)
		}
	}
}
