package middleware

import (
	"crypto/subtle"

	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
)

// RequireAppKey X-App-Key 헤더로 관리 API 호출자를 인증하는 미들웨어를 반환합니다.
//
// 관리 API는 운영자 한 명(또는 배포 파이프라인)만 호출하므로 애플리케이션 구분 없이 단일 키를 비교합니다.
// 키 비교는 상수 시간으로 수행합니다. 쿼리 파라미터로 전달된 키는 로그에 남을 수 있으므로 받지 않습니다.
//
// Panics:
//   - appKey가 빈 문자열인 경우
func RequireAppKey(appKey string) echo.MiddlewareFunc {
	if appKey == "" {
		panic(constants.PanicMsgAppKeyRequired)
	}

	expected := []byte(appKey)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			given := c.Request().Header.Get(constants.HeaderAppKey)
			if given == "" {
				return ErrAppKeyRequired
			}

			if subtle.ConstantTimeCompare([]byte(given), expected) != 1 {
				applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
					"method":    c.Request().Method,
					"path":      c.Path(),
					"remote_ip": c.RealIP(),
					"app_key":   applog.MaskSensitiveData(given),
				}).Warn("인증 실패: app_key가 일치하지 않습니다")

				return ErrInvalidAppKey
			}

			return next(c)
		}
	}
}
