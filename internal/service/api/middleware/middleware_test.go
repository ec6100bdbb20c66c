package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog 테스트 동안 표준 로거 출력을 JSON 형식으로 버퍼에 기록합니다.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	logger := applog.StandardLogger()
	origOut, origFormatter, origLevel := logger.Out, logger.Formatter, logger.Level

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(applog.DebugLevel)

	t.Cleanup(func() {
		logger.SetOutput(origOut)
		logger.SetFormatter(origFormatter)
		logger.SetLevel(origLevel)
	})

	return &buf
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestRequireAppKey(t *testing.T) {
	captureLog(t)

	tests := []struct {
		name     string
		header   string
		wantErr  error
		wantCode int
	}{
		{name: "헤더 누락", header: "", wantErr: ErrAppKeyRequired},
		{name: "키 불일치", header: "wrong-key", wantErr: ErrInvalidAppKey},
		{name: "키 일치", header: "secret-app-key", wantCode: http.StatusOK},
	}

	mw := RequireAppKey("secret-app-key")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
			if tt.header != "" {
				req.Header.Set(constants.HeaderAppKey, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := mw(okHandler)(c)

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)

				var he *echo.HTTPError
				require.True(t, errors.As(err, &he))
				assert.Equal(t, http.StatusUnauthorized, he.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireAppKey_QueryParameterIsIgnored(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync?app_key=secret-app-key", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequireAppKey("secret-app-key")(okHandler)(c)

	assert.Equal(t, ErrAppKeyRequired, err)
}

func TestRequireAppKey_EmptyKeyPanics(t *testing.T) {
	assert.PanicsWithValue(t, constants.PanicMsgAppKeyRequired, func() {
		RequireAppKey("")
	})
}

func TestRateLimiting(t *testing.T) {
	captureLog(t)

	e := echo.New()
	e.Use(RateLimiting(1, 2))
	e.GET("/", okHandler)

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	limited := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, retryAfterSeconds, limited.Header().Get(retryAfter))

	// 다른 IP는 독립적으로 제한됩니다.
	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code)
}

func TestRateLimiting_InvalidArgumentsPanic(t *testing.T) {
	assert.Panics(t, func() { RateLimiting(0, 1) })
	assert.Panics(t, func() { RateLimiting(1, 0) })
}

func TestIPRateLimiter_EvictsWhenFull(t *testing.T) {
	l := newIPRateLimiter(1, 1)
	for i := 0; i < maxIPRateLimiters; i++ {
		l.limiters["10.0.0."+strconv.Itoa(i)] = nil
	}
	require.Len(t, l.limiters, maxIPRateLimiters)

	assert.NotNil(t, l.getLimiter("192.168.0.1"))
	assert.Len(t, l.limiters, maxIPRateLimiters)
}

func TestPanicRecovery(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		wantMsg string
	}{
		{name: "문자열 패닉", payload: "치명적인 오류 발생", wantMsg: "치명적인 오류 발생"},
		{name: "에러 패닉", payload: errors.New("nil map"), wantMsg: "nil map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)

			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/boom", nil), httptest.NewRecorder())

			err := PanicRecovery()(func(echo.Context) error { panic(tt.payload) })(c)

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.Internal))
			assert.Contains(t, err.Error(), tt.wantMsg)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "/boom", entry["path"])
			assert.NotEmpty(t, entry["stack"])
		})
	}
}

func TestPanicRecovery_AbortHandlerIsRepanicked(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		_ = PanicRecovery()(func(echo.Context) error { panic(http.ErrAbortHandler) })(c)
	})
}

func TestHTTPLogger(t *testing.T) {
	buf := captureLog(t)

	e := echo.New()
	e.Use(HTTPLogger())
	e.GET("/health", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/health?token=abcdefghijklmnop", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP 요청", entry["msg"])
	assert.Equal(t, "/health", entry["path"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.NotContains(t, entry["uri"], "abcdefghijklmnop")
}

func TestHTTPLogger_RecordsErrorStatus(t *testing.T) {
	buf := captureLog(t)

	e := echo.New()
	e.Use(HTTPLogger())
	e.GET("/fail", func(echo.Context) error { return echo.NewHTTPError(http.StatusConflict, "busy") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, buf.String(), `"status":409`)
}

func TestMaskSensitiveQueryParams(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "민감 정보 없음", uri: "/api/v1/sync?dry=1", want: "/api/v1/sync?dry=1"},
		{name: "app_key 마스킹", uri: "/api/v1/sync?app_key=secret123456", want: "/api/v1/sync?app_key=secr%2A%2A%2A"},
		{name: "짧은 토큰", uri: "/x?token=abc", want: "/x?token=%2A%2A%2A"},
		{name: "쿼리 없음", uri: "/health", want: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskSensitiveQueryParams(tt.uri))
		})
	}
}

func TestLogger_LevelRoundTrip(t *testing.T) {
	l := Logger{Logger: logrus.New()}

	for _, lvl := range []log.Lvl{log.DEBUG, log.INFO, log.WARN, log.ERROR} {
		l.SetLevel(lvl)
		assert.Equal(t, lvl, l.Level())
	}

	l.Logger.SetLevel(applog.FatalLevel)
	assert.Equal(t, log.OFF, l.Level())
}

func TestLogger_WritesToApplicationLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetFormatter(&logrus.JSONFormatter{})

	l := Logger{Logger: base}
	assert.Equal(t, &buf, l.Output())

	l.Infoj(log.JSON{"component": "echo"})
	assert.Contains(t, buf.String(), `"component":"echo"`)
}
