package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_Table(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "표준 응답 형식의 HTTPError",
			method:      http.MethodPost,
			err:         NewConflictError(constants.ErrMsgSyncAlreadyRunning),
			wantCode:    http.StatusConflict,
			wantMessage: constants.ErrMsgSyncAlreadyRunning,
		},
		{
			name:        "문자열 메시지의 HTTPError",
			method:      http.MethodGet,
			err:         echo.NewHTTPError(http.StatusBadRequest, "bad"),
			wantCode:    http.StatusBadRequest,
			wantMessage: "bad",
		},
		{
			name:        "라우팅 404는 한국어 메시지로 변환",
			method:      http.MethodGet,
			err:         echo.ErrNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: constants.ErrMsgNotFound,
		},
		{
			name:        "핸들러가 지정한 404 메시지는 유지",
			method:      http.MethodPost,
			err:         NewNotFoundError(constants.ErrMsgSupplierNotFound),
			wantCode:    http.StatusNotFound,
			wantMessage: constants.ErrMsgSupplierNotFound,
		},
		{
			name:        "일반 에러는 내부 정보를 숨김",
			method:      http.MethodGet,
			err:         errors.New("dial tcp: connection refused"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: constants.ErrMsgInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantCode, rec.Code)

			var resp response.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.ResultCode)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestErrorHandler_HeadRequestHasNoBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, c.String(http.StatusOK, "done"))
	ErrorHandler(NewInternalServerError("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestSuccess(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Success(c))

	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ResultCode)
}
