package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/httputil"
	"github.com/darkkaiser/catalog-sync/internal/service/api/model/response"
	"github.com/darkkaiser/catalog-sync/internal/service/api/v1/handler"
	"github.com/darkkaiser/catalog-sync/internal/service/api/v1/model"
	"github.com/darkkaiser/catalog-sync/internal/service/runner"
	"github.com/darkkaiser/catalog-sync/internal/supplier"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppKey = "test-app-key"

type fakeRunner struct {
	mu       sync.Mutex
	running  bool
	starts   []runner.Trigger
	report   *reconciler.Report
	startErr error
}

func (r *fakeRunner) Start(_ context.Context, trigger runner.Trigger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.startErr != nil {
		return r.startErr
	}
	if r.running {
		return runner.ErrAlreadyRunning
	}
	r.running = true
	r.starts = append(r.starts, trigger)
	return nil
}

func (r *fakeRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *fakeRunner) LastReport() *reconciler.Report {
	return r.report
}

type fakeSyncer struct {
	product *catalog.Product
	err     error
	called  []int64
}

func (s *fakeSyncer) SyncOne(_ context.Context, supplierID int64) (*catalog.Product, error) {
	s.called = append(s.called, supplierID)
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func newTestServer(r *fakeRunner, s *fakeSyncer) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = httputil.ErrorHandler
	RegisterRoutes(e, handler.NewHandler(context.Background(), r, s), testAppKey)
	return e
}

func do(e *echo.Echo, method, path string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorized {
		req.Header.Set(constants.HeaderAppKey, testAppKey)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRoutes_RequireAppKey(t *testing.T) {
	e := newTestServer(&fakeRunner{}, &fakeSyncer{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/sync"},
		{http.MethodGet, "/api/v1/sync"},
		{http.MethodPost, "/api/v1/sync/1"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(e, tc.method, tc.path, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestTriggerSync(t *testing.T) {
	r := &fakeRunner{}
	e := newTestServer(r, &fakeSyncer{})

	rec := do(e, http.MethodPost, "/api/v1/sync", true)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp model.SyncAcceptedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.ResultCode)
	assert.Equal(t, []runner.Trigger{runner.TriggerAPI}, r.starts)

	// 첫 실행이 끝나기 전의 두 번째 요청은 거부됩니다.
	rec = do(e, http.MethodPost, "/api/v1/sync", true)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, constants.ErrMsgSyncAlreadyRunning, decodeError(t, rec).Message)
	assert.Len(t, r.starts, 1)
}

func TestTriggerSync_UnexpectedError(t *testing.T) {
	e := newTestServer(&fakeRunner{startErr: fmt.Errorf("boom")}, &fakeSyncer{})

	rec := do(e, http.MethodPost, "/api/v1/sync", true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, constants.ErrMsgInternalServer, decodeError(t, rec).Message)
}

func TestSyncStatus(t *testing.T) {
	r := &fakeRunner{report: &reconciler.Report{RunID: "run-1", TotalCount: 2, SyncedCount: 2}}
	e := newTestServer(r, &fakeSyncer{})

	rec := do(e, http.MethodGet, "/api/v1/sync", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SyncStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Running)
	require.NotNil(t, resp.LastReport)
	assert.Equal(t, "run-1", resp.LastReport.RunID)
	assert.Equal(t, 2, resp.LastReport.SyncedCount)
}

func TestSyncProduct(t *testing.T) {
	s := &fakeSyncer{product: &catalog.Product{ID: "p-1", ExternalID: "ext-123", Name: "Classic Tee", Price: 28.99}}
	e := newTestServer(&fakeRunner{}, s)

	rec := do(e, http.MethodPost, "/api/v1/sync/123", true)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.SyncProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Product)
	assert.Equal(t, "ext-123", resp.Product.ExternalID)
	assert.Equal(t, 28.99, resp.Product.Price)
	assert.Equal(t, []int64{123}, s.called)
}

func TestSyncProduct_InvalidID(t *testing.T) {
	s := &fakeSyncer{}
	e := newTestServer(&fakeRunner{}, s)

	for _, id := range []string{"abc", "0", "-5"} {
		t.Run(id, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/sync/"+id, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, constants.ErrMsgInvalidSupplierID, decodeError(t, rec).Message)
		})
	}
	assert.Empty(t, s.called)
}

func TestSyncProduct_ErrorMapping(t *testing.T) {
	notFound := apperrors.Wrap(
		&supplier.StatusError{StatusCode: http.StatusNotFound, URL: "https://api.printful.com/store/products/9"},
		apperrors.SupplierUnavailable, "상품(9) 동기화 실패",
	)
	serverError := apperrors.Wrap(
		&supplier.StatusError{StatusCode: http.StatusInternalServerError, URL: "https://api.printful.com/store/products/9"},
		apperrors.SupplierUnavailable, "상품(9) 동기화 실패",
	)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "공급사 장애",
			err:      apperrors.New(apperrors.SupplierUnavailable, "503"),
			wantCode: http.StatusBadGateway,
			wantMsg:  constants.ErrMsgSupplierUnavailable,
		},
		{
			name:     "저장 실패",
			err:      apperrors.New(apperrors.PersistenceFailure, "insert"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  constants.ErrMsgPersistenceFailed,
		},
		{
			name:     "요청 취소",
			err:      context.DeadlineExceeded,
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  constants.ErrMsgServiceUnavailable,
		},
		{
			name:     "공급사에 없는 상품",
			err:      notFound,
			wantCode: http.StatusNotFound,
			wantMsg:  constants.ErrMsgSupplierNotFound,
		},
		{
			name:     "공급사 5xx 상태 에러",
			err:      serverError,
			wantCode: http.StatusBadGateway,
			wantMsg:  constants.ErrMsgSupplierUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&fakeRunner{}, &fakeSyncer{err: tt.err})

			rec := do(e, http.MethodPost, "/api/v1/sync/9", true)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
		})
	}
}
