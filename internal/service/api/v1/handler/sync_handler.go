// Package handler v1 관리 API 핸들러를 제공합니다.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/httputil"
	"github.com/darkkaiser/catalog-sync/internal/service/api/v1/model"
	"github.com/darkkaiser/catalog-sync/internal/service/runner"
	"github.com/darkkaiser/catalog-sync/internal/supplier"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
)

// SyncRunner 전체 동기화 실행기입니다. *runner.Runner가 구현합니다.
type SyncRunner interface {
	Start(ctx context.Context, trigger runner.Trigger) error
	Running() bool
	LastReport() *reconciler.Report
}

// ProductSyncer 단일 상품 동기화를 수행합니다. *reconciler.Reconciler가 구현합니다.
type ProductSyncer interface {
	SyncOne(ctx context.Context, supplierID int64) (*catalog.Product, error)
}

// Handler v1 동기화 API 핸들러입니다.
type Handler struct {
	// runCtx 백그라운드 동기화에 넘길 컨텍스트. 요청 컨텍스트는 응답과 함께 취소되므로 서비스 수명의 컨텍스트를 사용합니다.
	runCtx context.Context

	runner SyncRunner
	syncer ProductSyncer
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(runCtx context.Context, r SyncRunner, s ProductSyncer) *Handler {
	if r == nil {
		panic(constants.PanicMsgSyncRunnerRequired)
	}
	if s == nil {
		panic(constants.PanicMsgProductSyncerRequired)
	}

	return &Handler{
		runCtx: runCtx,
		runner: r,
		syncer: s,
	}
}

// TriggerSyncHandler godoc
// @Summary 전체 카탈로그 동기화 시작
// @Description 공급사 카탈로그 전체 동기화를 백그라운드에서 시작합니다.
// @Description 이미 동기화가 진행 중이면 409를 반환합니다. 결과는 GET /api/v1/sync 또는 운영자 알림으로 확인합니다.
// @Tags Sync
// @Produce json
// @Param X-App-Key header string true "관리 API 키"
// @Success 202 {object} model.SyncAcceptedResponse "동기화 시작"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Failure 409 {object} response.ErrorResponse "이미 실행 중"
// @Router /api/v1/sync [post]
func (h *Handler) TriggerSyncHandler(c echo.Context) error {
	if err := h.runner.Start(h.runCtx, runner.TriggerAPI); err != nil {
		if errors.Is(err, runner.ErrAlreadyRunning) {
			return httputil.NewConflictError(constants.ErrMsgSyncAlreadyRunning)
		}
		return err
	}

	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"remote_ip":  c.RealIP(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	}).Info("관리 API 요청으로 전체 동기화를 시작합니다")

	return c.JSON(http.StatusAccepted, model.SyncAcceptedResponse{
		ResultCode: 0,
		Message:    "전체 동기화를 시작했습니다",
	})
}

// SyncStatusHandler godoc
// @Summary 동기화 실행 상태 조회
// @Description 동기화 진행 여부와 가장 최근 실행의 리포트를 반환합니다.
// @Tags Sync
// @Produce json
// @Param X-App-Key header string true "관리 API 키"
// @Success 200 {object} model.SyncStatusResponse "실행 상태"
// @Failure 401 {object} response.ErrorResponse "인증 실패"
// @Router /api/v1/sync [get]
func (h *Handler) SyncStatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, model.SyncStatusResponse{
		Running:    h.runner.Running(),
		LastReport: h.runner.LastReport(),
	})
}

// SyncProductHandler godoc
// @Summary 단일 상품 동기화
// @Description 공급사 상품 하나를 즉시 동기화하고 저장된 카탈로그 상품을 반환합니다.
// @Tags Sync
// @Produce json
// @Param X-App-Key header string true "관리 API 키"
// @Param id path int true "공급사 상품 ID"
// @Success 200 {object} model.SyncProductResponse "동기화된 상품"
// @Failure 400 {object} response.ErrorResponse "잘못된 상품 ID"
// @Failure 404 {object} response.ErrorResponse "공급사에 상품 없음"
// @Failure 502 {object} response.ErrorResponse "공급사 API 장애"
// @Failure 500 {object} response.ErrorResponse "저장 실패"
// @Router /api/v1/sync/{id} [post]
func (h *Handler) SyncProductHandler(c echo.Context) error {
	supplierID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || supplierID <= 0 {
		return httputil.NewBadRequestError(constants.ErrMsgInvalidSupplierID)
	}

	product, err := h.syncer.SyncOne(c.Request().Context(), supplierID)
	if err != nil {
		applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
			"supplier_id": supplierID,
			"error":       err,
		}).Warn("단일 상품 동기화 실패")

		return translateSyncError(err)
	}

	return c.JSON(http.StatusOK, model.SyncProductResponse{
		ResultCode: 0,
		Product:    product,
	})
}

// translateSyncError 동기화 에러를 HTTP 응답 에러로 변환합니다.
func translateSyncError(err error) error {
	var statusErr *supplier.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return httputil.NewNotFoundError(constants.ErrMsgSupplierNotFound)
	}

	switch {
	case apperrors.Is(err, apperrors.SupplierUnavailable):
		return httputil.NewBadGatewayError(constants.ErrMsgSupplierUnavailable)
	case apperrors.Is(err, apperrors.PersistenceFailure):
		return httputil.NewInternalServerError(constants.ErrMsgPersistenceFailed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return httputil.NewServiceUnavailableError(constants.ErrMsgServiceUnavailable)
	}

	return err
}
