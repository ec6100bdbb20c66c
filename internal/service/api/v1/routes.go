// Package v1 관리 API의 v1 버전 라우트를 정의합니다.
//
// 주요 엔드포인트:
//   - POST /api/v1/sync      - 전체 동기화 시작 (비동기)
//   - GET  /api/v1/sync      - 동기화 실행 상태 조회
//   - POST /api/v1/sync/:id  - 단일 상품 동기화 (동기)
//
// 모든 엔드포인트는 X-App-Key 헤더 인증을 요구합니다.
package v1

import (
	"github.com/darkkaiser/catalog-sync/internal/service/api/middleware"
	"github.com/darkkaiser/catalog-sync/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 등록합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, appKey string) {
	v1Group := e.Group("/api/v1", middleware.RequireAppKey(appKey))

	v1Group.POST("/sync", h.TriggerSyncHandler)
	v1Group.GET("/sync", h.SyncStatusHandler)
	v1Group.POST("/sync/:id", h.SyncProductHandler)
}
