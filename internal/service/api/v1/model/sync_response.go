// Package model v1 API의 응답 모델을 정의합니다.
package model

import (
	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/reconciler"
)

// SyncAcceptedResponse 전체 동기화 요청 접수 응답
type SyncAcceptedResponse struct {
	// ResultCode 처리 결과 코드 (0: 성공)
	ResultCode int `json:"result_code" example:"0"`

	// Message 처리 결과 메시지
	Message string `json:"message" example:"전체 동기화를 시작했습니다"`
}

// SyncStatusResponse 동기화 실행 상태 응답
type SyncStatusResponse struct {
	// Running 동기화 진행 여부
	Running bool `json:"running" example:"false"`

	// LastReport 가장 최근에 끝난 실행의 리포트 (실행 이력이 없으면 null)
	LastReport *reconciler.Report `json:"last_report"`
}

// SyncProductResponse 단건 동기화 결과 응답
type SyncProductResponse struct {
	// ResultCode 처리 결과 코드 (0: 성공)
	ResultCode int `json:"result_code" example:"0"`

	// Product 동기화된 카탈로그 상품
	Product *catalog.Product `json:"product"`
}
