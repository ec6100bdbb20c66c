package reconciler

import (
	"fmt"
	"time"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

// Step 상품 단위 동기화에서 실패한 단계입니다.
type Step string

const (
	StepFetchDetail Step = "fetch_detail"
	StepPersist     Step = "persist"
)

// ProductError 한 상품의 동기화 실패 기록입니다.
type ProductError struct {
	// ProductRef 운영자가 식별할 수 있는 상품 표시 (이름과 공급사 ID)
	ProductRef string `json:"product_ref"`
	SupplierID int64  `json:"supplier_id"`
	Step       Step   `json:"step"`

	// Type 에러 분류 (SupplierUnavailable, PersistenceFailure 등)
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Report 한 번의 동기화 실행 결과입니다.
//
// SyncedCount + len(Errors) + SkippedCount == TotalCount 가 항상 성립합니다.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	TotalCount   int `json:"total_count"`
	SyncedCount  int `json:"synced_count"`
	CreatedCount int `json:"created_count"`
	UpdatedCount int `json:"updated_count"`

	// SkippedCount 실행이 취소되어 처리하지 못한 상품 수
	SkippedCount int `json:"skipped_count"`

	// ImageFailures 내려받지 못한 이미지 수 (상품 실패로 집계하지 않음)
	ImageFailures int `json:"image_failures"`

	// CatalogValue 이번 실행에서 동기화된 상품 판매가 합계 (USD)
	CatalogValue float64 `json:"catalog_value"`

	Errors   []ProductError `json:"errors"`
	Canceled bool           `json:"canceled"`

	// Error 상품 목록 조회 실패처럼 실행 전체가 시작되지 못한 경우의 사유
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

// NewFailedReport 실행 전체가 실패한 경우의 리포트를 생성합니다.
func NewFailedReport(runID string, startedAt, finishedAt time.Time, err error) *Report {
	return &Report{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Errors:     []ProductError{},
		Error:      err.Error(),
		ErrorType:  apperrors.UnderlyingType(err).String(),
	}
}

// Failed 실행 전체가 실패했는지 여부를 반환합니다.
func (r *Report) Failed() bool {
	return r.Error != ""
}

// Duration 실행에 걸린 시간을 반환합니다.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Clean 모든 상품이 실패 없이 동기화되었는지 여부를 반환합니다.
func (r *Report) Clean() bool {
	return !r.Failed() && !r.Canceled && len(r.Errors) == 0 && r.SyncedCount == r.TotalCount
}

func (r *Report) String() string {
	if r.Failed() {
		return fmt.Sprintf("동기화 실패 (%s): %s", r.ErrorType, r.Error)
	}
	return fmt.Sprintf("동기화 %d/%d (생성 %d, 갱신 %d, 실패 %d, 건너뜀 %d, 이미지 실패 %d)",
		r.SyncedCount, r.TotalCount, r.CreatedCount, r.UpdatedCount, len(r.Errors), r.SkippedCount, r.ImageFailures)
}

func productRef(name string, supplierID int64) string {
	if name == "" {
		return fmt.Sprintf("product #%d", supplierID)
	}
	return fmt.Sprintf("%s (#%d)", name, supplierID)
}
