package catalog

import (
	"fmt"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

var (
	// ErrProductNotFound 조회 조건에 일치하는 상품이 없을 때 반환되는 에러입니다.
	ErrProductNotFound = apperrors.New(apperrors.NotFound, "상품을 찾을 수 없습니다")

	// ErrDuplicateExternalID 같은 공급사 ID를 가진 상품이 이미 있을 때 반환되는 에러입니다.
	ErrDuplicateExternalID = apperrors.New(apperrors.Conflict, "같은 공급사 ID를 가진 상품이 이미 존재합니다")
)

// NewErrPersistence 저장소 쓰기 실패를 PersistenceFailure 에러로 감쌉니다.
func NewErrPersistence(err error, op string, productID string) error {
	return apperrors.Wrap(err, apperrors.PersistenceFailure, fmt.Sprintf("카탈로그 저장소 작업(%s)이 실패했습니다 (상품 ID: %s)", op, productID))
}
