// Package catalog 로컬 상품 카탈로그의 모델과 저장소 인터페이스를 정의합니다.
package catalog

import "context"

// Tx 한 상품의 조회와 쓰기를 수행하는 작업 단위입니다.
//
// Find 계열 메서드는 하위 레코드(Images, Variants)를 채우지 않으며,
// 일치하는 상품이 없으면 ErrProductNotFound를 반환합니다.
type Tx interface {
	FindByExternalID(ctx context.Context, externalID string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)

	// Create ID, CreatedAt, UpdatedAt이 비어 있으면 채운 뒤 상품을 추가합니다. 하위 레코드는 저장하지 않습니다.
	Create(ctx context.Context, p *Product) error

	// Update 상품의 스칼라 필드를 갱신합니다. 하위 레코드는 건드리지 않습니다.
	Update(ctx context.Context, p *Product) error

	DeleteChildren(ctx context.Context, productID string) error

	// InsertChildren 하위 레코드를 추가합니다. 비어 있는 ID와 ProductID는 전달된 슬라이스의 원소에 직접 채워집니다.
	InsertChildren(ctx context.Context, productID string, images []Image, variants []Variant) error
}

// Store 카탈로그 저장소입니다.
type Store interface {
	Tx

	// WithinTx fn을 하나의 트랜잭션으로 실행합니다. fn이 에러를 반환하면 모든 변경이 취소됩니다.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// Get 하위 레코드를 포함한 상품을 조회합니다.
	Get(ctx context.Context, id string) (*Product, error)

	Count(ctx context.Context) (int, error)

	Close() error
}
