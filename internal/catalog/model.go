package catalog

import "time"

// Product 카탈로그에 저장되는 상품 레코드입니다.
//
// ExternalID(공급사 상품 ID)가 기본 조회 키이며, ExternalID가 없는 과거 레코드는 상품명으로 조회합니다.
// Images와 Variants는 상품에 완전히 종속된 하위 레코드로, 동기화할 때마다 통째로 교체됩니다.
type Product struct {
	ID         string `db:"id" json:"id"`
	ExternalID string `db:"external_id" json:"external_id"`
	SKU        string `db:"sku" json:"sku"`

	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Brand       string `db:"brand" json:"brand"`
	Category    string `db:"category" json:"category"`
	Subcategory string `db:"subcategory" json:"subcategory"`

	Price            float64 `db:"price" json:"price"`
	SupplierCost     float64 `db:"supplier_cost" json:"supplier_cost"`
	Profit           float64 `db:"profit" json:"profit"`
	EstimatedCost    float64 `db:"estimated_cost" json:"estimated_cost"`
	EstimatedProfit  float64 `db:"estimated_profit" json:"estimated_profit"`
	SupplierEarnings float64 `db:"supplier_earnings" json:"supplier_earnings"`

	ImageSrc string `db:"image_src" json:"image_src"`
	ImageAlt string `db:"image_alt" json:"image_alt"`

	InStock    bool `db:"in_stock" json:"in_stock"`
	IsActive   bool `db:"is_active" json:"is_active"`
	StockCount int  `db:"stock_count" json:"stock_count"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Images   []Image   `db:"-" json:"images"`
	Variants []Variant `db:"-" json:"variants"`
}

// Image 상품 이미지 레코드입니다. SortOrder는 화면의 캐러셀 순서로 사용됩니다.
type Image struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	URL       string `db:"url" json:"url"`
	Alt       string `db:"alt" json:"alt"`
	SortOrder int    `db:"sort_order" json:"sort_order"`

	// SourceURL 공급사 원본 URL
	SourceURL string `db:"source_url" json:"source_url"`
}

// Variant 상품 변형 레코드입니다.
type Variant struct {
	ID         string `db:"id" json:"id"`
	ProductID  string `db:"product_id" json:"product_id"`
	ExternalID string `db:"external_id" json:"external_id"`

	Type  string `db:"type" json:"type"`
	Value string `db:"value" json:"value"`
	Color string `db:"color" json:"color"`

	Price        float64 `db:"price" json:"price"`
	SupplierCost float64 `db:"supplier_cost" json:"supplier_cost"`
	Profit       float64 `db:"profit" json:"profit"`

	InStock   bool `db:"in_stock" json:"in_stock"`
	SortOrder int  `db:"sort_order" json:"sort_order"`
}

// Clone 하위 레코드까지 복사한 사본을 반환합니다.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}

	c := *p
	if p.Images != nil {
		c.Images = append([]Image(nil), p.Images...)
	}
	if p.Variants != nil {
		c.Variants = append([]Variant(nil), p.Variants...)
	}
	return &c
}
