package supplier

// ProductSummary 목록 API가 반환하는 상품 요약 정보입니다. 변형(Variant)과 파일 정보는 포함하지 않습니다.
type ProductSummary struct {
	ID           int64
	ExternalID   string
	Name         string
	ThumbnailURL string
	IsIgnored    bool // 공급사 대시보드에서 동기화 제외로 표시된 상품
}

// Product 상세 API가 반환하는 상품 정보입니다.
type Product struct {
	ID           int64
	ExternalID   string
	Name         string
	Description  string
	Category     string // 공급사 카테고리 이름 (없으면 빈 문자열)
	ThumbnailURL string
	Files        []File // 상품 단위 파일
	Variants     []Variant
}

// BaseVariant 상품 대표 가격 산정에 사용하는 첫 번째 변형을 반환합니다. 변형이 없으면 nil입니다.
func (p *Product) BaseVariant() *Variant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// Variant 상품의 사이즈/색상별 변형입니다.
type Variant struct {
	ID                 int64
	ExternalID         string
	Name               string
	Size               string
	Color              string
	AvailabilityStatus string

	// RetailPrice 공급사가 "소매가"로 표시하는 가격 (공급사 측 마진 포함). 값이 없거나 해석할 수 없으면 0입니다.
	RetailPrice float64
	Currency    string

	Files []File
}

// InStock 공급사가 판매 가능 상태로 표시한 변형인지 여부를 반환합니다.
func (v *Variant) InStock() bool {
	return v.AvailabilityStatus == "active"
}

// File 변형 또는 상품에 연결된 이미지 파일입니다.
type File struct {
	Type         string // "default", "preview", "back" 등
	URL          string
	PreviewURL   string
	ThumbnailURL string
	Filename     string
}

// ImageURL 로컬에 저장할 이미지 URL을 반환합니다. 목업 미리보기를 우선합니다.
func (f *File) ImageURL() string {
	switch {
	case f.PreviewURL != "":
		return f.PreviewURL
	case f.ThumbnailURL != "":
		return f.ThumbnailURL
	default:
		return f.URL
	}
}

// IsPreview 목업 미리보기 파일인지 여부를 반환합니다.
func (f *File) IsPreview() bool {
	return f.Type == "preview" || f.PreviewURL != ""
}
