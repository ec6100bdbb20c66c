package supplier

import (
	"strconv"
	"strings"
)

// 공급사 API 응답 구조입니다. 이 파일 밖에서는 사용하지 않으며, 변환 후 types.go의 타입만 노출합니다.

type listResponse struct {
	Code   int           `json:"code"`
	Result []wireSummary `json:"result"`
	Paging struct {
		Total  int `json:"total"`
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"paging"`
}

type wireSummary struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsIgnored    bool   `json:"is_ignored"`
}

type detailResponse struct {
	Code   int `json:"code"`
	Result struct {
		SyncProduct  wireProduct   `json:"sync_product"`
		SyncVariants []wireVariant `json:"sync_variants"`
	} `json:"result"`
}

type wireProduct struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Category     *struct {
		Name string `json:"name"`
	} `json:"category"`
	Files []wireFile `json:"files"`
}

type wireVariant struct {
	ID                 int64      `json:"id"`
	ExternalID         string     `json:"external_id"`
	Name               string     `json:"name"`
	RetailPrice        string     `json:"retail_price"`
	Currency           string     `json:"currency"`
	Size               string     `json:"size"`
	Color              string     `json:"color"`
	AvailabilityStatus string     `json:"availability_status"`
	Files              []wireFile `json:"files"`
}

type wireFile struct {
	Type         string `json:"type"`
	URL          string `json:"url"`
	PreviewURL   string `json:"preview_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Filename     string `json:"filename"`
}

func (w wireSummary) toSummary() ProductSummary {
	return ProductSummary{
		ID:           w.ID,
		ExternalID:   w.ExternalID,
		Name:         strings.TrimSpace(w.Name),
		ThumbnailURL: w.ThumbnailURL,
		IsIgnored:    w.IsIgnored,
	}
}

func (r *detailResponse) toProduct() *Product {
	sp := r.Result.SyncProduct

	p := &Product{
		ID:           sp.ID,
		ExternalID:   sp.ExternalID,
		Name:         strings.TrimSpace(sp.Name),
		Description:  strings.TrimSpace(sp.Description),
		ThumbnailURL: sp.ThumbnailURL,
		Files:        toFiles(sp.Files),
		Variants:     make([]Variant, 0, len(r.Result.SyncVariants)),
	}
	if sp.Category != nil {
		p.Category = strings.TrimSpace(sp.Category.Name)
	}

	for _, wv := range r.Result.SyncVariants {
		p.Variants = append(p.Variants, Variant{
			ID:                 wv.ID,
			ExternalID:         wv.ExternalID,
			Name:               wv.Name,
			Size:               wv.Size,
			Color:              wv.Color,
			AvailabilityStatus: wv.AvailabilityStatus,
			RetailPrice:        parsePrice(wv.RetailPrice),
			Currency:           wv.Currency,
			Files:              toFiles(wv.Files),
		})
	}

	return p
}

func toFiles(in []wireFile) []File {
	if len(in) == 0 {
		return nil
	}

	out := make([]File, 0, len(in))
	for _, f := range in {
		out = append(out, File(f))
	}
	return out
}

// parsePrice "18.25" 같은 문자열 가격을 해석합니다. 해석할 수 없거나 음수이면 0을 반환합니다.
func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
