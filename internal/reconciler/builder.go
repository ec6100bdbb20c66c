package reconciler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/imagecache"
	"github.com/darkkaiser/catalog-sync/internal/supplier"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

const (
	catalogCategory    = "printful"
	defaultSubcategory = "apparel"
	defaultStockCount  = 999
	defaultVariantType = "size"
	defaultVariantSize = "Default"
)

// snapshot 공급사 상품 하나를 카탈로그 레코드로 변환한 결과입니다.
type snapshot struct {
	product       *catalog.Product
	imageFailures int
}

// build 공급사 상품의 가격을 계산하고 이미지를 로컬에 확보하여 카탈로그 레코드를 만듭니다.
// 이미지 실패는 상품 실패로 이어지지 않으며, 성공한 이미지만 포함합니다.
func (r *Reconciler) build(ctx context.Context, sp *supplier.Product) *snapshot {
	var baseCost float64
	if base := sp.BaseVariant(); base != nil {
		baseCost = base.RetailPrice
	}
	price := r.pricer.Price(baseCost, sp.Category, sp.Name)

	sku := sp.ExternalID
	if sku == "" {
		sku = fmt.Sprintf("PF-%d", sp.ID)
	}

	description := sp.Description
	if description == "" {
		description = "High-quality " + sp.Name
	}

	subcategory := sp.Category
	if subcategory == "" {
		subcategory = defaultSubcategory
	}

	p := &catalog.Product{
		ExternalID:  strconv.FormatInt(sp.ID, 10),
		SKU:         sku,
		Name:        sp.Name,
		Description: description,
		Brand:       r.cfg.Brand,
		Category:    catalogCategory,
		Subcategory: subcategory,

		Price:            price.RetailPrice,
		SupplierCost:     price.SupplierCost,
		Profit:           price.Profit,
		EstimatedCost:    price.EstimatedCost,
		EstimatedProfit:  price.EstimatedProfit,
		SupplierEarnings: price.SupplierEarnings,

		ImageAlt:   sp.Name,
		InStock:    inStock(sp.Variants),
		IsActive:   true,
		StockCount: defaultStockCount,
	}

	images, failures := r.collectImages(ctx, sp)
	p.Images = images
	p.ImageSrc = r.cfg.PlaceholderImage
	if len(images) > 0 {
		p.ImageSrc = images[0].URL
	}

	p.Variants = make([]catalog.Variant, 0, len(sp.Variants))
	for i, v := range sp.Variants {
		vp := r.pricer.Price(v.RetailPrice, sp.Category, sp.Name)

		size := strings.TrimSpace(v.Size)
		if size == "" {
			size = defaultVariantSize
		}

		p.Variants = append(p.Variants, catalog.Variant{
			ExternalID:   strconv.FormatInt(v.ID, 10),
			Type:         defaultVariantType,
			Value:        size,
			Color:        v.Color,
			Price:        vp.RetailPrice,
			SupplierCost: vp.SupplierCost,
			Profit:       vp.Profit,
			InStock:      v.InStock(),
			SortOrder:    i,
		})
	}

	return &snapshot{product: p, imageFailures: failures}
}

// imageSource 내려받을 이미지 하나의 원격 위치와 캐시 키입니다.
type imageSource struct {
	url      string
	filename string
	key      imagecache.Key
}

// imageSources 썸네일, 변형별 목업 미리보기, 상품 파일 순서로 이미지 목록을 만듭니다. 같은 URL은 한 번만 포함합니다.
func imageSources(sp *supplier.Product) []imageSource {
	var sources []imageSource
	seen := make(map[string]struct{})

	add := func(url, filename string, variantID int64, slot string) {
		if url == "" {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		sources = append(sources, imageSource{
			url:      url,
			filename: filename,
			key:      imagecache.Key{ProductID: sp.ID, VariantID: variantID, Slot: slot},
		})
	}

	add(sp.ThumbnailURL, "", 0, "thumbnail")

	for _, v := range sp.Variants {
		for i := range v.Files {
			f := &v.Files[i]
			if !f.IsPreview() {
				continue
			}
			add(f.ImageURL(), f.Filename, v.ID, fmt.Sprintf("preview_%d", i))
		}
	}

	for i := range sp.Files {
		f := &sp.Files[i]
		add(f.ImageURL(), f.Filename, 0, fmt.Sprintf("file_%d", i))
	}

	return sources
}

func (r *Reconciler) collectImages(ctx context.Context, sp *supplier.Product) ([]catalog.Image, int) {
	sources := imageSources(sp)

	images := make([]catalog.Image, 0, len(sources))
	failures := 0
	for _, src := range sources {
		if ctx.Err() != nil {
			failures = len(sources) - len(images)
			break
		}

		localPath, err := r.images.EnsureLocal(ctx, src.url, src.key)
		if err != nil {
			failures++

			applog.WithComponentAndFields(component, applog.Fields{
				"supplier_id":  sp.ID,
				"product_name": sp.Name,
				"url":          src.url,
				"error":        err,
			}).Warn("이미지를 확보하지 못해 건너뜁니다")

			continue
		}

		images = append(images, catalog.Image{
			URL:       localPath,
			Alt:       imagecache.AltText(sp.Name, src.filename),
			SortOrder: len(images),
			SourceURL: src.url,
		})
	}

	return images, failures
}

// inStock 변형 정보가 없거나 판매 가능한 변형이 하나라도 있으면 true입니다.
func inStock(variants []supplier.Variant) bool {
	if len(variants) == 0 {
		return true
	}
	for i := range variants {
		if variants[i].InStock() {
			return true
		}
	}
	return false
}
