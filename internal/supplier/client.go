// Package supplier 공급사(Printful) REST API 클라이언트를 제공합니다.
//
// 공급사 응답의 JSON 구조를 아는 유일한 패키지이며, 나머지 패키지는 이 패키지가 반환하는
// ProductSummary, Product, Variant, File 타입만 사용합니다.
package supplier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"golang.org/x/time/rate"
)

const component = "supplier.client"

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxPages 공급사가 잘못된 paging.total을 보내도 무한 반복하지 않도록 하는 상한입니다.
	maxPages = 1000
)

// Config 공급사 API 클라이언트 설정입니다.
type Config struct {
	BaseURL  string
	APIKey   string
	PageSize int

	// RequestsPerSecond 0이면 요청 속도를 제한하지 않습니다.
	RequestsPerSecond float64
	Burst             int
}

// Client 공급사 REST API 클라이언트입니다. 여러 고루틴에서 동시에 사용할 수 있습니다.
//
// 클라이언트는 재시도를 수행하지 않습니다. 실패는 그대로 호출자에게 반환됩니다.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int

	fetcher fetcher.Fetcher
	limiter *rate.Limiter
}

// New 새로운 Client 인스턴스를 생성합니다.
// API 키가 없거나 BaseURL이 올바르지 않으면 ConfigurationError를 반환합니다.
func New(cfg Config, f fetcher.Fetcher) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperrors.New(apperrors.ConfigurationError, "공급사 API 키가 설정되지 않았습니다")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("공급사 API 주소가 올바르지 않습니다: '%s'", cfg.BaseURL))
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		pageSize: pageSize,
		fetcher:  f,
		limiter:  rate.NewLimiter(limit, max(cfg.Burst, 1)),
	}, nil
}

// ListProducts 스토어의 모든 상품 요약을 페이지 단위로 조회하여 반환합니다.
func (c *Client) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	var summaries []ProductSummary

	offset := 0
	for page := 0; page < maxPages; page++ {
		var resp listResponse

		endpoint := fmt.Sprintf("%s/store/products?limit=%d&offset=%d", c.baseURL, c.pageSize, offset)
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, newErrSupplier(err, "상품 목록 조회")
		}

		for _, s := range resp.Result {
			summaries = append(summaries, s.toSummary())
		}

		offset += len(resp.Result)
		if len(resp.Result) == 0 || offset >= resp.Paging.Total {
			break
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"count": len(summaries),
	}).Debug("공급사 상품 목록 조회 완료")

	return summaries, nil
}

// GetProductDetail 변형과 파일 정보를 포함한 상품 상세 정보를 조회합니다.
func (c *Client) GetProductDetail(ctx context.Context, supplierID int64) (*Product, error) {
	var resp detailResponse

	endpoint := c.baseURL + "/store/products/" + strconv.FormatInt(supplierID, 10)
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, newErrSupplier(err, fmt.Sprintf("상품(%d) 상세 조회", supplierID))
	}

	p := resp.toProduct()
	if p.ID == 0 {
		// 일부 응답은 sync_product.id를 생략하므로 요청한 ID로 보완합니다.
		p.ID = supplierID
	}
	if p.Name == "" {
		return nil, apperrors.New(apperrors.SupplierUnavailable, fmt.Sprintf("상품(%d) 상세 응답에 상품 이름이 없습니다", supplierID))
	}

	return p, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)
	header.Set("Accept", "application/json")

	return fetcher.FetchJSON(ctx, c.fetcher, endpoint, header, v)
}
