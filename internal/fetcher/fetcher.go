// Package fetcher 외부 HTTP 호출에 공통으로 사용하는 데코레이터 체인을 제공합니다.
//
// 체인은 바깥쪽부터 Logging → Retry → StatusCode → MaxBytes → HTTP 순서로 조립되며,
// 공급사 API 클라이언트와 이미지 캐시가 각자의 정책(재시도 여부, 본문 크기 제한)으로 구성해 사용합니다.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

const component = "fetcher"

// Fetcher HTTP 요청을 수행하는 핵심 인터페이스입니다.
//
// 반환된 응답 객체의 Body는 호출자가 닫아야 합니다.
// 에러를 반환하는 경우 각 구현체가 응답 Body를 정리하므로 응답은 항상 nil입니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 HTTP GET 요청을 전송합니다.
func Get(ctx context.Context, f Fetcher, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 요청 생성에 실패했습니다 (URL: %s)", redactRawURL(url)))
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// FetchJSON GET 요청을 수행하고 응답 본문(JSON)을 v로 디코딩합니다.
func FetchJSON(ctx context.Context, f Fetcher, url string, header http.Header, v any) error {
	resp, err := Get(ctx, f, url, header)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if apperrors.Is(err, apperrors.InvalidInput) {
			// 본문 크기 제한 초과
			return err
		}
		return apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("응답 데이터의 JSON 변환에 실패했습니다 (URL: %s)", redactRawURL(url)))
	}

	// 다음 요청에서 커넥션을 재사용할 수 있도록 남은 본문을 비웁니다.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return nil
}
