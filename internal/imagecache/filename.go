package imagecache

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// defaultExt 원격 URL에서 확장자를 알 수 없을 때 사용하는 확장자입니다.
const defaultExt = ".jpg"

var allowedExts = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpeg",
	".png":  ".png",
	".webp": ".webp",
	".gif":  ".gif",
}

// slotReplacer 슬롯 이름에 남아 있을 수 있는 경로 구분자와 예약 문자를 치환합니다.
var slotReplacer = strings.NewReplacer(
	"..", "__",
	"/", "_",
	"\\", "_",
	"|", "_",
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"?", "_",
	"*", "_",
)

// Key 캐시 항목의 논리적 식별자입니다. 같은 Key는 실행마다 항상 같은 파일명으로 해석됩니다.
type Key struct {
	ProductID int64

	// VariantID 상품 단위 이미지(썸네일, 상품 파일)는 0입니다.
	VariantID int64

	// Slot 상품/변형 안에서 이미지의 역할 ("thumbnail", "preview", "file_2" 등)
	Slot string
}

// Filename Key와 원격 URL의 확장자로 결정적인 파일명을 생성합니다.
//
//	product_{productID}_variant_{variantID}_{slot}{ext}
func Filename(key Key, remoteURL string) string {
	slot := sanitizeSlot(key.Slot)
	if slot == "" {
		slot = "image"
	}

	return fmt.Sprintf("product_%d_variant_%d_%s%s", key.ProductID, key.VariantID, slot, extensionOf(remoteURL))
}

// sanitizeSlot 슬롯 이름을 snake_case로 정제합니다.
func sanitizeSlot(s string) string {
	snake := strcase.ToSnake(strings.TrimSpace(s))

	snake = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '_'
		}
		return r
	}, snake)

	return truncateByBytes(slotReplacer.Replace(snake), 64)
}

// extensionOf 원격 URL 경로의 확장자를 반환합니다. 알 수 없는 확장자는 defaultExt로 대체합니다.
func extensionOf(remoteURL string) string {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return defaultExt
	}

	if ext, ok := allowedExts[strings.ToLower(path.Ext(u.Path))]; ok {
		return ext
	}
	return defaultExt
}

// truncateByBytes UTF-8 문자가 잘리지 않도록 바이트 길이 기준으로 문자열을 자릅니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	n := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		if n+size > limit {
			break
		}
		n += size
		i += size
	}

	return s[:n]
}
