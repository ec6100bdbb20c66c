package imagecache

import "strings"

// ViewLabel 공급사 파일명에서 "Front View" 같은 보기 라벨을 추정합니다.
//
// 파일명은 공급사가 정하는 값이라 안정적이지 않으므로 결과는 대체 텍스트 용도로만 사용해야 합니다.
// 일치하는 키워드가 없으면 빈 문자열을 반환합니다.
func ViewLabel(filename string) string {
	name := strings.ToLower(filename)

	switch {
	case strings.Contains(name, "front"):
		return "Front View"
	case strings.Contains(name, "back"):
		return "Back View"
	case strings.Contains(name, "side"):
		return "Side View"
	default:
		return ""
	}
}

// AltText 상품 이름과 보기 라벨로 이미지 대체 텍스트를 만듭니다.
func AltText(productName, filename string) string {
	if label := ViewLabel(filename); label != "" {
		return productName + " - " + label
	}
	return productName
}
