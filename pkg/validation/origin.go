package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	maxHostnameLength = 253
	maxLabelLength    = 63
)

// ValidateOrigin 관리자 API의 CORS 허용 출처로 사용할 수 있는 값인지 검증합니다.
//
// '*' 또는 'scheme://host[:port]' 형식만 허용합니다. 스키마는 http, https만 가능하며
// 경로, 쿼리, 프래그먼트, 사용자 정보를 포함하면 안 됩니다.
func ValidateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	if strings.TrimSpace(origin) != origin || origin == "" {
		return fmt.Errorf("허용 출처는 비어 있거나 공백을 포함할 수 없습니다 (origin=%q)", origin)
	}

	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("허용 출처를 URL로 해석할 수 없습니다 (origin=%q): %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("허용 출처의 스키마는 http 또는 https여야 합니다 (origin=%q)", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil || strings.HasSuffix(origin, "?") || strings.HasSuffix(origin, "#") {
		return fmt.Errorf("허용 출처는 scheme://host[:port] 형식이어야 합니다 (origin=%q)", origin)
	}

	if port := u.Port(); port != "" {
		if err := validatePort(port); err != nil {
			return fmt.Errorf("허용 출처의 포트가 올바르지 않습니다 (origin=%q): %w", origin, err)
		}
	} else if strings.HasSuffix(u.Host, ":") {
		return fmt.Errorf("허용 출처의 포트가 비어 있습니다 (origin=%q)", origin)
	}

	return ValidateHostname(u.Hostname())
}

// ValidateHostname localhost, IP 주소 또는 RFC 1123 형식의 호스트명인지 검증합니다.
func ValidateHostname(host string) error {
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}
	if host == "" || len(host) > maxHostnameLength {
		return fmt.Errorf("호스트명 길이가 올바르지 않습니다 (host=%q)", host)
	}

	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > maxLabelLength {
			return fmt.Errorf("호스트명의 레이블 길이가 올바르지 않습니다 (host=%q)", host)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("레이블은 하이픈으로 시작하거나 끝날 수 없습니다 (label=%q)", label)
		}
		for _, r := range label {
			if !isHostnameRune(r) {
				return fmt.Errorf("호스트명에 허용되지 않는 문자가 있습니다 (label=%q)", label)
			}
		}
	}

	return nil
}

func isHostnameRune(r rune) bool {
	return r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func validatePort(port string) error {
	n := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return fmt.Errorf("숫자가 아닙니다 (port=%q)", port)
		}
		n = n*10 + int(r-'0')
		if n > 65535 {
			return fmt.Errorf("포트 범위(1-65535)를 벗어났습니다 (port=%q)", port)
		}
	}
	if n < 1 {
		return fmt.Errorf("포트 범위(1-65535)를 벗어났습니다 (port=%q)", port)
	}
	return nil
}
