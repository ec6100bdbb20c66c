// Package validation 설정 값처럼 외부에서 들어오는 문자열의 형식을 검증합니다.
package validation
