// Package strutil 메시지 조립에 사용하는 문자열 유틸리티 함수들을 제공합니다.
package strutil

import (
	"strings"
	"unicode/utf8"
)

// NormalizeSpaces 문자열의 앞뒤 공백을 제거하고 연속된 공백(줄바꿈 포함)을 하나로 축약합니다.
// 예: "  hello \n  world  " -> "hello world"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate 문자열을 최대 limit 글자(rune)로 자르고, 잘린 경우 끝에 "..."을 붙입니다.
// limit이 0 이하이면 빈 문자열을 반환합니다.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// SafeSplit 문자열을 maxBytes 이하의 앞부분과 나머지로 나눕니다. UTF-8 문자 중간에서는 자르지 않습니다.
func SafeSplit(s string, maxBytes int) (head, tail string) {
	if len(s) <= maxBytes {
		return s, ""
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		// maxBytes보다 긴 단일 문자
		_, size := utf8.DecodeRuneInString(s)
		cut = size
	}

	return s[:cut], s[cut:]
}
