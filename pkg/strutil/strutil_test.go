package strutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpaces(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{"빈 문자열", "", ""},
		{"변경 없음", "상품 동기화", "상품 동기화"},
		{"앞뒤 공백", "  hello  ", "hello"},
		{"연속 공백과 줄바꿈", "a   b\n\n c\t d", "a b c d"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, NormalizeSpaces(c.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		in       string
		limit    int
		expected string
	}{
		{"제한 이하", "hello", 5, "hello"},
		{"영문 자르기", "hello world", 5, "hello..."},
		{"한글 자르기", "가나다라마", 2, "가나..."},
		{"0 제한", "hello", 0, ""},
		{"음수 제한", "hello", -1, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, Truncate(c.in, c.limit))
		})
	}
}

func TestSafeSplit(t *testing.T) {
	t.Parallel()

	head, tail := SafeSplit("abcdef", 10)
	assert.Equal(t, "abcdef", head)
	assert.Empty(t, tail)

	head, tail = SafeSplit("abcdef", 4)
	assert.Equal(t, "abcd", head)
	assert.Equal(t, "ef", tail)

	// "가"는 3바이트이므로 4바이트 경계에서 자르면 첫 글자만 남습니다.
	head, tail = SafeSplit("가나다", 4)
	assert.Equal(t, "가", head)
	assert.Equal(t, "나다", tail)

	head, tail = SafeSplit("가나", 2)
	assert.Equal(t, "가", head)
	assert.Equal(t, "나", tail)

	long := strings.Repeat("한", 1000)
	for len(long) > 0 {
		var chunk string
		chunk, long = SafeSplit(long, 100)
		assert.LessOrEqual(t, len(chunk), 100)
		assert.True(t, utf8.ValidString(chunk))
	}
}
