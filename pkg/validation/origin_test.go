package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		origin  string
		wantErr bool
	}{
		{"*", false},
		{"https://shop.example.com", false},
		{"http://localhost:3000", false},
		{"http://127.0.0.1:8080", false},
		{"http://[::1]:5173", false},

		{"", true},
		{" https://shop.example.com", true},
		{"ftp://shop.example.com", true},
		{"shop.example.com", true},
		{"https://shop.example.com/", true},
		{"https://shop.example.com/admin", true},
		{"https://shop.example.com?x=1", true},
		{"https://shop.example.com#top", true},
		{"https://user@shop.example.com", true},
		{"https://shop.example.com:0", true},
		{"https://shop.example.com:70000", true},
		{"https://shop.example.com:", true},
		{"https://-shop.example.com", true},
		{"https://shop..example.com", true},
		{"https://shop_1.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			t.Parallel()

			err := ValidateOrigin(tt.origin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHostname_Length(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHostname(strings.Repeat("a", 63)+".com"))
	assert.Error(t, ValidateHostname(strings.Repeat("a", 64)+".com"))
	assert.Error(t, ValidateHostname(strings.Repeat("a.", 127)+"com"))
	assert.Error(t, ValidateHostname(""))
}
