package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0 นาที"},
		{45, "45 นาที"},
		{60, "1 ชม."},
		{65, "1 ชม. 5 นาที"},
		{120, "2 ชม."},
		{125, "2 ชม. 5 นาที"},
		{-10, "0 นาที"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatDuration(tc.minutes), "minutes=%d", tc.minutes)
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "go-basics", want: "go-basics"},
		{raw: "  go-basics ", want: "go-basics"},
		{raw: "%E0%B8%A0%E0%B8%B2%E0%B8%A9%E0%B8%B2", want: "ภาษา"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "%20", wantErr: true},
		{raw: "bad%zz", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ValidateSlug(tc.raw)
		if tc.wantErr {
			assert.Equal(t, ErrNotFound, err, "raw=%q", tc.raw)
			assert.Empty(t, got)
			continue
		}
		assert.NoError(t, err, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got)
	}
}
