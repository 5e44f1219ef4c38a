package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageNames(t *testing.T) {
	tests := []struct {
		name   string
		images string
		want   []string
	}{
		{"empty", "", nil},
		{"blank entries dropped", " a.png, ,b.jpg,, ", []string{"a.png", "b.jpg"}},
		{"capped at five in order", "1.png,2.png,3.png,4.png,5.png,6.png,7.png", []string{"1.png", "2.png", "3.png", "4.png", "5.png"}},
		{"only separators", " , ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ScheduledPost{Images: tt.images}
			assert.Equal(t, tt.want, p.ImageNames())
		})
	}
}
