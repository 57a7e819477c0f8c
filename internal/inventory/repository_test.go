package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storelane/storelane/internal/platform/httpx"
)

func TestValidateReturnQuantity(t *testing.T) {
	tests := []struct {
		name           string
		sold, returned float64
		qty            float64
		wantErr        bool
	}{
		{"unsold product", 0, 0, 1, true},
		{"exceeds sold", 10, 0, 11, true},
		{"prior returns count against the cap", 10, 8, 3, true},
		{"exactly the remainder", 10, 8, 2, false},
		{"within the cap", 10, 0, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateReturnQuantity(tt.sold, tt.returned, tt.qty)
			if tt.wantErr {
				assert.True(t, errors.Is(err, httpx.ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}
