package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     OffsetParams
		expect OffsetParams
	}{
		{"defaults", OffsetParams{}, OffsetParams{Limit: DefaultLimit}},
		{"keeps valid", OffsetParams{Limit: 5, Offset: 20}, OffsetParams{Limit: 5, Offset: 20}},
		{"caps limit", OffsetParams{Limit: 1000}, OffsetParams{Limit: MaxLimit}},
		{"negative offset", OffsetParams{Limit: 3, Offset: -4}, OffsetParams{Limit: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			assert.Equal(t, tt.expect, p)
		})
	}
}

func TestNewOffsetResult(t *testing.T) {
	params := &OffsetParams{Limit: 2, Offset: 2}

	res := NewOffsetResult[int](nil, params, 5)
	assert.NotNil(t, res.Items)
	assert.Equal(t, int64(5), res.TotalCount)
	assert.True(t, res.HasNext)

	res = NewOffsetResult([]int{1}, &OffsetParams{Limit: 2, Offset: 4}, 5)
	assert.False(t, res.HasNext)
}
