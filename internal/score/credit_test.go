package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibbench/ibbench/internal/score"
)

func TestCredit(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
	}{
		{0, 0},
		{0.49, 0},
		{0.50, 0.5},
		{0.75, 0.5},
		{0.89, 0.5},
		{0.90, 1.0},
		{1.0, 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, score.Credit(tt.percent), "percent=%v", tt.percent)
	}
}

func TestCreditMonotonic(t *testing.T) {
	prev := 0.0
	for p := 0.0; p <= 1.0; p += 0.01 {
		c := score.Credit(p)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
}

func TestCreditKey(t *testing.T) {
	assert.Equal(t, "0", score.CreditKey(0))
	assert.Equal(t, "0.5", score.CreditKey(0.5))
	assert.Equal(t, "1.0", score.CreditKey(1.0))
}
