package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		score int
		grade string
	}{
		{100, "A+"},
		{90, "A+"},
		{89, "A"},
		{85, "A"},
		{84, "A-"},
		{80, "A-"},
		{79, "B+"},
		{75, "B+"},
		{74, "B"},
		{70, "B"},
		{69, "B-"},
		{65, "B-"},
		{64, "C+"},
		{60, "C+"},
		{59, "C"},
		{55, "C"},
		{54, "C-"},
		{50, "C-"},
		{49, "D"},
		{0, "D"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.grade, GradeForScore(tc.score), "score %d", tc.score)
	}
}

func TestGradeForScoreOutOfRange(t *testing.T) {
	assert.Equal(t, "A+", GradeForScore(120))
	assert.Equal(t, "D", GradeForScore(-5))
}
