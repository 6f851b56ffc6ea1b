//go:build !integration

package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"pipeline_type", "pipeline_type", 0},
		{"pipeline_typ", "pipeline_type", 1},
		{"pipline_type", "pipeline_type", 1},
		{"kitten", "sitting", 3},
		{"héllo", "hello", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"->"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFindClosestMatches(t *testing.T) {
	candidates := []string{"pipeline_type", "pipeline_name", "run_tests", "target_url"}

	tests := []struct {
		name   string
		target string
		max    int
		want   []string
	}{
		{
			name:   "single typo",
			target: "pipeline_typ",
			max:    3,
			want:   []string{"pipeline_type"},
		},
		{
			name:   "closest first",
			target: "pipeline_nype",
			max:    3,
			want:   []string{"pipeline_type", "pipeline_name"},
		},
		{
			name:   "max caps results",
			target: "pipeline_nype",
			max:    1,
			want:   []string{"pipeline_type"},
		},
		{
			name:   "case-insensitive",
			target: "RUN_TESTS",
			max:    3,
			want:   []string{"run_tests"},
		},
		{
			name:   "nothing close",
			target: "environment",
			max:    3,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindClosestMatches(tt.target, candidates, tt.max, 3))
		})
	}
}
