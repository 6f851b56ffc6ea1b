//go:build !integration

package repoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRepoSlug(t *testing.T) {
	tests := []struct {
		slug      string
		owner     string
		repo      string
		expectErr bool
	}{
		{slug: "agenticqa/orbit", owner: "agenticqa", repo: "orbit"},
		{slug: " agenticqa/orbit ", owner: "agenticqa", repo: "orbit"},
		{slug: "agenticqa", expectErr: true},
		{slug: "agenticqa/", expectErr: true},
		{slug: "/orbit", expectErr: true},
		{slug: "a/b/c", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			owner, repo, err := SplitRepoSlug(tt.slug)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "expected owner/repo")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		expected  Repository
		expectErr bool
	}{
		{
			name:     "ssh scp form",
			remote:   "git@github.com:agenticqa/orbit.git",
			expected: Repository{Host: "github.com", Owner: "agenticqa", Name: "orbit"},
		},
		{
			name:     "https with suffix",
			remote:   "https://github.com/agenticqa/orbit.git",
			expected: Repository{Host: "github.com", Owner: "agenticqa", Name: "orbit"},
		},
		{
			name:     "https without suffix",
			remote:   "https://github.com/agenticqa/orbit\n",
			expected: Repository{Host: "github.com", Owner: "agenticqa", Name: "orbit"},
		},
		{
			name:     "ssh url on enterprise host",
			remote:   "ssh://git@ghe.example.com/platform/qa.git",
			expected: Repository{Host: "ghe.example.com", Owner: "platform", Name: "qa"},
		},
		{
			name:      "not a url",
			remote:    "/home/dev/orbit",
			expectErr: true,
		},
		{
			name:      "missing repository",
			remote:    "https://github.com/agenticqa",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := ParseRemoteURL(tt.remote)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, repo)
			assert.Equal(t, tt.expected.Owner+"/"+tt.expected.Name, repo.Slug())
		})
	}
}
