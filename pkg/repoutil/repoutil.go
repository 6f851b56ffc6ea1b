// Package repoutil parses repository slugs and git remote URLs.
package repoutil

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var log = logger.New("repoutil:repoutil")

// Repository identifies a repository on a GitHub host.
type Repository struct {
	Host  string
	Owner string
	Name  string
}

// Slug returns "owner/name".
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// SplitRepoSlug splits "owner/repo" into its parts.
func SplitRepoSlug(slug string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(slug), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		log.Printf("Invalid repo slug: %q", slug)
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", slug)
	}
	return parts[0], parts[1], nil
}

// ParseRemoteURL extracts host, owner and repository name from a git remote.
// Accepted forms:
//
//	git@github.com:owner/repo.git
//	ssh://git@ghe.example.com/owner/repo.git
//	https://github.com/owner/repo(.git)
func ParseRemoteURL(remote string) (Repository, error) {
	remote = strings.TrimSpace(remote)
	log.Printf("Parsing remote URL: %s", remote)

	var host, path string
	if user, rest, ok := strings.Cut(remote, "@"); ok && !strings.Contains(user, "://") {
		// scp-like syntax: git@host:owner/repo.git
		h, p, found := strings.Cut(rest, ":")
		if !found {
			return Repository{}, fmt.Errorf("unrecognised remote URL: %s", remote)
		}
		host, path = h, p
	} else {
		u, err := url.Parse(remote)
		if err != nil || u.Host == "" {
			return Repository{}, fmt.Errorf("unrecognised remote URL: %s", remote)
		}
		host, path = u.Hostname(), strings.TrimPrefix(u.Path, "/")
	}

	owner, name, err := SplitRepoSlug(strings.TrimSuffix(path, ".git"))
	if err != nil {
		return Repository{}, fmt.Errorf("remote %s does not point at a repository: %w", remote, err)
	}
	return Repository{Host: host, Owner: owner, Name: name}, nil
}
