package cli

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/cli/go-gh/v2/pkg/repository"

	"github.com/agenticqa/gh-preflight/pkg/logger"
	"github.com/agenticqa/gh-preflight/pkg/repoutil"
)

var repoLog = logger.New("cli:repo")

// repoCacheState holds the detected repository and protects it with a mutex.
type repoCacheState struct {
	mu   sync.Mutex
	repo repoutil.Repository
	err  error
	done bool
}

var currentRepoCache repoCacheState

// currentRepoDetector is replaced in tests.
var currentRepoDetector = detectCurrentRepo

// ClearCurrentRepoCache forgets the detected repository.
func ClearCurrentRepoCache() {
	currentRepoCache.mu.Lock()
	defer currentRepoCache.mu.Unlock()
	currentRepoCache.repo = repoutil.Repository{}
	currentRepoCache.err = nil
	currentRepoCache.done = false
}

// detectCurrentRepo finds the repository of the working directory: first the
// way gh does it (GH_REPO, then git remotes), then by parsing origin.
func detectCurrentRepo() (repoutil.Repository, error) {
	repoLog.Print("Detecting current repository via go-gh")
	r, err := repository.Current()
	if err == nil {
		repoLog.Printf("Detected repository: %s/%s on %s", r.Owner, r.Name, r.Host)
		return repoutil.Repository{Host: r.Host, Owner: r.Owner, Name: r.Name}, nil
	}
	repoLog.Printf("go-gh could not determine the repository: %v", err)

	output, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return repoutil.Repository{}, fmt.Errorf("failed to determine the current repository (use --repo owner/repo): %w", err)
	}
	return repoutil.ParseRemoteURL(strings.TrimSpace(string(output)))
}

// CurrentRepo returns the working directory's repository, detected once.
func CurrentRepo() (repoutil.Repository, error) {
	currentRepoCache.mu.Lock()
	defer currentRepoCache.mu.Unlock()
	if !currentRepoCache.done {
		currentRepoCache.repo, currentRepoCache.err = currentRepoDetector()
		currentRepoCache.done = true
	}
	return currentRepoCache.repo, currentRepoCache.err
}

// ResolveRepo returns slug as a repository on host, or the current
// repository when slug is empty.
func ResolveRepo(slug, host string) (repoutil.Repository, error) {
	if slug != "" {
		owner, name, err := repoutil.SplitRepoSlug(slug)
		if err != nil {
			return repoutil.Repository{}, err
		}
		return repoutil.Repository{Host: host, Owner: owner, Name: name}, nil
	}
	r, err := CurrentRepo()
	if err != nil {
		return repoutil.Repository{}, err
	}
	if r.Host == "" {
		r.Host = host
	}
	return r, nil
}
