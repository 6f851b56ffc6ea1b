// Package ghapi talks to the GitHub REST API on behalf of gh preflight:
// reading workflow files, dispatching runs and locating the runs it created.
// Failures are classified into the error types of package dispatch so that
// callers can tell a missing workflow apart from a rejected credential.
package ghapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"

	"github.com/agenticqa/gh-preflight/pkg/constants"
	"github.com/agenticqa/gh-preflight/pkg/dispatch"
	"github.com/agenticqa/gh-preflight/pkg/logger"
)

var clientLog = logger.New("ghapi:client")

// Options configures a Client.
type Options struct {
	// Host is the GitHub host, github.com when empty.
	Host string
	// Token is the credential. When empty the gh CLI's credential for Host
	// is used.
	Token string
	// Ref is the branch, tag or SHA workflow files are read from. Empty means
	// the repository's default branch.
	Ref string
	// Transport overrides the HTTP transport, for tests.
	Transport http.RoundTripper
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// Client is a GitHub REST client. It implements dispatch.ContentFetcher.
type Client struct {
	rest *api.RESTClient
	// raw asks for file bodies as-is; the contents API omits the base64
	// content of files over 1 MB.
	raw  *api.RESTClient
	host string
	ref  string
}

// ResolveToken returns explicit when set, otherwise the token gh would use for
// host (GH_TOKEN, GITHUB_TOKEN, then the gh CLI's stored credential).
func ResolveToken(explicit, host string) (token, source string) {
	if explicit != "" {
		return explicit, "flag"
	}
	if host == "" {
		host = constants.DefaultHost
	}
	return auth.TokenForHost(host)
}

// NewClient creates a Client.
func NewClient(opts Options) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = constants.DefaultHost
	}
	token, source := ResolveToken(opts.Token, host)
	if token == "" {
		return nil, fmt.Errorf("no GitHub credential found for %s: run 'gh auth login' or set GH_TOKEN", host)
	}
	clientLog.Printf("Creating REST client: host=%s, token_source=%s, ref=%q", host, source, opts.Ref)

	clientOpts := api.ClientOptions{
		AuthToken:    token,
		Host:         host,
		Transport:    opts.Transport,
		Timeout:      opts.Timeout,
		LogIgnoreEnv: true,
	}
	rest, err := api.NewRESTClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	clientOpts.Headers = map[string]string{"Accept": rawMediaType}
	raw, err := api.NewRESTClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &Client{rest: rest, raw: raw, host: host, ref: opts.Ref}, nil
}

// Host returns the GitHub host the client talks to.
func (c *Client) Host() string {
	return c.host
}

const rawMediaType = "application/vnd.github.raw"

type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	Path     string `json:"path"`
}

// FetchFile returns the content of filePath at the client's ref. A path
// that names a directory, symlink or submodule is reported as a
// *dispatch.NotFoundError since no workflow file lives there.
func (c *Client) FetchFile(ctx context.Context, owner, repo, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, escapePath(filePath))
	if c.ref != "" {
		endpoint += "?ref=" + url.QueryEscape(c.ref)
	}
	slug := owner + "/" + repo
	clientLog.Printf("Fetching file: %s", endpoint)

	var body json.RawMessage
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return nil, classify(err, slug, filePath)
	}
	// Directories come back as a listing.
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		return nil, &dispatch.NotFoundError{Repo: slug, Path: filePath, Err: errors.New("path is a directory")}
	}

	var resp contentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode contents of %s in %s: %w", filePath, slug, err)
	}
	if resp.Type != "file" {
		return nil, &dispatch.NotFoundError{Repo: slug, Path: filePath, Err: fmt.Errorf("path is a %s, not a file", resp.Type)}
	}

	switch resp.Encoding {
	case "base64":
		content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
		}
		clientLog.Printf("Fetched %s (%d bytes)", filePath, len(content))
		return content, nil
	case "none", "":
		clientLog.Printf("Contents of %s omitted, fetching raw", filePath)
		return c.fetchRaw(ctx, endpoint, slug, filePath)
	default:
		return nil, fmt.Errorf("%s in %s has unsupported encoding %q", filePath, slug, resp.Encoding)
	}
}

func (c *Client) fetchRaw(ctx context.Context, endpoint, slug, filePath string) ([]byte, error) {
	resp, err := c.raw.RequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, classify(err, slug, filePath)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", filePath, slug, err)
	}
	clientLog.Printf("Fetched %s raw (%d bytes)", filePath, len(content))
	return content, nil
}

// DefaultBranch returns the repository's default branch.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	var resp struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.rest.DoWithContext(ctx, http.MethodGet, fmt.Sprintf("repos/%s/%s", owner, repo), nil, &resp); err != nil {
		return "", classify(err, owner+"/"+repo, "")
	}
	if resp.DefaultBranch == "" {
		return "", fmt.Errorf("repository %s/%s reported no default branch", owner, repo)
	}
	return resp.DefaultBranch, nil
}

// DispatchRejectedError means GitHub refused a workflow_dispatch request,
// typically because the inputs did not match what the workflow declares on
// the dispatched ref.
type DispatchRejectedError struct {
	Workflow string
	Message  string
}

func (e *DispatchRejectedError) Error() string {
	return fmt.Sprintf("GitHub rejected the dispatch of %s: %s", e.Workflow, e.Message)
}

// DispatchWorkflow triggers workflowFile on ref with inputs. inputs is sent
// as given.
func (c *Client) DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, ref string, inputs map[string]any) error {
	if inputs == nil {
		inputs = map[string]any{}
	}
	body, err := json.Marshal(struct {
		Ref    string         `json:"ref"`
		Inputs map[string]any `json:"inputs"`
	}{Ref: ref, Inputs: inputs})
	if err != nil {
		return fmt.Errorf("failed to encode dispatch request: %w", err)
	}

	workflowID := path.Base(workflowFile)
	endpoint := fmt.Sprintf("repos/%s/%s/actions/workflows/%s/dispatches", owner, repo, url.PathEscape(workflowID))
	clientLog.Printf("Dispatching %s on %s with %d inputs", workflowID, ref, len(inputs))

	err = c.rest.DoWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body), nil)
	if err == nil {
		return nil
	}
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnprocessableEntity {
		return &DispatchRejectedError{Workflow: workflowID, Message: httpErr.Message}
	}
	return classify(err, owner+"/"+repo, dispatch.WorkflowPath(workflowFile))
}

// WorkflowRun is the subset of a workflow run gh preflight reports.
type WorkflowRun struct {
	ID         int64     `json:"id"`
	URL        string    `json:"html_url"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	HeadBranch string    `json:"head_branch"`
	CreatedAt  time.Time `json:"created_at"`
}

// LatestDispatchRun returns the most recent workflow_dispatch run of
// workflowFile on branch, or nil when there is none. An empty branch matches
// any branch.
func (c *Client) LatestDispatchRun(ctx context.Context, owner, repo, workflowFile, branch string) (*WorkflowRun, error) {
	query := url.Values{}
	query.Set("event", constants.DispatchTrigger)
	query.Set("per_page", "1")
	if branch != "" {
		query.Set("branch", branch)
	}
	workflowID := path.Base(workflowFile)
	endpoint := fmt.Sprintf("repos/%s/%s/actions/workflows/%s/runs?%s", owner, repo, url.PathEscape(workflowID), query.Encode())

	var resp struct {
		WorkflowRuns []WorkflowRun `json:"workflow_runs"`
	}
	if err := c.rest.DoWithContext(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, classify(err, owner+"/"+repo, dispatch.WorkflowPath(workflowFile))
	}
	if len(resp.WorkflowRuns) == 0 {
		return nil, nil
	}
	return &resp.WorkflowRuns[0], nil
}

// classify maps HTTP failures onto the dispatch error taxonomy. Errors
// without an HTTP status are returned unchanged.
func classify(err error, repo, filePath string) error {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	clientLog.Printf("HTTP %d from %s: %s", httpErr.StatusCode, repo, httpErr.Message)
	switch httpErr.StatusCode {
	case http.StatusNotFound:
		if filePath == "" {
			return fmt.Errorf("repository %s not found or not visible with this credential: %w", repo, err)
		}
		return &dispatch.NotFoundError{Repo: repo, Path: filePath, Err: err}
	case http.StatusTooManyRequests:
		return rateLimited(httpErr, repo, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		if isRateLimit(httpErr) {
			return rateLimited(httpErr, repo, err)
		}
		return &dispatch.AuthError{Repo: repo, StatusCode: httpErr.StatusCode, Message: httpErr.Message, Err: err}
	default:
		return err
	}
}

// isRateLimit reports whether a 403 is GitHub's primary or secondary rate
// limit rather than a refused credential.
func isRateLimit(httpErr *api.HTTPError) bool {
	if httpErr.StatusCode != http.StatusForbidden {
		return false
	}
	if httpErr.Headers.Get("X-RateLimit-Remaining") == "0" || httpErr.Headers.Get("Retry-After") != "" {
		return true
	}
	return strings.Contains(strings.ToLower(httpErr.Message), "rate limit")
}

func rateLimited(httpErr *api.HTTPError, repo string, err error) error {
	msg := fmt.Sprintf("GitHub API rate limit exceeded for %s", repo)
	if reset, perr := strconv.ParseInt(httpErr.Headers.Get("X-RateLimit-Reset"), 10, 64); perr == nil && reset > 0 {
		msg += "; resets at " + time.Unix(reset, 0).Local().Format(time.Kitchen)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
