package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultAPIBase is the GitHub REST API endpoint. Overridable for tests
// and GitHub Enterprise deployments.
const DefaultAPIBase = "https://api.github.com"

// Client pushes files to a GitHub repository. Construct with New.
type Client struct {
	owner   string
	repo    string
	token   string
	apiBase string
	http    *retryablehttp.Client
	log     *slog.Logger
}

// New creates a Client for the repository given in owner/repo form.
// A nil logger falls back to slog.Default().
func New(repo, token string, log *slog.Logger) (*Client, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repository %q must be in owner/repo form", repo)
	}
	if log == nil {
		log = slog.Default()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	return &Client{
		owner:   owner,
		repo:    name,
		token:   token,
		apiBase: DefaultAPIBase,
		http:    rc,
		log:     log,
	}, nil
}

// SetAPIBase points the client at a different API endpoint.
func (c *Client) SetAPIBase(base string) {
	c.apiBase = strings.TrimRight(base, "/")
}

// Push uploads the given files, committing each with the message. Paths
// are stored relative to root so the repository mirrors the local output
// layout. A missing token skips the push with a warning and no error,
// preserving the generated files' local success.
func (c *Client) Push(ctx context.Context, root string, files []string, message string) error {
	if c.token == "" {
		c.log.Warn("no GitHub token provided, skipping repository push")
		return nil
	}
	if len(files) == 0 {
		c.log.Info("no files to push")
		return nil
	}

	c.log.Info("pushing files to GitHub", "repo", c.owner+"/"+c.repo, "count", len(files))
	for _, file := range files {
		if err := c.pushFile(ctx, root, file, message); err != nil {
			return fmt.Errorf("push %s: %w", file, err)
		}
	}
	return nil
}

// contentsResponse is the subset of the contents-API GET response needed
// to update an existing file.
type contentsResponse struct {
	SHA string `json:"sha"`
}

// contentsRequest is the PUT body for creating or updating a file.
type contentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// pushFile creates or updates one file. The contents API requires the
// current blob SHA when updating, so existing files are fetched first.
func (c *Client) pushFile(ctx context.Context, root, file, message string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	repoPath, err := filepath.Rel(root, file)
	if err != nil {
		repoPath = filepath.Base(file)
	}
	repoPath = filepath.ToSlash(repoPath)

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, c.owner, c.repo, repoPath)

	sha, err := c.existingSHA(ctx, url)
	if err != nil {
		return err
	}

	body, err := json.Marshal(contentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(data),
		SHA:     sha,
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GitHub API returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	c.log.Debug("pushed file", "path", repoPath)
	return nil
}

// existingSHA fetches the blob SHA of a file if it already exists in the
// repository. A 404 means the file is new and returns an empty SHA.
func (c *Client) existingSHA(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var contents contentsResponse
		if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
			return "", err
		}
		return contents.SHA, nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("GitHub API returned %s while checking %s", resp.Status, url)
	}
}

// authorize attaches the token and API version headers.
func (c *Client) authorize(req *retryablehttp.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
