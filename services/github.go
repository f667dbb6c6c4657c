package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	DefaultGitHubAPIURL      = "https://api.github.com"
	DefaultGitHubPageTimeout = 15 * time.Second
	gitHubPageSize           = 100
	gitHubMaxPages           = 100
	gitHubService            = "GitHub"
)

// GitHubRepository is the part of the repository listing the importer reads
type GitHubRepository struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	HTMLURL     string    `json:"html_url"`
	Fork        bool      `json:"fork"`
	PushedAt    time.Time `json:"pushed_at"`
}

// GitHubErrorResponse is the body GitHub sends with non-2xx responses
type GitHubErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}

type GitHubClient struct {
	httpClient  *http.Client
	baseURL     string
	pageTimeout time.Duration
	logger      zerolog.Logger
}

// NewGitHubClient builds a client. An empty token makes anonymous requests.
func NewGitHubClient(baseURL, token string, pageTimeout time.Duration) *GitHubClient {
	httpClient := &http.Client{}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	if baseURL == "" {
		baseURL = DefaultGitHubAPIURL
	}
	if pageTimeout <= 0 {
		pageTimeout = DefaultGitHubPageTimeout
	}

	return &GitHubClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		pageTimeout: pageTimeout,
		logger:      log.With().Str("service", "github").Logger(),
	}
}

// NewGitHubClientFromConfig reads GITHUB_API_URL, GITHUB_TOKEN and GITHUB_PAGE_TIMEOUT_SECONDS
func NewGitHubClientFromConfig(cfg map[string]string) *GitHubClient {
	return NewGitHubClient(
		config.GetString(cfg, "GITHUB_API_URL", DefaultGitHubAPIURL),
		config.GetString(cfg, "GITHUB_TOKEN", ""),
		config.GetSeconds(cfg, "GITHUB_PAGE_TIMEOUT_SECONDS", DefaultGitHubPageTimeout),
	)
}

// FetchAllRepositories lists every public repository of the account, most recently pushed first.
// Either every page is returned or an error is.
func (c *GitHubClient) FetchAllRepositories(ctx context.Context, account string) ([]GitHubRepository, error) {
	if strings.TrimSpace(account) == "" {
		return nil, errs.NewEnvironmentVariableError("GITHUB_USERNAME")
	}

	var all []GitHubRepository
	for page := 1; page <= gitHubMaxPages; page++ {
		repos, err := c.fetchPage(ctx, account, page)
		if err != nil {
			return nil, err
		}
		all = append(all, repos...)

		c.logger.Debug().Int("page", page).Int("count", len(repos)).Msg("Fetched repository page")
		if len(repos) < gitHubPageSize {
			return all, nil
		}
	}

	c.logger.Warn().Int("pages", gitHubMaxPages).Msg("Repository listing hit the page cap")
	return all, nil
}

func (c *GitHubClient) fetchPage(ctx context.Context, account string, page int) ([]GitHubRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, c.pageTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=%d&page=%d&sort=pushed",
		c.baseURL, url.PathEscape(account), gitHubPageSize, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to create GitHub request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "portfolio-backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(req.URL.Host, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, body)
	}

	var repos []GitHubRepository
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, errs.NewJSONUnmarshalError("decode GitHub repository page", err)
	}
	return repos, nil
}

func (c *GitHubClient) transportError(host string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		c.logger.Warn().Str("host", host).Dur("timeout", c.pageTimeout).Msg("GitHub request timed out")
		return errs.NewTCPTimeoutError(host, c.pageTimeout)
	}
	c.logger.Warn().Err(err).Str("host", host).Msg("GitHub request failed")
	return errs.NewServiceUnreachableError(gitHubService, err)
}

func (c *GitHubClient) statusError(resp *http.Response, body []byte) error {
	var ghErr GitHubErrorResponse
	_ = json.Unmarshal(body, &ghErr)
	message := ghErr.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	rateLimited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0")
	if rateLimited {
		retryAfter := retryAfter(resp.Header, time.Now())
		c.logger.Warn().Dur("retryAfter", retryAfter).Msg("GitHub rate limit exhausted")
		return errs.NewRateLimitError(gitHubService, retryAfter)
	}

	c.logger.Warn().Int("status", resp.StatusCode).Str("message", message).Msg("GitHub returned an error")
	return errs.NewUpstreamError(gitHubService, resp.StatusCode, errors.New(message))
}

// retryAfter reads Retry-After, falling back to X-RateLimit-Reset
func retryAfter(h http.Header, now time.Time) time.Duration {
	if s := h.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if s := h.Get("X-RateLimit-Reset"); s != "" {
		if epoch, err := strconv.ParseInt(s, 10, 64); err == nil {
			if d := time.Unix(epoch, 0).Sub(now); d > 0 {
				return d.Round(time.Second)
			}
		}
	}
	return 0
}
