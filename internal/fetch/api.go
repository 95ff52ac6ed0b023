package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	github "github.com/google/go-github/v68/github"
)

// Entry is one item from a directory listing.
type Entry struct {
	Path string
	Type string // "file" or "dir"
	SHA  string
}

// API is the narrow slice of the repository host used by the Fetcher.
// Implementations convert host rate-limit signals into *RateLimitedError.
type API interface {
	ListDir(ctx context.Context, owner, repo, path string) ([]Entry, error)
	ReadFile(ctx context.Context, owner, repo, path string) ([]byte, error)
	CoreRate(ctx context.Context) (remaining int, reset time.Time, err error)
}

// RateLimitedError reports that the host refused the request until Reset.
type RateLimitedError struct {
	Reset time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("fetch: rate limited until %s", e.Reset.Format(time.RFC3339))
}

// githubAPI implements API over the GitHub REST contents API.
type githubAPI struct {
	cli *github.Client
}

func newGitHubAPI(token string) *githubAPI {
	return &githubAPI{cli: github.NewClient(nil).WithAuthToken(token)}
}

func (a *githubAPI) ListDir(ctx context.Context, owner, repo, path string) ([]Entry, error) {
	_, dir, _, err := a.cli.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, wrapHostErr(err)
	}
	entries := make([]Entry, 0, len(dir))
	for _, c := range dir {
		entries = append(entries, Entry{Path: c.GetPath(), Type: c.GetType(), SHA: c.GetSHA()})
	}
	return entries, nil
}

func (a *githubAPI) ReadFile(ctx context.Context, owner, repo, path string) ([]byte, error) {
	file, _, _, err := a.cli.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		return nil, wrapHostErr(err)
	}
	if file == nil {
		return nil, fmt.Errorf("fetch: %s is not a file", path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("fetch: decode %s: %w", path, err)
	}
	return []byte(content), nil
}

func (a *githubAPI) CoreRate(ctx context.Context) (int, time.Time, error) {
	limits, _, err := a.cli.RateLimit.Get(ctx)
	if err != nil {
		return 0, time.Time{}, wrapHostErr(err)
	}
	core := limits.GetCore()
	if core == nil {
		return 0, time.Time{}, fmt.Errorf("fetch: no core rate limit in response")
	}
	return core.Remaining, core.Reset.Time, nil
}

// wrapHostErr normalizes go-github rate-limit errors so the Fetcher's
// retry loop stays library-agnostic.
func wrapHostErr(err error) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return &RateLimitedError{Reset: rle.Rate.Reset.Time}
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		reset := time.Now()
		if arle.RetryAfter != nil {
			reset = reset.Add(*arle.RetryAfter)
		}
		return &RateLimitedError{Reset: reset}
	}
	return err
}
