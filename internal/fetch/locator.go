package fetch

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeLocator trims whitespace and the trailing "/" or ".git" from a
// repository locator so equivalent spellings compare equal.
func NormalizeLocator(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "/")
	raw = strings.TrimSuffix(raw, ".git")
	return raw
}

// ParseLocator extracts owner and repo from a GitHub locator. Accepted
// forms: https URL, git@github.com: remote, or a bare "owner/repo".
func ParseLocator(raw string) (owner, repo string, err error) {
	raw = NormalizeLocator(raw)
	if raw == "" {
		return "", "", fmt.Errorf("fetch: empty repository locator")
	}

	if strings.HasPrefix(raw, "git@github.com:") {
		repoPath := strings.TrimPrefix(raw, "git@github.com:")
		owner, repo, ok := splitOwnerRepo(repoPath)
		if !ok {
			return "", "", fmt.Errorf("fetch: invalid repository locator %q", raw)
		}
		return owner, repo, nil
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("fetch: invalid repository locator: %w", err)
		}
		if !strings.EqualFold(strings.TrimSpace(u.Host), "github.com") {
			return "", "", fmt.Errorf("fetch: only github.com is supported, got %q", u.Host)
		}
		owner, repo, ok := splitOwnerRepo(u.Path)
		if !ok {
			return "", "", fmt.Errorf("fetch: invalid repository locator %q", raw)
		}
		return owner, repo, nil
	}

	owner, repo, ok := splitOwnerRepo(raw)
	if !ok {
		return "", "", fmt.Errorf("fetch: invalid repository locator %q", raw)
	}
	return owner, repo, nil
}

func splitOwnerRepo(repoPath string) (owner, repo string, ok bool) {
	repoPath = strings.Trim(repoPath, "/")
	parts := strings.Split(repoPath, "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}
