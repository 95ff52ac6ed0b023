// Package fetch retrieves a repository's tree and decodable contents from
// the GitHub API and classifies the languages it finds.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	enry "github.com/go-enry/go-enry/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"repoadvisor/internal/filetree"
	"repoadvisor/internal/types"
)

// Directories never worth analyzing, matched by path substring.
var skipDirs = []string{"target/", "build/", ".git/", ".idea/", "node_modules/", "venv/"}

const (
	defaultMaxAttempts = 3
	blobCacheSize      = 512
)

// Fetcher produces immutable snapshots of remote repositories. Transient
// host errors are retried with exponential backoff; host rate limiting is
// waited out using the reported reset time and does not consume the retry
// budget.
type Fetcher struct {
	api         API
	blobs       *lru.Cache[string, []byte]
	maxAttempts int

	// Injectable for tests.
	sleep func(time.Duration)
	now   func() time.Time
}

// New builds a Fetcher authenticated with the given host token.
func New(token string) *Fetcher {
	return newWithAPI(newGitHubAPI(token))
}

func newWithAPI(api API) *Fetcher {
	blobs, _ := lru.New[string, []byte](blobCacheSize)
	return &Fetcher{
		api:         api,
		blobs:       blobs,
		maxAttempts: defaultMaxAttempts,
		sleep:       time.Sleep,
		now:         time.Now,
	}
}

// Fetch retrieves the full tree and every decodable file of repoURL.
func (f *Fetcher) Fetch(ctx context.Context, repoURL string) (*types.Snapshot, error) {
	owner, repo, err := ParseLocator(repoURL)
	if err != nil {
		return nil, err
	}

	var last error
	attempt := 0
	rateWaits := 0
	for attempt < f.maxAttempts {
		snap, err := f.fetchOnce(ctx, owner, repo)
		if err == nil {
			snap.RepoURL = NormalizeLocator(repoURL)
			return snap, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var rl *RateLimitedError
		if errors.As(err, &rl) {
			rateWaits++
			if rateWaits > f.maxAttempts {
				return nil, fmt.Errorf("fetch: %s/%s still rate limited after %d waits: %w", owner, repo, rateWaits-1, err)
			}
			wait := rl.Reset.Sub(f.now()) + time.Second
			if wait < time.Second {
				wait = time.Second
			}
			log.Printf("fetch: rate limit exceeded, waiting %s", wait.Round(time.Second))
			f.sleep(wait)
			continue
		}

		last = err
		attempt++
		if attempt < f.maxAttempts {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			log.Printf("fetch: host API error, retrying in %s: %v", backoff, err)
			f.sleep(backoff)
		}
	}
	return nil, fmt.Errorf("fetch: %s/%s after %d attempts: %w", owner, repo, f.maxAttempts, last)
}

// fetchOnce walks the contents API breadth-first from the repo root.
func (f *Fetcher) fetchOnce(ctx context.Context, owner, repo string) (*types.Snapshot, error) {
	remaining, reset, err := f.api.CoreRate(ctx)
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		return nil, &RateLimitedError{Reset: reset}
	}

	tree := filetree.New()
	var blocks []string
	langSet := map[string]struct{}{}

	queue := []string{""}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := f.api.ListDir(ctx, owner, repo, dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			switch e.Type {
			case "dir":
				if skipPath(e.Path + "/") {
					continue
				}
				tree.InsertDir(e.Path)
				queue = append(queue, e.Path)
			case "file":
				if skipPath(e.Path) {
					continue
				}
				data, err := f.readBlob(ctx, owner, repo, e)
				if err != nil {
					return nil, err
				}
				if !utf8.Valid(data) {
					log.Printf("fetch: skipping binary file: %s", e.Path)
					continue
				}
				tree.InsertFile(e.Path)
				blocks = append(blocks, fmt.Sprintf("File: %s\nContent:\n%s\n", e.Path, string(data)))
				if lang := enry.GetLanguage(path.Base(e.Path), data); lang != "" {
					langSet[lang] = struct{}{}
				} else {
					log.Printf("fetch: no language detected for %s", e.Path)
				}
			}
		}
	}

	langs := make([]string, 0, len(langSet))
	for l := range langSet {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	return &types.Snapshot{
		FileTree:     tree.Render(),
		FileContents: strings.Join(blocks, "\n"),
		Languages:    langs,
	}, nil
}

// readBlob fetches file content, consulting the SHA-keyed cache first so
// a retried traversal does not re-download blobs it already has.
func (f *Fetcher) readBlob(ctx context.Context, owner, repo string, e Entry) ([]byte, error) {
	if e.SHA != "" {
		if data, ok := f.blobs.Get(e.SHA); ok {
			return data, nil
		}
	}
	data, err := f.api.ReadFile(ctx, owner, repo, e.Path)
	if err != nil {
		return nil, err
	}
	if e.SHA != "" {
		f.blobs.Add(e.SHA, data)
	}
	return data, nil
}

func skipPath(p string) bool {
	p = strings.ToLower(p)
	for _, skip := range skipDirs {
		if strings.Contains(p, skip) {
			return true
		}
	}
	return false
}
