// Package catalog exposes the branches a version-control provider reports
// for a connection.
package catalog

import (
	"context"
	"iter"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sqve/branchlink/internal/cache"
	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/logger"
)

// BranchLister fetches the provider's branches for a connection.
type BranchLister interface {
	ListGitHubBranches(ctx context.Context, connectionID int64) ([]domain.RemoteBranch, error)
}

// Catalog loads and holds the remote branches of one connection at a time.
type Catalog struct {
	lister BranchLister
	cache  *cache.Cache[[]domain.RemoteBranch]
	log    *logger.Logger

	mu           sync.RWMutex
	connectionID int64
	generation   uint64
	branches     []domain.RemoteBranch
	loading      bool
	err          error
}

func New(lister BranchLister, cacheTTL time.Duration) *Catalog {
	return &Catalog{
		lister: lister,
		cache:  cache.New[[]domain.RemoteBranch](cacheTTL),
		log:    logger.WithComponent("catalog"),
	}
}

func cacheKey(connectionID int64) string {
	return cache.Key("github_branches", strconv.FormatInt(connectionID, 10))
}

// Load fetches the branches for connectionID, serving from the cache when
// possible. A zero connectionID yields an empty catalog without fetching.
// On failure the catalog is empty and the error is both returned and kept
// for Err.
func (c *Catalog) Load(ctx context.Context, connectionID int64) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.connectionID = connectionID
	c.branches = nil
	c.err = nil
	c.loading = false
	if connectionID == 0 {
		c.mu.Unlock()
		return nil
	}
	c.cache.CleanupExpired()
	if cached, ok := c.cache.Get(cacheKey(connectionID)); ok {
		c.branches = cached
		c.mu.Unlock()
		c.log.Debug("cache hit", "connection_id", connectionID, "count", len(cached))
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	start := time.Now()
	branches, err := c.lister.ListGitHubBranches(ctx, connectionID)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A later Load owns the state and the loading flag now.
	if c.generation != generation {
		return err
	}
	c.loading = false

	if err != nil {
		c.err = err
		c.log.Warn("failed to load branches", "connection_id", connectionID, "error", err)
		return err
	}

	c.branches = slices.Clone(branches)
	c.cache.Set(cacheKey(connectionID), c.branches)
	c.log.Debug("loaded branches", "connection_id", connectionID, "count", len(branches), "duration", time.Since(start))
	return nil
}

// Invalidate drops the cached listing for connectionID so the next Load
// fetches again.
func (c *Catalog) Invalidate(connectionID int64) {
	c.cache.Delete(cacheKey(connectionID))
}

// IsLoading reports whether a fetch is in flight.
func (c *Catalog) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Err returns the error of the last Load, if any.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// ConnectionID returns the connection of the most recent Load.
func (c *Catalog) ConnectionID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connectionID
}

// Branches returns a restartable sequence over the loaded branches. Each
// iteration sees the branches loaded at the time it starts.
func (c *Catalog) Branches() iter.Seq[domain.RemoteBranch] {
	return func(yield func(domain.RemoteBranch) bool) {
		c.mu.RLock()
		snapshot := c.branches
		c.mu.RUnlock()

		for _, b := range snapshot {
			if !yield(b) {
				return
			}
		}
	}
}

// Filter narrows the loaded branches by query without fetching.
func (c *Catalog) Filter(query string) []domain.RemoteBranch {
	return slices.Collect(Filter(c.Branches(), query))
}

// Filter yields the branches whose name contains query, case-insensitively.
// Double quotes are ignored on both sides. An empty query matches everything.
func Filter(branches iter.Seq[domain.RemoteBranch], query string) iter.Seq[domain.RemoteBranch] {
	return func(yield func(domain.RemoteBranch) bool) {
		for b := range branches {
			if !Matches(b.Name, query) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// Matches reports whether name passes the filter query.
func Matches(name, query string) bool {
	needle := normalize(query)
	return needle == "" || strings.Contains(normalize(name), needle)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, `"`, "")))
}
