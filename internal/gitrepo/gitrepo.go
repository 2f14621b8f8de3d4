// Package gitrepo materializes remote git repositories into a local
// directory for metadata lookups. Clones are keyed by URL so repeated
// requests for the same repository reuse the existing checkout.
package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	giturls "github.com/whilp/git-urls"
)

// Client clones and reuses git repositories under a base directory.
// Concurrent requests for the same URL serialize on a per-directory lock so
// a clone in progress is never observed half-written.
type Client struct {
	baseDir string
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Options configures a Client.
type Options struct {
	BaseDir string        // Required: directory holding all clones
	Timeout time.Duration // Optional: per-clone timeout; defaults to 2m
	Logger  *slog.Logger  // Optional: structured logger
}

// New creates a git repository client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseDir: opts.BaseDir,
		timeout: timeout,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// DirName converts a git URL into a stable on-disk directory name,
// e.g. https://github.com/teemtee/tmt.git -> github.com/teemtee/tmt.
func DirName(rawURL string) (string, error) {
	u, err := giturls.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse git URL: %w", err)
	}

	hostname := u.Hostname()
	if hostname == "" {
		hostname = u.Host
	}
	if hostname == "" {
		return "", fmt.Errorf("git URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")
	if path == "" {
		return "", fmt.Errorf("git URL %q has no repository path", rawURL)
	}

	return filepath.Join(hostname, filepath.FromSlash(path)), nil
}

// Materialize makes the repository at rawURL available locally and returns
// the checkout path. An existing clone is reused; ref, when given, is
// checked out in either case. The worktree may be re-checked-out by a
// concurrent request as soon as Materialize returns; callers that read the
// worktree should use WithMaterialized instead.
func (c *Client) Materialize(ctx context.Context, rawURL, ref string) (string, error) {
	var path string
	err := c.WithMaterialized(ctx, rawURL, ref, func(dest string) error {
		path = dest
		return nil
	})
	return path, err
}

// WithMaterialized materializes the repository like Materialize and invokes
// fn with the checkout path while the per-directory lock is still held, so
// fn reads a worktree that no concurrent checkout can move underneath it.
func (c *Client) WithMaterialized(ctx context.Context, rawURL, ref string, fn func(dest string) error) error {
	dirName, err := DirName(rawURL)
	if err != nil {
		return fmt.Errorf("invalid repository URL: %w", err)
	}
	dest := filepath.Join(c.baseDir, dirName)

	lock := c.dirLock(dest)
	lock.Lock()
	defer lock.Unlock()

	cloneCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, statErr := os.Stat(filepath.Join(dest, ".git")); os.IsNotExist(statErr) {
		c.logger.InfoContext(ctx, "cloning repository", "url", rawURL, "dest", dest)
		if cloneErr := c.clone(cloneCtx, rawURL, dest); cloneErr != nil {
			return cloneErr
		}
	} else {
		c.logger.DebugContext(ctx, "reusing existing clone", "url", rawURL, "dest", dest)
	}

	if ref != "" {
		if checkoutErr := c.checkout(dest, ref); checkoutErr != nil {
			return checkoutErr
		}
	}

	return fn(dest)
}

func (c *Client) clone(ctx context.Context, rawURL, dest string) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{URL: rawURL})
	if err != nil {
		// A failed clone leaves a partial directory behind; remove it so
		// the next attempt starts clean instead of "reusing" garbage.
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			c.logger.Error("failed to clean up partial clone", "dest", dest, "error", rmErr)
		}
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	return nil
}

// checkout moves the worktree to ref, which may be a branch, tag, or
// commit hash. Branch names are also tried as remote-tracking refs since a
// fresh clone only has the default branch checked out locally.
func (c *Client) checkout(dest, ref string) error {
	repo, err := git.PlainOpen(dest)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		hash, err = repo.ResolveRevision(plumbing.Revision("origin/" + ref))
		if err != nil {
			return fmt.Errorf("failed to checkout ref %q: %w", ref, err)
		}
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return fmt.Errorf("failed to checkout ref %q: %w", ref, err)
	}
	return nil
}

// dirLock returns the mutex guarding dest. The map keeps one entry per
// distinct clone directory, matching what accumulates under baseDir.
func (c *Client) dirLock(dest string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[dest]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[dest] = lock
	}
	return lock
}
