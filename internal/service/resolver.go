package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/teemtee/tmt-web/internal/core"
	"github.com/teemtee/tmt-web/internal/domain/model"
	"github.com/teemtee/tmt-web/internal/fmftree"
	"github.com/teemtee/tmt-web/internal/gitrepo"
)

// TreeResolver implements core.Resolver on top of a git materializer and
// the fmf metadata tree.
type TreeResolver struct {
	git    *gitrepo.Client
	logger *slog.Logger
}

// TreeResolverOptions groups dependencies for TreeResolver.
type TreeResolverOptions struct {
	Git    *gitrepo.Client // Required: repository materializer
	Logger *slog.Logger    // Optional: structured logger
}

// NewTreeResolver creates a TreeResolver. Panics if the git client is missing.
func NewTreeResolver(opts TreeResolverOptions) *TreeResolver {
	if opts.Git == nil {
		panic("service: TreeResolver requires a git client")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeResolver{git: opts.Git, logger: logger}
}

var _ core.Resolver = (*TreeResolver)(nil)

// Test materializes the repository and looks up the named test.
func (r *TreeResolver) Test(ctx context.Context, ref core.ObjectRef) (*model.TestMetadata, error) {
	node, err := r.find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, core.NotFoundf("Test '%s' not found", ref.Name)
	}
	return testFromNode(ref, node), nil
}

// Plan materializes the repository and looks up the named plan.
func (r *TreeResolver) Plan(ctx context.Context, ref core.ObjectRef) (*model.PlanMetadata, error) {
	node, err := r.find(ctx, ref)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, core.NotFoundf("Plan '%s' not found", ref.Name)
	}
	return planFromNode(ref, node), nil
}

// find loads the metadata tree for ref and returns the node data, or nil
// when the name is absent (the caller decides the not-found wording).
func (r *TreeResolver) find(ctx context.Context, ref core.ObjectRef) (map[string]any, error) {
	r.logger.DebugContext(ctx, "resolving object",
		"url", ref.URL, "name", ref.Name, "ref", ref.Ref, "path", ref.Path)

	var node map[string]any
	var found bool
	// The tree is read under the materializer's lock so a concurrent
	// checkout of another ref cannot move the worktree mid-read.
	err := r.git.WithMaterialized(ctx, ref.URL, ref.Ref, func(repoPath string) error {
		treePath := repoPath
		if ref.Path != "" {
			// When a path is given, the tree root sits inside the checkout.
			treePath = filepath.Join(repoPath, filepath.FromSlash(strings.TrimPrefix(ref.Path, "/")))
		}

		tree, loadErr := fmftree.Load(treePath)
		if loadErr != nil {
			return fmt.Errorf("load metadata tree: %w", loadErr)
		}

		node, found = tree.Find(ref.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return node, nil
}
