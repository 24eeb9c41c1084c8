package packages

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PlazmaDevelopment/FFling/pkg/driver"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// cloneInto clones spec.Git to target and checks out the pinned revision.
// It returns the checked out commit hash.
func cloneInto(workDir, target string, spec *driver.DependencySpec) (string, error) {
	tmpDir, err := os.MkdirTemp(workDir, ".git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	opts := &git.CloneOptions{
		URL:               strings.TrimSpace(spec.Git),
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
		Tags:              git.AllTags,
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	repo, err := git.PlainClone(tmpDir, false, opts)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", spec.Git, err)
	}

	revision := gitRevisionFromSpec(spec)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	if spec.Rev != "" || spec.Tag != "" {
		worktree, err := repo.Worktree()
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", err
		}
		if err := worktree.Checkout(&git.CheckoutOptions{
			Hash:  *hash,
			Force: true,
		}); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", fmt.Errorf("git checkout %s: %w", revision, err)
		}
	}

	if err := os.Rename(tmpDir, target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return hash.String(), nil
}

// pull fast-forwards the checkout at dir and returns the new HEAD commit.
// A non-empty branch restricts the pull to that remote branch.
func pull(dir, branch string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	opts := &git.PullOptions{RemoteName: "origin"}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	if err := worktree.Pull(opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("git pull: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func gitRevisionFromSpec(spec *driver.DependencySpec) plumbing.Revision {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev)
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag)
	}
	return plumbing.Revision(plumbing.HEAD)
}

// sourcePin splits the "#kind=value" suffix off a lock source string.
func sourcePin(source string) (kind, value string) {
	_, fragment, ok := strings.Cut(source, "#")
	if !ok {
		return "", ""
	}
	kind, value, _ = strings.Cut(fragment, "=")
	return kind, value
}
