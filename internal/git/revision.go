package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShortHashLen is the length of the abbreviated commit hash.
const ShortHashLen = 7

// ErrNotRepository is returned when the path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Revision identifies the checked-out commit.
type Revision struct {
	Commit string // Full SHA-1
	Branch string // Short branch name; empty for a detached HEAD
}

// Short returns the abbreviated commit hash.
func (r Revision) Short() string {
	if len(r.Commit) <= ShortHashLen {
		return r.Commit
	}
	return r.Commit[:ShortHashLen]
}

// ReadRevision resolves HEAD of the repository containing path. Parent
// directories are searched for the .git directory.
func ReadRevision(path string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, ErrNotRepository
		}
		return Revision{}, fmt.Errorf("open repository at %s: %w", path, err)
	}
	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, fmt.Errorf("repository at %s has no commits: %w", path, err)
		}
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	rev := Revision{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
