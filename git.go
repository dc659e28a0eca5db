package main

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// worktreeRoot returns the root of the git worktree containing dir.
// ok is false when dir is not inside a repository.
func worktreeRoot(dir string) (root string, ok bool, err error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to open repository at '%s': %w", dir, err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read worktree for '%s': %w", dir, err)
	}
	return wt.Filesystem.Root(), true, nil
}
