// Package gitsource mirrors a remote git repository locally so its
// markdown files can be scanned like any other local source.
package gitsource

import (
	"fmt"
	"log"
	"os"

	"github.com/go-git/go-git/v5"
)

// Sync clones url into localPath if it doesn't exist yet, or pulls the
// latest changes if it does. runID is logged alongside each step so a
// reconciliation run can be traced across multiple sources.
func Sync(runID, url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		log.Printf("[%s] cloning %s into %s", runID, url, localPath)
		_, err := git.PlainClone(localPath, false, &git.CloneOptions{
			URL:      url,
			Progress: nil,
		})
		if err != nil {
			return fmt.Errorf("clone %s: %w", url, err)
		}
		log.Printf("[%s] clone of %s complete", runID, url)
		return nil
	case err == nil:
		log.Printf("[%s] pulling latest for %s", runID, localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("open repo at %s: %w", localPath, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("worktree for %s: %w", localPath, err)
		}
		err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return fmt.Errorf("pull %s: %w", localPath, err)
		}
		log.Printf("[%s] pull for %s complete (or already up to date)", runID, localPath)
		return nil
	default:
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
}
