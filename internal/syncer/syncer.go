// Package syncer reconciles configured sources (local directories or git
// repositories) against the card store: new content is scheduled, content
// that disappeared from its source is removed.
package syncer

import (
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/knolcards/internal/cardsource"
	"github.com/conorfennell/knolcards/internal/fsrs"
	"github.com/conorfennell/knolcards/internal/gitsource"
	"github.com/conorfennell/knolcards/internal/knol"
	"github.com/conorfennell/knolcards/internal/store"
	"github.com/google/uuid"
)

// ReposDir is the working directory git sources are cloned into, relative
// to the process's current directory.
const ReposDir = "repos"

// Report summarizes one RunSync invocation.
type Report struct {
	RunID          string
	SourcesScanned int
	CardsFound     int
	CardsAdded     int
	CardsOrphaned  int
	Errors         []error
}

// RunSync reconciles every configured source against st. Each run is
// stamped with a fresh UUID so its log lines can be correlated across
// multiple sources scanned in the same pass.
func RunSync(st *store.Store) Report {
	runID := uuid.New().String()
	report := Report{RunID: runID}

	log.Printf("[%s] sync starting", runID)

	sources, err := st.GetAllSources()
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("list sources: %w", err))
		return report
	}
	if len(sources) == 0 {
		log.Printf("[%s] no sources configured", runID)
		return report
	}

	for _, src := range sources {
		report.SourcesScanned++
		scanDir := src.Path

		if src.Type == "git" {
			localPath, err := gitCloneDir(ReposDir, src.Path)
			if err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("resolve clone path for %s: %w", src.Path, err))
				continue
			}
			if err := gitsource.Sync(runID, src.Path, localPath); err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("sync git source %s: %w", src.Path, err))
				continue
			}
			scanDir = localPath
		}

		found, added, orphaned, errs := reconcileSource(st, src.ID, scanDir)
		report.CardsFound += found
		report.CardsAdded += added
		report.CardsOrphaned += orphaned
		report.Errors = append(report.Errors, errs...)

		if err := st.UpdateSourceLastScanned(src.ID, time.Now()); err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("update last scanned for source %d: %w", src.ID, err))
		}
	}

	log.Printf("[%s] sync complete: %d sources, %d cards found, %d added, %d orphaned, %d errors",
		runID, report.SourcesScanned, report.CardsFound, report.CardsAdded, report.CardsOrphaned, len(report.Errors))
	return report
}

// reconcileSource walks dir for markdown files, schedules any content not
// already in the store, and removes cards whose content is no longer
// present anywhere under dir.
func reconcileSource(st *store.Store, sourceID int64, dir string) (found, added, orphaned int, errs []error) {
	seen := make(map[string]bool)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		contents, parseErr := cardsource.ParseFile(path)
		if parseErr != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, parseErr))
			return nil
		}

		for _, content := range contents {
			hash := knol.Hash(content)
			found++
			seen[hash] = true

			existing, findErr := st.FindByHash(hash)
			if findErr != nil {
				errs = append(errs, fmt.Errorf("lookup %s: %w", hash, findErr))
				continue
			}
			if existing != nil {
				continue
			}

			card := fsrs.NewCard(fsrs.WithCardID(knol.CardID(content)))
			if err := st.InsertNewCard(content, hash, card, sourceID); err != nil {
				errs = append(errs, fmt.Errorf("insert %s: %w", hash, err))
				continue
			}
			added++
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("walk %s: %w", dir, walkErr))
		return found, added, orphaned, errs
	}

	existingCards, err := st.GetCardsBySource(sourceID)
	if err != nil {
		errs = append(errs, fmt.Errorf("list cards for source %d: %w", sourceID, err))
		return found, added, orphaned, errs
	}
	for _, rec := range existingCards {
		if seen[rec.Hash] {
			continue
		}
		if err := st.DeleteByHash(rec.Hash); err != nil {
			errs = append(errs, fmt.Errorf("delete orphaned card %s: %w", rec.Hash, err))
			continue
		}
		orphaned++
	}

	return found, added, orphaned, errs
}

// gitCloneDir maps a git remote URL to the local directory it should be
// cloned into, under baseDir.
func gitCloneDir(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		sanitized := strings.TrimSuffix(parsed.Path, ".git")
		return filepath.Join(baseDir, parsed.Host, sanitized), nil
	}

	// scp-like syntax: git@host:owner/repo.git
	if strings.Contains(repoURL, "@") {
		parts := strings.SplitN(repoURL, ":", 2)
		if len(parts) == 2 {
			hostAndUser := strings.SplitN(parts[0], "@", 2)
			if len(hostAndUser) == 2 {
				repoPath := strings.TrimSuffix(parts[1], ".git")
				return filepath.Join(baseDir, hostAndUser[1], repoPath), nil
			}
		}
	}

	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
