// Command knolcards is a flashcard CLI and web reviewer backed by an FSRS
// scheduler: it scans markdown sources (local directories or git remotes)
// for Q:/A:/C: cards, schedules them, and lets the user review due cards
// either from the command line or over HTTP.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/knolcards/internal/config"
	"github.com/conorfennell/knolcards/internal/fsrs"
	"github.com/conorfennell/knolcards/internal/server"
	"github.com/conorfennell/knolcards/internal/store"
	"github.com/conorfennell/knolcards/internal/syncer"
)

func main() {
	fs := pflag.NewFlagSet("knolcards", pflag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	fs.String("dir", ".", "the directory to scan for markdown files")
	fs.String("db", "knolcards.db", "path to the SQLite database file")
	showDue := fs.Bool("show-due", false, "if set, show cards that are due for review and exit")
	serve := fs.Bool("serve", false, "if set, start the web server")
	fs.String("listen_addr", ":8080", "the address for the web server to listen on")
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	opts, err := config.Load(*configPath, fs)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := store.Open(opts.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	sched, err := fsrs.NewScheduler(opts.SchedulerOptions(), rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.Fatalf("failed to build scheduler: %v", err)
	}

	switch {
	case *serve:
		runWebServer(db, sched, opts.ListenAddr)
	case *showDue:
		showDueCards(db, sched)
	default:
		runSync(db, opts.Dir)
	}
}

func runWebServer(db *store.Store, sched *fsrs.Scheduler, addr string) {
	srv := server.New(db, sched)
	log.Printf("starting web server on %s", addr)
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatalf("failed to start web server: %v", err)
	}
}

func showDueCards(db *store.Store, sched *fsrs.Scheduler) {
	due, err := db.GetDueCards(sched.Clock().Now())
	if err != nil {
		log.Fatalf("failed to get due cards: %v", err)
	}
	fmt.Printf("Found %d cards due for review:\n", len(due))
	for _, rec := range due {
		fmt.Printf("- %s: %s (due %s)\n", rec.Hash, rec.Content.Question, rec.Card.Due.Format(time.RFC822))
	}
}

func runSync(db *store.Store, dir string) {
	existing, err := db.FindSourceByPath(dir)
	if err != nil {
		log.Fatalf("failed to look up source %s: %v", dir, err)
	}
	if existing == nil {
		log.Printf("source %s not registered yet, adding it", dir)
		if _, err := db.InsertSource(dir, "local"); err != nil {
			log.Fatalf("failed to insert source %s: %v", dir, err)
		}
	}

	report := syncer.RunSync(db)
	fmt.Printf("Sync %s complete. %d sources, %d cards found, %d added, %d orphaned deleted, %d errors.\n",
		report.RunID, report.SourcesScanned, report.CardsFound, report.CardsAdded, report.CardsOrphaned, len(report.Errors))
	if len(report.Errors) > 0 {
		fmt.Println("\nErrors during sync:")
		for _, e := range report.Errors {
			fmt.Printf("- %s\n", e)
		}
	}
}
