// Package server exposes due cards and accepts review ratings over HTTP, a
// thin adapter over internal/store and internal/fsrs rendering embedded
// html/template views.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/conorfennell/knolcards/internal/fsrs"
	"github.com/conorfennell/knolcards/internal/store"
	"github.com/conorfennell/knolcards/internal/syncer"
)

//go:embed all:static
var staticFiles embed.FS

//go:embed all:templates
var templateFiles embed.FS

// Server holds the dependencies for the HTTP server.
type Server struct {
	store     *store.Store
	scheduler *fsrs.Scheduler
	router    *http.ServeMux
	templates *template.Template
}

// New creates and configures a new Server, wiring st and sched behind an
// HTTP surface for listing due cards and posting ratings.
func New(st *store.Store, sched *fsrs.Scheduler) *Server {
	tpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	s := &Server{
		store:     st,
		scheduler: sched,
		router:    http.NewServeMux(),
		templates: tpl,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("failed to create sub-filesystem for static assets: %v", err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	s.router.Handle("/static/", http.StripPrefix("/static/", fileServer))
	s.router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/sources", http.StatusFound)
	})

	s.router.HandleFunc("/deck", s.handleGetDeck())
	s.router.HandleFunc("/review/next", s.handleGetNextReview())
	s.router.HandleFunc("/review/answer/", s.handleShowAnswer())
	s.router.HandleFunc("/review/", s.handlePostReview())

	s.router.HandleFunc("/sources", s.handleSources())
	s.router.HandleFunc("/sources/", s.handleDeleteSource())
	s.router.HandleFunc("/sync", s.handlePostSync())
}

// handlePostSync triggers a manual reconciliation pass and re-renders the
// source list.
func (s *Server) handlePostSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		report := syncer.RunSync(s.store)
		log.Printf("manual sync via web requested: run %s, %d errors", report.RunID, len(report.Errors))

		s.renderSourceList(w)
	}
}

func (s *Server) handleSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSources(w, r)
		case http.MethodPost:
			s.handlePostSource(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.GetAllSources()
	if err != nil {
		log.Printf("error getting sources: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.render(w, "sources", map[string]any{"Sources": sources})
}

func (s *Server) handlePostSource(w http.ResponseWriter, r *http.Request) {
	path := r.PostFormValue("path")
	if path == "" {
		http.Error(w, "path cannot be empty", http.StatusBadRequest)
		return
	}

	sourceType := "local"
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") || strings.HasPrefix(path, "https://") {
		sourceType = "git"
	}

	if _, err := s.store.InsertSource(path, sourceType); err != nil {
		log.Printf("error inserting new source: %v", err)
		http.Error(w, "failed to add source", http.StatusInternalServerError)
		return
	}

	s.renderSourceList(w)
}

func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		idStr := strings.TrimPrefix(r.URL.Path, "/sources/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid source id", http.StatusBadRequest)
			return
		}

		if err := s.store.DeleteSource(id); err != nil {
			log.Printf("error deleting source %d: %v", id, err)
			http.Error(w, "failed to delete source", http.StatusInternalServerError)
			return
		}

		s.renderSourceList(w)
	}
}

func (s *Server) renderSourceList(w http.ResponseWriter) {
	sources, err := s.store.GetAllSources()
	if err != nil {
		log.Printf("error getting sources: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	s.render(w, "source_list", map[string]any{"Sources": sources})
}

// handleGetDeck renders the deck view, showing the number of due cards.
func (s *Server) handleGetDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		due, err := s.store.GetDueCards(s.scheduler.Clock().Now())
		if err != nil {
			log.Printf("error getting due cards for deck view: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		s.render(w, "deck", map[string]any{
			"DueCount":    len(due),
			"HasDueCards": len(due) > 0,
		})
	}
}

// handleGetNextReview renders the front of the next due card.
func (s *Server) handleGetNextReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		due, err := s.store.GetDueCards(s.scheduler.Clock().Now())
		if err != nil {
			log.Printf("error getting next due card: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if len(due) == 0 {
			s.render(w, "deck", map[string]any{"DueCount": 0, "HasDueCards": false})
			return
		}
		s.render(w, "card_front", due[0])
	}
}

// handleShowAnswer renders the back of a card.
func (s *Server) handleShowAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := strings.TrimPrefix(r.URL.Path, "/review/answer/")
		rec, err := s.store.FindByHash(hash)
		if err != nil || rec == nil {
			http.NotFound(w, r)
			return
		}
		s.render(w, "card_back", rec)
	}
}

// handlePostReview rates the card at hash and renders the next due card.
func (s *Server) handlePostReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := strings.TrimPrefix(r.URL.Path, "/review/")
		ratingStr := r.PostFormValue("rating")
		ratingInt, err := strconv.Atoi(ratingStr)
		if err != nil {
			http.Error(w, "invalid rating", http.StatusBadRequest)
			return
		}
		rating, err := fsrs.ParseRating(ratingInt)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid rating: %v", err), http.StatusBadRequest)
			return
		}

		rec, err := s.store.FindByHash(hash)
		if err != nil || rec == nil {
			http.NotFound(w, r)
			return
		}

		updated, reviewLog, err := s.scheduler.ReviewCardNow(rec.Card, rating)
		if err != nil {
			log.Printf("error reviewing card %s: %v", hash, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := s.store.SaveReview(updated, reviewLog); err != nil {
			log.Printf("error saving review for card %s: %v", hash, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		s.handleGetNextReview()(w, r)
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("error rendering template %s: %v", name, err)
	}
}
