package server

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conorfennell/knolcards/internal/fsrs"
	"github.com/conorfennell/knolcards/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sched, err := fsrs.NewScheduler(fsrs.DefaultOptions(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	return New(st, sched), st
}

func TestServer_RootRedirectsToSources(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/sources" {
		t.Fatalf("Location = %q, want /sources", loc)
	}
}

func TestServer_GetSources_Empty(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No sources configured") {
		t.Fatalf("body missing empty-state message: %s", rec.Body.String())
	}
}

func TestServer_PostSource_AddsAndLists(t *testing.T) {
	s, _ := newTestServer(t)
	form := strings.NewReader("path=" + t.TempDir())
	req := httptest.NewRequest(http.MethodPost, "/sources", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestServer_DeckShowsNoDueCards(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/deck", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No cards due") {
		t.Fatalf("body = %s, want no-due-cards message", rec.Body.String())
	}
}
