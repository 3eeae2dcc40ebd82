package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/llm"
)

func newJobsRouter(t *testing.T, store *artifacts.Store, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := &Handler{
		Store:       store,
		Recommender: NewRecommender(),
		Factory: func(ctx context.Context) (llm.Client, error) {
			return client, nil
		},
	}
	r := gin.New()
	r.GET("/job-matches", h.JobMatches)
	return r
}

func newJobsStore(t *testing.T) *artifacts.Store {
	t.Helper()
	root := t.TempDir()
	store, err := artifacts.NewStore(filepath.Join(root, "uploads"), filepath.Join(root, "processed"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func getMatches(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, []Recommendation) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var recs []Recommendation
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("body %q is not a JSON array: %v", w.Body.String(), err)
	}
	return w, recs
}

func TestJobMatchesEmptyStore(t *testing.T) {
	r := newJobsRouter(t, newJobsStore(t), &fakeLLM{})

	w, recs := getMatches(t, r, "/job-matches")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(recs) != 0 {
		t.Fatalf("recs = %v, want empty array", recs)
	}
}

func TestJobMatchesUsesLatestResume(t *testing.T) {
	store := newJobsStore(t)
	if _, err := store.SaveRecord("jane.pdf", map[string]string{"name": "Jane"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	client := &fakeLLM{replies: []string{jobsJSON(t, job(nil))}}
	r := newJobsRouter(t, store, client)

	w, recs := getMatches(t, r, "/job-matches")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(recs) != 1 || recs[0].Title != "Backend Engineer" {
		t.Fatalf("recs = %+v", recs)
	}
}

func TestJobMatchesSelectsByResumeID(t *testing.T) {
	store := newJobsStore(t)
	if _, err := store.SaveRecord("alice.pdf", map[string]string{"name": "Alice"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := store.SaveRecord("bob.pdf", map[string]string{"name": "Bob"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	client := &fakeLLM{replies: []string{jobsJSON(t, job(nil))}}
	r := newJobsRouter(t, store, client)

	w, _ := getMatches(t, r, "/job-matches?resume_id=alice")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// Unknown fragment behaves like an empty store.
	w, recs := getMatches(t, r, "/job-matches?resume_id=charlie")
	if w.Code != http.StatusOK || len(recs) != 0 {
		t.Fatalf("status = %d, recs = %v, want 200 with empty array", w.Code, recs)
	}
}

type closingLLM struct {
	fakeLLM
	closed int
}

func (c *closingLLM) Close() error {
	c.closed++
	return nil
}

func TestJobMatchesClosesClient(t *testing.T) {
	store := newJobsStore(t)
	if _, err := store.SaveRecord("jane.pdf", map[string]string{"name": "Jane"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	client := &closingLLM{fakeLLM: fakeLLM{replies: []string{jobsJSON(t, job(nil))}}}
	r := newJobsRouter(t, store, client)

	w, _ := getMatches(t, r, "/job-matches")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if client.closed != 1 {
		t.Fatalf("Close called %d times, want 1", client.closed)
	}
}

func TestJobMatchesFailureStillArray(t *testing.T) {
	store := newJobsStore(t)
	if _, err := store.SaveRecord("jane.pdf", map[string]string{"name": "Jane"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	client := &fakeLLM{replies: []string{"nope", "nope", "nope"}}
	r := newJobsRouter(t, store, client)

	w, recs := getMatches(t, r, "/job-matches")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if len(recs) != 0 {
		t.Fatalf("recs = %v, want empty array on failure", recs)
	}
}
