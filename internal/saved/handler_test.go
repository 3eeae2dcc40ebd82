package saved

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/accounts"
	"resume-parser-backend/internal/shared/auth"
	"resume-parser-backend/internal/shared/server/middleware"
)

type fixture struct {
	router   *gin.Engine
	accounts *accounts.MemoryRepo
	token    string
	userID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewManager("test-secret")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	accountRepo := accounts.NewMemoryRepo()
	account := accounts.Account{ID: "acc-1", Email: "jane@example.com", Name: "Jane"}
	if err := accountRepo.Create(context.Background(), account); err != nil {
		t.Fatalf("Create account: %v", err)
	}
	token, err := tokens.Issue(auth.Claims{UserID: account.ID, Email: account.Email}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	h := &Handler{Service: NewService(NewMemoryRepo(accountRepo))}
	r := gin.New()
	authed := r.Group("/api", middleware.RequireAuth(tokens))
	authed.POST("/save-resume", h.SaveResume)
	authed.GET("/get-saved-resumes", h.GetSavedResumes)

	return &fixture{router: r, accounts: accountRepo, token: token, userID: account.ID}
}

func (f *fixture) do(t *testing.T, method, path, body string, withToken bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSaveResumeRequiresAuth(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/save-resume", `{"resume_data":{"name":"Jane"}}`, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestSaveResumeAppendsToAccount(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/save-resume", `{"resume_data":{"name":"Jane"}}`, true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if resp["resume_id"] == "" {
		t.Fatalf("body = %s, want resume_id", w.Body.String())
	}

	account, err := f.accounts.GetByID(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(account.SavedResumeIDs) != 1 || account.SavedResumeIDs[0] != resp["resume_id"] {
		t.Fatalf("saved ids = %v, want [%s]", account.SavedResumeIDs, resp["resume_id"])
	}
}

func TestSaveResumeRejectsBadBody(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{`{}`, `{"resume_data":"not an object"}`, `{"resume_data":[1,2]}`} {
		w := f.do(t, http.MethodPost, "/api/save-resume", body, true)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestGetSavedResumes(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/get-saved-resumes", "", true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty list status = %d, want 404", w.Code)
	}

	if w := f.do(t, http.MethodPost, "/api/save-resume", `{"resume_data":{"name":"Jane"}}`, true); w.Code != http.StatusOK {
		t.Fatalf("save status = %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/get-saved-resumes", "", true)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Resumes []struct {
			ID         string          `json:"id"`
			ResumeData json.RawMessage `json:"resume_data"`
		} `json:"resumes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if len(resp.Resumes) != 1 {
		t.Fatalf("len(resumes) = %d, want 1", len(resp.Resumes))
	}
	if !strings.Contains(string(resp.Resumes[0].ResumeData), "Jane") {
		t.Fatalf("resume_data = %s", resp.Resumes[0].ResumeData)
	}
}
