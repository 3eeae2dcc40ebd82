package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/llm"
)

type fakeLLM struct {
	calls   int
	replies []string
	errs    []error
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	var reply string
	var err error
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

func newChatRouter(t *testing.T, store *artifacts.Store, client llm.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := &Handler{
		Store:     store,
		Responder: NewResponder(),
		Factory: func(ctx context.Context) (llm.Client, error) {
			return client, nil
		},
	}
	r := gin.New()
	r.POST("/chatbot", h.Chatbot)
	return r
}

func newChatStore(t *testing.T) *artifacts.Store {
	t.Helper()
	root := t.TempDir()
	store, err := artifacts.NewStore(filepath.Join(root, "uploads"), filepath.Join(root, "processed"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func postChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chatbot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatbotMissingMessage(t *testing.T) {
	r := newChatRouter(t, newChatStore(t), &fakeLLM{})

	for _, body := range []string{`{}`, `{"message":"   "}`, `not json`} {
		w := postChat(t, r, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestChatbotNoResume(t *testing.T) {
	r := newChatRouter(t, newChatStore(t), &fakeLLM{})

	w := postChat(t, r, `{"message":"What is my experience?"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestChatbotReplies(t *testing.T) {
	store := newChatStore(t)
	if _, err := store.SaveRecord("jane.pdf", map[string]string{"name": "Jane"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	client := &fakeLLM{replies: []string{"Jane has five years of Go experience."}}
	r := newChatRouter(t, store, client)

	w := postChat(t, r, `{"message":"How much Go experience?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if resp["reply"] != "Jane has five years of Go experience." {
		t.Fatalf("reply = %q", resp["reply"])
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

func TestChatbotClosesClient(t *testing.T) {
	store := newChatStore(t)
	if _, err := store.SaveRecord("jane.pdf", map[string]string{"name": "Jane"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	client := &closingLLM{fakeLLM: fakeLLM{replies: []string{"Sure."}}}
	r := newChatRouter(t, store, client)

	w := postChat(t, r, `{"message":"Hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if client.closed != 1 {
		t.Fatalf("Close called %d times, want 1", client.closed)
	}
}

func TestChatbotDegradesToFallback(t *testing.T) {
	store := newChatStore(t)
	if _, err := store.SaveRecord("jane.pdf", map[string]string{"name": "Jane"}); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	boom := errors.New("quota exceeded")
	client := &fakeLLM{errs: []error{boom, boom, boom}}
	r := newChatRouter(t, store, client)

	w := postChat(t, r, `{"message":"Hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want degraded 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if resp["reply"] != FallbackReply {
		t.Fatalf("reply = %q, want fallback", resp["reply"])
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 3", client.calls)
	}
}
