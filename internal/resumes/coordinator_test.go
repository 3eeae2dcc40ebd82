package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"resume-parser-backend/internal/extract"
	"resume-parser-backend/internal/llm"
)

func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	doc := `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newTestCoordinator(t *testing.T, factory llm.Factory, workers int) *Coordinator {
	t.Helper()
	store := newTestStore(t)
	return &Coordinator{
		Store:    store,
		Pipeline: &Pipeline{Extractor: &extract.Extractor{}, Synth: NewSynthesizer(), Store: store},
		Factory:  factory,
		Workers:  workers,
	}
}

func TestProcessBatchRejectsEmpty(t *testing.T) {
	c := newTestCoordinator(t, func(ctx context.Context) (llm.Client, error) {
		return &fakeLLM{}, nil
	}, 1)

	if _, err := c.ProcessBatch(context.Background(), nil); err != ErrNoValidFiles {
		t.Fatalf("err = %v, want ErrNoValidFiles", err)
	}
	if _, err := c.ProcessBatch(context.Background(), []Upload{{Name: ""}}); err != ErrNoValidFiles {
		t.Fatalf("err = %v, want ErrNoValidFiles for unnamed upload", err)
	}
}

func TestProcessBatchOneResultPerFile(t *testing.T) {
	c := newTestCoordinator(t, func(ctx context.Context) (llm.Client, error) {
		return &fakeLLM{replies: []string{`{"name":"A"}`, `{"name":"B"}`, `{"name":"C"}`}}, nil
	}, 2)

	docx := docxBytes(t, "some resume text")
	uploads := []Upload{
		{Name: "one.docx", Content: bytes.NewReader(docx)},
		{Name: "two.txt", Content: strings.NewReader("plain text")},
		{Name: "three.docx", Content: bytes.NewReader(docx)},
	}

	results, err := c.ProcessBatch(context.Background(), uploads)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	bySource := map[string]StructuredResume{}
	for _, rec := range results {
		bySource[rec.SourceFile] = rec
	}
	for _, name := range []string{"one.docx", "two.txt", "three.docx"} {
		if _, ok := bySource[name]; !ok {
			t.Fatalf("missing result for %q: %v", name, bySource)
		}
	}
	if !bySource["two.txt"].Failed() {
		t.Fatal("unsupported file should yield an error record")
	}
	if bySource["one.docx"].Failed() {
		t.Fatalf("one.docx failed: %q", bySource["one.docx"].Error)
	}
}

func TestProcessBatchClientPerWorker(t *testing.T) {
	var mu sync.Mutex
	created := 0
	factory := func(ctx context.Context) (llm.Client, error) {
		mu.Lock()
		defer mu.Unlock()
		created++
		return &fakeLLM{replies: []string{`{"name":"X"}`, `{"name":"X"}`, `{"name":"X"}`, `{"name":"X"}`}}, nil
	}
	c := newTestCoordinator(t, factory, 2)

	docx := docxBytes(t, "text")
	var uploads []Upload
	for _, name := range []string{"a.docx", "b.docx", "c.docx", "d.docx"} {
		uploads = append(uploads, Upload{Name: name, Content: bytes.NewReader(docx)})
	}

	if _, err := c.ProcessBatch(context.Background(), uploads); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if created > 2 {
		t.Fatalf("factory invoked %d times, want at most one client per worker", created)
	}
	if created == 0 {
		t.Fatal("factory never invoked")
	}
}

type panickingLLM struct{}

func (panickingLLM) GenerateJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	panic("worker blew up")
}

func (panickingLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	panic("worker blew up")
}

func TestProcessBatchDefendsPanics(t *testing.T) {
	c := newTestCoordinator(t, func(ctx context.Context) (llm.Client, error) {
		return panickingLLM{}, nil
	}, 1)

	docx := docxBytes(t, "text")
	results, err := c.ProcessBatch(context.Background(), []Upload{
		{Name: "boom.docx", Content: bytes.NewReader(docx)},
	})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if !results[0].Failed() {
		t.Fatal("panicking task should yield an error record")
	}
	if !strings.Contains(results[0].Error, "worker blew up") {
		t.Fatalf("error = %q", results[0].Error)
	}
	if !strings.HasSuffix(results[0].SourceFile, "_boom.docx") {
		t.Fatalf("source_file = %q, want stored filename", results[0].SourceFile)
	}
}
