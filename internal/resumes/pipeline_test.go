package resumes

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/extract"
)

func newTestStore(t *testing.T) *artifacts.Store {
	t.Helper()
	root := t.TempDir()
	store, err := artifacts.NewStore(filepath.Join(root, "uploads"), filepath.Join(root, "processed_data"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestPipelineUnsupportedSkipsLLM(t *testing.T) {
	store := newTestStore(t)
	client := &fakeLLM{}
	p := &Pipeline{Extractor: &extract.Extractor{}, Synth: NewSynthesizer(), Store: store}

	rec := p.Process(context.Background(), client, "resume.txt", "resume.txt")
	if rec.Error != "Unsupported file format" {
		t.Fatalf("error = %q", rec.Error)
	}
	if rec.SourceFile != "resume.txt" {
		t.Fatalf("source_file = %q", rec.SourceFile)
	}
	if client.jsonCalls != 0 {
		t.Fatalf("jsonCalls = %d, want 0 for failed extraction", client.jsonCalls)
	}

	records, err := store.ListRecords()
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want failure record persisted", len(records))
	}
	var persisted StructuredResume
	if err := json.Unmarshal(records[0].Data, &persisted); err != nil {
		t.Fatalf("unmarshal persisted record: %v", err)
	}
	if persisted.Error != "Unsupported file format" {
		t.Fatalf("persisted error = %q", persisted.Error)
	}
}

func TestPipelinePersistFailureDoesNotMaskRecord(t *testing.T) {
	client := &fakeLLM{}
	p := &Pipeline{Extractor: &extract.Extractor{}, Synth: NewSynthesizer(), Store: nil}

	rec := p.Process(context.Background(), client, "resume.txt", "resume.txt")
	if rec.Error != "Unsupported file format" {
		t.Fatalf("error = %q", rec.Error)
	}
}
