package resumes

import (
	"context"
	"time"

	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/extract"
	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/telemetry"
)

// Pipeline runs one upload through extract, synthesize, and persist. It
// always returns a record; persistence failures are logged and never mask
// the result.
type Pipeline struct {
	Extractor *extract.Extractor
	Synth     *Synthesizer
	Store     *artifacts.Store
}

// Process extracts text from the stored upload at path and synthesizes a
// structured record attributed to sourceFile.
func (p *Pipeline) Process(ctx context.Context, client llm.Client, path, sourceFile string) StructuredResume {
	start := time.Now()
	record := p.process(ctx, client, path, sourceFile)
	metrics.ObservePipelineDuration(time.Since(start))

	if record.Failed() {
		metrics.IncResumeProcessed("failed")
	} else {
		metrics.IncResumeProcessed("ok")
	}
	p.persist(record, sourceFile)
	return record
}

func (p *Pipeline) process(ctx context.Context, client llm.Client, path, sourceFile string) StructuredResume {
	res := p.Extractor.FromFile(ctx, path)
	switch res.Status {
	case extract.StatusFailed, extract.StatusUnsupported:
		return ErrorRecord(sourceFile, res.Message())
	}

	// An empty document still flows to the model; its marker text stands in
	// for the resume body.
	text := res.Text
	if res.Status == extract.StatusEmpty {
		text = res.Message()
	}
	return p.Synth.Synthesize(ctx, client, text, sourceFile)
}

func (p *Pipeline) persist(record StructuredResume, sourceFile string) {
	if p.Store == nil {
		return
	}
	if _, err := p.Store.SaveRecord(sourceFile, record); err != nil {
		telemetry.Error("resume.persist_failed", map[string]any{
			"source_file": sourceFile,
			"error":       err.Error(),
		})
	}
}
