package resumes

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/telemetry"
)

// Synthesizer turns extracted resume text into a StructuredResume via the
// LLM. Every call yields a record: exhausted retries produce an error record
// instead of an error return.
type Synthesizer struct {
	Policy llm.Policy
}

// NewSynthesizer returns a synthesizer with the default retry budget.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{Policy: llm.DefaultPolicy()}
}

// Synthesize prompts the model in JSON mode, parses the reply, and stamps
// the source file. A reply that fails to parse counts as a failed attempt.
func (s *Synthesizer) Synthesize(ctx context.Context, client llm.Client, text, sourceFile string) StructuredResume {
	var resume StructuredResume
	prompt := structuredPrompt(text)

	err := s.Policy.Do(ctx, func(attempt int) error {
		raw, genErr := client.GenerateJSON(ctx, prompt, -1)
		if genErr == nil {
			resume = StructuredResume{}
			genErr = json.Unmarshal([]byte(raw), &resume)
		}
		if genErr != nil {
			metrics.IncLLMAttempt("parse_resume", "failed")
			telemetry.Warn("resume.synthesize.attempt_failed", map[string]any{
				"attempt":     attempt,
				"source_file": sourceFile,
				"error":       genErr.Error(),
			})
			return genErr
		}
		metrics.IncLLMAttempt("parse_resume", "ok")
		return nil
	})
	if err != nil {
		return ErrorRecord(sourceFile, fmt.Sprintf("API processing failed after 3 attempts: %s", err))
	}

	resume.SourceFile = sourceFile
	return resume
}
