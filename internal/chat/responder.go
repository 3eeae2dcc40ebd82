package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/telemetry"
)

// FallbackReply is returned when every LLM attempt fails. The chat surface
// degrades to an apology instead of surfacing an error to the client.
const FallbackReply = "Sorry, I'm having trouble answering right now. Please try again in a moment."

const chatPromptTemplate = `You are a helpful assistant answering questions about a candidate's resume.
Answer using only the information in the resume data below. If the question
is unrelated to the resume or the answer is not in the resume, politely say
you can only answer questions about the resume. Do not add commentary
beyond the answer itself.

Resume data:
%s

Question:
%s
`

// Responder answers free-text questions about a stored resume.
type Responder struct {
	Policy llm.Policy
}

// NewResponder returns a responder with the default retry budget.
func NewResponder() *Responder {
	return &Responder{Policy: llm.DefaultPolicy()}
}

// Reply prompts the model with the resume and message in plain-text mode.
// Exhausted retries degrade to FallbackReply rather than an error.
func (r *Responder) Reply(ctx context.Context, client llm.Client, resume json.RawMessage, message string) string {
	prompt := fmt.Sprintf(chatPromptTemplate, string(resume), message)

	var reply string
	err := r.Policy.Do(ctx, func(attempt int) error {
		text, genErr := client.GenerateText(ctx, prompt)
		if genErr == nil && strings.TrimSpace(text) == "" {
			genErr = fmt.Errorf("empty reply")
		}
		if genErr != nil {
			metrics.IncLLMAttempt("chat", "failed")
			telemetry.Warn("chat.attempt_failed", map[string]any{
				"attempt": attempt,
				"error":   genErr.Error(),
			})
			return genErr
		}
		metrics.IncLLMAttempt("chat", "ok")
		reply = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return FallbackReply
	}
	return reply
}
