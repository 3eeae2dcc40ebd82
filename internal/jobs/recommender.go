package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/shared/metrics"
	"resume-parser-backend/internal/shared/telemetry"
)

// ErrResumeUnusable means the selected resume is an error record and cannot
// seed recommendations.
var ErrResumeUnusable = errors.New("cannot generate recommendations due to resume parsing error")

const maxRecommendations = 5

// Recommendation is one job match in the shape the frontend consumes.
type Recommendation struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	MatchScore  int      `json:"matchScore"`
	Salary      string   `json:"salary"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

const recommendPromptTemplate = `Based on the following resume data, provide exactly 5 job recommendations in JSON array format.
Each job should have this structure:
{
    "title": "string (job title)",
    "company": "string (company name)",
    "location": "string (job location)",
    "description": "string (detailed job description)",
    "match_score": number (0-100),
    "salary": "string (salary range)",
    "skills": ["array of required skills"]
}

Instructions:
1. Use the candidate's skills, experience, and education to suggest relevant jobs
2. Ensure match_score is a number between 0-100 based on skill match
3. Include salary ranges based on experience level and job market
4. Return exactly 5 job recommendations
5. Include relevant skills required for each position
6. Format as a JSON array without any additional text

Resume data:
%s
`

// Recommender turns a stored structured resume into a ranked list of job
// matches.
type Recommender struct {
	Policy llm.Policy
}

// NewRecommender returns a recommender with the default retry budget.
func NewRecommender() *Recommender {
	return &Recommender{Policy: llm.DefaultPolicy()}
}

// Recommend prompts the model with the resume JSON and coerces the reply
// into at most five canonical recommendations. A reply that is not a JSON
// array counts as a failed attempt.
func (r *Recommender) Recommend(ctx context.Context, client llm.Client, resume json.RawMessage) ([]Recommendation, error) {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resume, &probe); err == nil && probe.Error != "" {
		return nil, ErrResumeUnusable
	}

	prompt := fmt.Sprintf(recommendPromptTemplate, indentJSON(resume))

	var recs []Recommendation
	err := r.Policy.Do(ctx, func(attempt int) error {
		raw, genErr := client.GenerateJSON(ctx, prompt, 0.7)
		if genErr == nil {
			recs, genErr = coerceRecommendations(raw)
		}
		if genErr != nil {
			metrics.IncLLMAttempt("job_matches", "failed")
			telemetry.Warn("jobs.recommend.attempt_failed", map[string]any{
				"attempt": attempt,
				"error":   genErr.Error(),
			})
			return genErr
		}
		metrics.IncLLMAttempt("job_matches", "ok")
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate job recommendations after 3 attempts: %w", err)
	}
	return recs, nil
}

func coerceRecommendations(raw string) ([]Recommendation, error) {
	var rawJobs []map[string]any
	if err := json.Unmarshal([]byte(raw), &rawJobs); err != nil {
		return nil, fmt.Errorf("response is not an array of jobs: %w", err)
	}

	if len(rawJobs) > maxRecommendations {
		rawJobs = rawJobs[:maxRecommendations]
	}

	recs := make([]Recommendation, 0, len(rawJobs))
	for idx, job := range rawJobs {
		score, err := coerceScore(job["match_score"])
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", idx+1, err)
		}
		recs = append(recs, Recommendation{
			ID:          idx + 1,
			Title:       stringField(job, "title", "Position Not Specified"),
			Company:     stringField(job, "company", "Company Not Specified"),
			Location:    stringField(job, "location", "Location Not Specified"),
			MatchScore:  score,
			Salary:      stringField(job, "salary", "Salary Not Specified"),
			Description: stringField(job, "description", "No description available"),
			Skills:      stringSlice(job["skills"]),
		})
	}
	return recs, nil
}

// coerceScore accepts numbers and numeric strings, truncates toward zero,
// and clamps to [0, 100]. A missing score is 0; a non-numeric one is an
// error, not a silent zero.
func coerceScore(v any) (int, error) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, nil
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("match_score %q is not numeric", val)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("match_score has unsupported type %T", v)
	}

	score := int(f)
	if score < 0 {
		return 0, nil
	}
	if score > 100 {
		return 100, nil
	}
	return score, nil
}

func stringField(job map[string]any, key, fallback string) string {
	if v, ok := job[key].(string); ok {
		return v
	}
	return fallback
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func indentJSON(raw json.RawMessage) string {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}
