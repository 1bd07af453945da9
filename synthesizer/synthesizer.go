package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/SonakshiKundu06/FloatChat/generator"
	"github.com/SonakshiKundu06/FloatChat/retriever"
)

const promptTemplate = `You are an intelligent assistant designed to answer questions about ARGO oceanographic data.
You have access to detailed observations including latitude, longitude, depth, time of measurement, temperature, and salinity.

Your tasks:
1. Answer clearly with temperature, salinity, and location details when available. If the answer is not in the context, say "I don't know".
2. Answer the user's question using the ARGO dataset context, or respond helpfully if the query is not about ARGO data.

Guidelines:
- Return a JSON object with fields "latitude", "longitude", "year", and "answer".
- If the question is casual (e.g., greetings like "hi", "hello", "how are you") or unrelated to ARGO data, respond politely and helpfully in "answer", keeping "latitude", "longitude", "year" as null.
- For ARGO-related queries, answer clearly with temperature, salinity, and location details when available.
- Cite specific data points or trends from the ARGO dataset if they exist.

Context:
%s

User Query:
%s

Output Format (JSON):
{
  "latitude": <latitude or null>,
  "longitude": <longitude or null>,
  "year": <year or null>,
  "answer": "<your answer here>"
}
`

type Synthesizer struct {
	generator generator.Generator
}

func New(generator generator.Generator) *Synthesizer {
	if generator == nil {
		panic("generator is required")
	}

	return &Synthesizer{
		generator: generator,
	}
}

// Synthesize composes the QA prompt from the retrieved documents and invokes
// the generation model. Model output that does not match the structured
// contract degrades to the raw text as the answer; only a failed generation
// call is an error.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []retriever.Result) (Answer, error) {
	prompt := fmt.Sprintf(promptTemplate, contextText(results), question)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Answer{}, fmt.Errorf("generate: %w", err)
	}

	answer := Answer{
		Sources: sources(results),
	}

	if out, ok := extract(raw); ok {
		answer.Latitude = out.Latitude
		answer.Longitude = out.Longitude
		answer.Answer = out.Answer
		if out.Year != nil {
			year := int(*out.Year)
			answer.Year = &year
		}
		return answer, nil
	}

	answer.Answer = raw

	return answer, nil
}

func contextText(results []retriever.Result) string {
	if len(results) == 0 {
		return "(no matching profiles)"
	}

	var sb strings.Builder
	for i, res := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(res.Document.Content)
	}

	return sb.String()
}

func sources(results []retriever.Result) []map[string]any {
	out := make([]map[string]any, 0, len(results))
	for _, res := range results {
		meta := res.Document.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		out = append(out, meta)
	}
	return out
}
