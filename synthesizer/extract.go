package synthesizer

import (
	"encoding/json"
	"regexp"
)

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

type structuredOutput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Year      *float64 `json:"year"`
	Answer    string   `json:"answer"`
}

// extract pulls the structured answer out of raw model output. The model may
// wrap the JSON object in a fenced code block or surrounding prose; if no
// parseable object with an answer field is found, ok is false and the caller
// falls back to the raw text.
func extract(raw string) (structuredOutput, bool) {
	candidates := [][]byte{}

	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, []byte(m[1]))
	}

	if obj, ok := firstObject(raw); ok {
		candidates = append(candidates, []byte(obj))
	}

	for _, candidate := range candidates {
		var out structuredOutput
		if err := json.Unmarshal(candidate, &out); err != nil {
			continue
		}
		if len(out.Answer) == 0 {
			continue
		}
		return out, true
	}

	return structuredOutput{}, false
}

// firstObject returns the first balanced {...} region of s, honoring JSON
// string literals so braces inside quoted text do not end the scan.
func firstObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
