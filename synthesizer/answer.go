package synthesizer

// Answer is the structured output of one question. The numeric fields are nil
// when the generation model judged them not applicable, and Sources carries
// the metadata of each retrieved document in retrieval order.
type Answer struct {
	Latitude  *float64         `json:"latitude"`
	Longitude *float64         `json:"longitude"`
	Year      *int             `json:"year"`
	Answer    string           `json:"answer"`
	Sources   []map[string]any `json:"sources"`
}
