package retriever

// Document is one profile summary prepared for indexing.
type Document struct {
	Id       string
	Content  string
	Metadata map[string]any
}

// Result pairs a retrieved document with its relevance score.
type Result struct {
	Document Document
	Score    float32
}
