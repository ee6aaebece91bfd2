package models

// RawDocument is an uploaded file before text extraction.
type RawDocument struct {
	Name string
	Data []byte
}

// Document is a named document with its extracted text.
type Document struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func NewDocument(name string, text string) *Document {
	return &Document{
		Name: name,
		Text: text,
	}
}

// NormalizationOptions control how keywords and document text are canonicalized.
// Stripping of non-alphanumeric characters is always applied.
type NormalizationOptions struct {
	IgnoreCase    bool `json:"ignore_case"`
	IgnoreAccents bool `json:"ignore_accents"`
}

// MatchOptions control the fuzzy fallback of the matcher.
type MatchOptions struct {
	Fuzzy bool `json:"fuzzy"`
	// Threshold is a percentage in [0,100].
	Threshold float64 `json:"threshold"`
	// AutoJunk enables difflib's popular-element heuristic for texts of 200+ characters.
	AutoJunk bool `json:"auto_junk"`
}
