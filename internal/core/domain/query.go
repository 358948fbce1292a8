package domain

import "fmt"

// ExcerptLength is the maximum number of characters kept in a citation excerpt.
const ExcerptLength = 300

// excerptEllipsis marks a truncated excerpt.
const excerptEllipsis = "..."

// Citation justifies a claim in an answer.
type Citation struct {
	FileName   string  `json:"fileName"`
	FilePath   string  `json:"filePath"`
	PageNumber int     `json:"pageNumber"`
	Excerpt    string  `json:"excerpt"`
	Score      float64 `json:"score"`
}

// QueryResult is the answer to a question.
// NotFound implies Citations is empty.
type QueryResult struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	NotFound  bool       `json:"notFound"`
}

// NewCitation builds a citation from a retrieved chunk.
func NewCitation(rc RetrievedChunk) Citation {
	return Citation{
		FileName:   rc.FileName,
		FilePath:   rc.FilePath,
		PageNumber: rc.PageNumber,
		Excerpt:    Excerpt(rc.Text),
		Score:      rc.Score,
	}
}

// Excerpt truncates text to ExcerptLength characters, appending an
// ellipsis when anything was cut.
func Excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= ExcerptLength {
		return text
	}
	return string(runes[:ExcerptLength]) + excerptEllipsis
}

// ErrorResult converts a query failure into a result the caller can render
// like any other answer.
func ErrorResult(err error) QueryResult {
	return QueryResult{
		Answer:    fmt.Sprintf("Error processing your query: %v", err),
		Citations: []Citation{},
		NotFound:  true,
	}
}
