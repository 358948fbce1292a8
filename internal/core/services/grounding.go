package services

import (
	"errors"
	"strings"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
)

// Prompt placeholders.
const (
	PlaceholderContext  = "{context}"
	PlaceholderQuestion = "{question}"
)

// Refusal is the only reply the model may give when the excerpts do not
// contain the answer.
const Refusal = "I could not find information about this in your loaded documents. " +
	"Please ensure the relevant files are loaded."

// Markers that classify an answer as not found. Matched lower-case.
var notFoundMarkers = []string{"i could not find", "no relevant"}

// DefaultGroundingTemplate instructs the model to answer from the excerpts only.
const DefaultGroundingTemplate = `You are docvault, a private research assistant. You run entirely on this device and nothing you read leaves it.

Your only job is to help the user find information in the documents they have loaded. You are a retrieval tool, not an advisor.

Rules you must never break:
1. Answer ONLY from the document excerpts in the context below. Never use outside or pretrained knowledge. Never guess or invent facts.
2. Cite the exact file name and page number for every claim.
3. Support every claim with a verbatim quote from the excerpt it comes from.
4. If the excerpts do not contain the answer, reply with exactly this sentence and nothing else: "` + Refusal + `"
5. Never give legal, medical, financial or other professional advice or conclusions. If asked for one, remind the user that conclusions are theirs to draw from the cited material.

Context from loaded documents:
{context}

User question: {question}`

// Grounding fills the instruction template and classifies model answers.
type Grounding struct {
	prompts driven.PromptStore
}

// NewGrounding creates a grounding assembler. prompts may be nil, in which
// case the default template is always used.
func NewGrounding(prompts driven.PromptStore) *Grounding {
	return &Grounding{prompts: prompts}
}

// Template returns the custom grounding template when one is installed and
// has both placeholders, otherwise the default.
func (g *Grounding) Template() string {
	if g == nil || g.prompts == nil {
		return DefaultGroundingTemplate
	}

	custom, err := g.prompts.Load(driven.PromptGrounding)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("loading custom grounding prompt: %v", err)
		}
		return DefaultGroundingTemplate
	}

	if !strings.Contains(custom, PlaceholderContext) || !strings.Contains(custom, PlaceholderQuestion) {
		log.Warn("custom grounding prompt ignored: it must contain %s and %s",
			PlaceholderContext, PlaceholderQuestion)
		return DefaultGroundingTemplate
	}
	return custom
}

// Reload drops cached custom templates so the next Template reads them again.
func (g *Grounding) Reload() {
	if g != nil && g.prompts != nil {
		g.prompts.Reload()
	}
}

// BuildPrompt substitutes the context and question into the template.
// Substitution is a single pass, so placeholder text inside the context or
// question is left alone.
func (g *Grounding) BuildPrompt(context, question string) string {
	r := strings.NewReplacer(PlaceholderContext, context, PlaceholderQuestion, question)
	return r.Replace(g.Template())
}

// Classify turns a model answer into a QueryResult. A not-found answer
// never carries citations.
func Classify(answer string, retrieved []domain.RetrievedChunk) domain.QueryResult {
	result := domain.QueryResult{
		Answer:    answer,
		Citations: []domain.Citation{},
		NotFound:  IsNotFound(answer, len(retrieved)),
	}
	if result.NotFound {
		return result
	}

	for _, rc := range retrieved {
		result.Citations = append(result.Citations, domain.NewCitation(rc))
	}
	return result
}

// IsNotFound reports whether an answer reads as a refusal or nothing was retrieved.
func IsNotFound(answer string, retrieved int) bool {
	if retrieved == 0 {
		return true
	}
	lower := strings.ToLower(answer)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
