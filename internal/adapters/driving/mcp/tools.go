package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of excerpts to retrieve (1-20, default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string           `json:"answer"`
	NotFound  bool             `json:"not_found"`
	Citations []CitationOutput `json:"citations"`
}

// CitationOutput is one source supporting an answer.
type CitationOutput struct {
	FileName   string  `json:"file_name"`
	FilePath   string  `json:"file_path"`
	PageNumber int     `json:"page_number"`
	Excerpt    string  `json:"excerpt"`
	Score      float64 `json:"score"`
}

// ListDocumentsInput is the (empty) input schema for list_documents.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for list_documents.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes a loaded document.
type DocumentOutput struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path"`
	TotalPages int    `json:"total_pages"`
	WordCount  int    `json:"word_count"`
	ChunkCount int    `json:"chunk_count"`
	LoadedAt   string `json:"loaded_at"`
}

// RemoveDocumentInput is the input schema for remove_document.
type RemoveDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to remove, as returned by list_documents"`
}

// RemoveDocumentOutput is the output schema for remove_document.
type RemoveDocumentOutput struct {
	Removed bool `json:"removed"`
}

// AddDocumentInput is the input schema for add_document.
type AddDocumentInput struct {
	Path string `json:"path" jsonschema:"absolute path to a PDF or DOCX file, or a folder of them"`
}

// AddDocumentOutput is the output schema for add_document.
type AddDocumentOutput struct {
	Added  []DocumentOutput `json:"added"`
	Failed []string         `json:"failed,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "ask",
		Description: "Answer a question using only the locally loaded documents. " +
			"Returns the answer with file and page citations.",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents currently loaded",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a loaded document and all of its indexed excerpts",
	}, s.handleRemoveDocument)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "add_document",
			Description: "Load a PDF or DOCX file, or every such file in a folder",
		}, s.handleAddDocument)
	}
}

// handleAsk handles the ask tool invocation. Pipeline failures are
// reported as an error answer rather than a tool error.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	result, err := s.ask(ctx, question, input.TopK)
	if err != nil {
		result = domain.ErrorResult(err)
	}
	return nil, toAskOutput(result), nil
}

func (s *Server) ask(ctx context.Context, question string, topK int) (domain.QueryResult, error) {
	settings, err := s.ports.ready(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}
	if topK >= domain.MinTopK && topK <= domain.MaxTopK {
		settings.TopK = topK
	}
	return s.ports.Pipeline.Query(ctx, question, settings)
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if _, err := s.ports.ready(ctx); err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	files, err := s.ports.Pipeline.ListDocuments()
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(files)),
		Count:     len(files),
	}
	for i, f := range files {
		output.Documents[i] = toDocumentOutput(f)
	}
	return nil, output, nil
}

// handleRemoveDocument handles the remove_document tool invocation.
func (s *Server) handleRemoveDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveDocumentInput,
) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	id := strings.TrimSpace(input.DocumentID)
	if id == "" {
		return nil, RemoveDocumentOutput{}, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	if _, err := s.ports.ready(ctx); err != nil {
		return nil, RemoveDocumentOutput{}, err
	}

	files, err := s.ports.Pipeline.ListDocuments()
	if err != nil {
		return nil, RemoveDocumentOutput{}, err
	}
	known := false
	for _, f := range files {
		if f.ID == id {
			known = true
			break
		}
	}

	if err := s.ports.Pipeline.RemoveDocument(ctx, id); err != nil {
		return nil, RemoveDocumentOutput{}, err
	}
	return nil, RemoveDocumentOutput{Removed: known}, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, AddDocumentOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	results, err := s.ports.Ingest.AddPaths(ctx, []string{path})
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}

	output := AddDocumentOutput{Added: []DocumentOutput{}}
	for _, r := range results {
		if r.Err != nil {
			output.Failed = append(output.Failed, fmt.Sprintf("%s: %v", r.Path, r.Err))
			continue
		}
		output.Added = append(output.Added, toDocumentOutput(r.File))
	}
	return nil, output, nil
}

func toAskOutput(result domain.QueryResult) AskOutput {
	output := AskOutput{
		Answer:    result.Answer,
		NotFound:  result.NotFound,
		Citations: make([]CitationOutput, 0, len(result.Citations)),
	}
	for _, c := range result.Citations {
		output.Citations = append(output.Citations, CitationOutput{
			FileName:   c.FileName,
			FilePath:   c.FilePath,
			PageNumber: c.PageNumber,
			Excerpt:    c.Excerpt,
			Score:      c.Score,
		})
	}
	return output
}

func toDocumentOutput(f domain.FileInfo) DocumentOutput {
	return DocumentOutput{
		ID:         f.ID,
		FileName:   f.FileName,
		FilePath:   f.FilePath,
		TotalPages: f.TotalPages,
		WordCount:  f.WordCount,
		ChunkCount: f.ChunkCount,
		LoadedAt:   f.LoadedAt.Format(time.RFC3339),
	}
}
