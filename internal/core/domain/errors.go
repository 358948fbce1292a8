package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidSettings indicates a setting is outside its allowed range.
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrUnsupportedDocumentFormat indicates a file extension no parser handles.
	ErrUnsupportedDocumentFormat = errors.New("unsupported document format")

	// Pipeline Errors.

	// ErrNotInitialized indicates an operation was called before Initialize.
	// This is a programming error: callers must initialise first.
	ErrNotInitialized = errors.New("pipeline not initialized")

	// ErrEmbeddingFailed indicates the embedding service could not embed a text.
	// Non-fatal per chunk during ingestion, fatal during a query.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrGenerationFailed indicates the generation service could not answer.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrVectorStoreUnavailable indicates the vector store could not be opened.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrVectorStoreIO indicates a read or write against the vector store failed.
	ErrVectorStoreIO = errors.New("vector store I/O error")

	// ErrUnsupportedProvider indicates an unknown AI provider.
	ErrUnsupportedProvider = errors.New("unsupported AI provider")
)
