// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Pipeline is the retrieval-augmented generation core: it chunks and
// embeds documents into a vector store, keeps a Registry of loaded documents
// reconciled from that store, and answers questions through a Retriever and
// the Grounding assembler.
package services
