// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorStore: Durable key to (vector, chunk metadata) map with cosine k-NN
//   - EmbeddingService: Turns text into vectors (local model)
//   - LLMService: Generates answers from a grounded prompt (local model)
//   - AIFactory: Builds embedding and LLM clients from settings
//   - DocumentParser: Extracts paginated text from a file
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - PromptStore: Custom prompt templates. Without it the built-in template is used.
//   - AIStatusChecker: Reports whether the inference server and models are available.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, normaliser, or postprocessor package
package driven
