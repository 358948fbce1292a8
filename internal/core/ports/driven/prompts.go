package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns an error wrapping domain.ErrNotFound when no custom prompt exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// PromptGrounding is the answer-from-context instruction template.
// It must contain the {context} and {question} placeholders.
const PromptGrounding = "grounding"
