package domain

// AIStatus describes the local inference server as seen by a status check.
type AIStatus struct {
	// Provider is the configured provider.
	Provider AIProvider `json:"provider"`

	// BaseURL is the endpoint that was checked.
	BaseURL string `json:"baseUrl"`

	// Running is true when the server answered the model listing request.
	Running bool `json:"running"`

	// LLMModel is the configured generation model.
	LLMModel string `json:"llmModel"`

	// LLMAvailable is true when the generation model is installed.
	LLMAvailable bool `json:"llmAvailable"`

	// EmbedModel is the configured embedding model.
	EmbedModel string `json:"embedModel"`

	// EmbedAvailable is true when the embedding model is installed.
	EmbedAvailable bool `json:"embedAvailable"`

	// Models lists every model the server reported.
	Models []string `json:"models"`

	// Error holds the connection failure when Running is false.
	Error string `json:"error,omitempty"`
}

// Ready reports whether both models can be used.
func (s AIStatus) Ready() bool {
	return s.Running && s.LLMAvailable && s.EmbedAvailable
}
