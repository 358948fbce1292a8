package driven

// ConfigStore holds user settings under dotted keys such as "chunking.size".
// Typed getters return the zero value for missing keys and for values of
// another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores value and persists it before returning.
	Set(key string, value any) error

	// Delete drops key so the default applies again. Deleting a missing key
	// succeeds.
	Delete(key string) error

	// Save writes all values to the backing storage.
	Save() error

	// Load discards in-memory values and re-reads the backing storage.
	Load() error

	// Path describes where values are kept.
	Path() string
}
