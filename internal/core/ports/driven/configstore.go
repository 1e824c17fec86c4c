package driven

// ConfigStore holds application settings under dot-notation keys such as
// "storage.data_dir". Typed getters return the zero value when the key is
// missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	// GetFloat also accepts integer values.
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores value and persists it before returning.
	Set(key string, value any) error

	// Keys returns every key, sorted.
	Keys() []string

	// Load discards in-memory values and re-reads the backing file.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
