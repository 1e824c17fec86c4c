package driven

// ProfileDirectory resolves the process's private data directory.
// It is the only collaborator that depends on the host environment.
type ProfileDirectory interface {
	// DataDir returns the directory holding simple_storage.sqlite.
	DataDir() (string, error)
}
