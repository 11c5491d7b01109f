package ports

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it and its parent directories if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Size returns the size of a file in bytes.
	Size(path string) (int64, error)

	// TempFile creates an empty temporary file whose name matches pattern
	// (as in os.CreateTemp) and returns its path.
	TempFile(pattern string) (string, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// IsDir reports whether path is an existing directory.
	IsDir(path string) (bool, error)

	// ReadDir returns the names of the entries in a directory, sorted.
	ReadDir(path string) ([]string, error)
}
