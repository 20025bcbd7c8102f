package cli

import (
	"github.com/roach88/itemdata/internal/keys"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeOpenFailed  = "E002" // Database open error
	ErrCodeInvalidArg  = "E003" // Malformed id, key, kind or value
	ErrCodeReadFailed  = "E004" // Database or file read error
	ErrCodeNotFound    = "E005" // Instance or key not found
	ErrCodeWriteFailed = "E007" // Database or file write error

	// Data errors
	ErrCodeKindMismatch = "E104" // Stored value does not decode as the requested kind

	// Registry errors
	ErrCodeRegistry    = "E110" // Registry file could not be loaded
	ErrCodeCheckFailed = "E111" // Attachment violates the registry
	ErrCodeCorrupt     = "E112" // Stored data failed verification
)

// loadRegistry returns the built-in key registry, extended from path when
// one is given.
func loadRegistry(path string) (*keys.Registry, error) {
	r := keys.Default()
	if path == "" {
		return r, nil
	}
	if err := r.LoadFile(path); err != nil {
		return nil, err
	}
	return r, nil
}
