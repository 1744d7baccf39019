package engine

import "errors"

// Error categories surfaced to callers. Wrap with fmt.Errorf("...: %w", Err...)
// and test with errors.Is.
var (
	// ErrConfiguration means a catalogue file is missing, unreadable or malformed.
	ErrConfiguration = errors.New("configuration error")
	// ErrIngestion means no text could be extracted from any submitted document.
	ErrIngestion = errors.New("ingestion failure")
	// ErrProvider means the findings provider failed or returned no usable findings.
	ErrProvider = errors.New("findings provider failure")
)
