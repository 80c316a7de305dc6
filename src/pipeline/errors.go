package pipeline

import "errors"

var (
	// ErrMissingInputDirectory means the capture directory does not exist.
	// Nothing is processed.
	ErrMissingInputDirectory = errors.New("input directory does not exist")

	// ErrMasterLoad means the master document is missing, unreadable,
	// unparsable or empty. The run aborts before any fixture is written.
	ErrMasterLoad = errors.New("master document could not be loaded")

	// ErrDocumentLoad marks a non-master document that was skipped.
	ErrDocumentLoad = errors.New("document could not be loaded")

	// ErrUnrecognizedInput marks an input file that no declared role covers.
	ErrUnrecognizedInput = errors.New("unrecognized input file")
)
