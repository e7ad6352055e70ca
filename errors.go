package pagesplice

import "errors"

// Sentinel errors for document processing.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrReadDocument     = errors.New("failed to read document")
	ErrNoMatch          = errors.New("no marker or rule matched")
	ErrWriteFailure     = errors.New("write-back failed")
	ErrPlaceholder      = errors.New("placeholder rendering failed")

	// Encoding errors.
	ErrUnknownEncoding = errors.New("unknown document encoding")
	ErrDecode          = errors.New("document decoding failed")
	ErrEncode          = errors.New("document encoding failed")

	// Catalog validation errors.
	ErrEmptyCatalog    = errors.New("marker catalog is empty")
	ErrEmptyMarker     = errors.New("marker name and literal are required")
	ErrDuplicateMarker = errors.New("duplicate marker")
	ErrInvalidOrder    = errors.New("reorder must list every catalog segment exactly once")

	// Rule validation errors.
	ErrInvalidRule      = errors.New("invalid rewrite rule")
	ErrInvalidPattern   = errors.New("invalid rule pattern")
	ErrInvalidMatchMode = errors.New("invalid match mode")
	ErrInvalidTemplate  = errors.New("invalid placeholder template")
	ErrNotCanonical     = errors.New("placeholder does not contain a canonical signature")

	// Substitution validation errors.
	ErrInvalidSubstitution = errors.New("invalid substitution")

	// Family validation errors.
	ErrInvalidFamily = errors.New("invalid document family")
)
