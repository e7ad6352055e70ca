package main

import (
	"context"
	"errors"
	"os"

	pagesplice "github.com/alnah/go-pagesplice"
	"github.com/alnah/go-pagesplice/internal/config"
)

// Exit codes for the pagesplice CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every document converted or skipped
	ExitGeneral = 1 // Some documents failed, or an unexpected error
	ExitUsage   = 2 // Invalid flags, config, or rules
	ExitIO      = 3 // Root or document directory missing, permission denied
)

// Sentinel errors for CLI operations.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrInvalidFlags    = errors.New("invalid flags")
	ErrMissingArgument = errors.New("missing argument")
	ErrUnknownFamily   = errors.New("unknown family")
	ErrNoCatalog       = errors.New("family declares no reorder markers")
	ErrRootNotFound    = errors.New("document root not found")
	ErrDocumentsFailed = errors.New("documents need manual review")
	ErrInterrupted     = errors.New("interrupted")
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Per-document failures are reported, not classified further (exit 1)
	if errors.Is(err, ErrDocumentsFailed) ||
		errors.Is(err, ErrInterrupted) ||
		errors.Is(err, context.Canceled) {
		return ExitGeneral
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrRootNotFound) ||
		errors.Is(err, pagesplice.ErrDocumentNotFound) ||
		errors.Is(err, pagesplice.ErrReadDocument) ||
		errors.Is(err, pagesplice.ErrWriteFailure) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrUnknownFamily) ||
		errors.Is(err, ErrNoCatalog) ||
		errors.Is(err, pagesplice.ErrInvalidFamily) ||
		errors.Is(err, pagesplice.ErrInvalidRule) ||
		errors.Is(err, pagesplice.ErrInvalidPattern) ||
		errors.Is(err, pagesplice.ErrInvalidMatchMode) ||
		errors.Is(err, pagesplice.ErrInvalidTemplate) ||
		errors.Is(err, pagesplice.ErrNotCanonical) ||
		errors.Is(err, pagesplice.ErrInvalidSubstitution) ||
		errors.Is(err, pagesplice.ErrEmptyCatalog) ||
		errors.Is(err, pagesplice.ErrEmptyMarker) ||
		errors.Is(err, pagesplice.ErrDuplicateMarker) ||
		errors.Is(err, pagesplice.ErrInvalidOrder) ||
		errors.Is(err, pagesplice.ErrUnknownEncoding) {
		return ExitUsage
	}

	return ExitGeneral
}
