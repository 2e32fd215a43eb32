package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Catalogue errors
	ErrCatalogueNotConfigured = "CATALOGUE_NOT_CONFIGURED"
	ErrCatalogueInvalid       = "CATALOGUE_INVALID"
	ErrMethodNotFound         = "METHOD_NOT_FOUND"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"
	ErrSyntax       = "SYNTAX_ERROR"
	ErrQueryInvalid = "QUERY_INVALID"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)
