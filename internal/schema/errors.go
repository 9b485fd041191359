package schema

import (
	"errors"
	"strconv"
	"strings"
)

// Sentinel errors for the failure kinds of a generation run.
var (
	// ErrConfiguration indicates a required value with no derivable default.
	ErrConfiguration = errors.New("kqlgen: configuration error")
	// ErrTransport indicates a failed or unparsable metadata call.
	ErrTransport = errors.New("kqlgen: transport error")
	// ErrFilesystem indicates a failed directory or file operation.
	ErrFilesystem = errors.New("kqlgen: filesystem error")
	// ErrMalformedSignature indicates a function parameter list that is not a list of name:type pairs.
	ErrMalformedSignature = errors.New("kqlgen: malformed function signature")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("kqlgen: configuration error")
	if e.Field != "" {
		b.WriteString(" for ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// TransportError represents a failed metadata call against the remote system.
type TransportError struct {
	Op       string
	Database string
	Cause    error
}

// NewTransportError creates a new TransportError.
func NewTransportError(op, database string, cause error) *TransportError {
	return &TransportError{Op: op, Database: database, Cause: cause}
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString("kqlgen: transport error")
	if e.Op != "" {
		b.WriteString(" during ")
		b.WriteString(e.Op)
	}
	if e.Database != "" {
		b.WriteString(" on database ")
		b.WriteString(e.Database)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// FilesystemError represents a failed directory or file operation.
type FilesystemError struct {
	Op    string
	Path  string
	Cause error
}

// NewFilesystemError creates a new FilesystemError.
func NewFilesystemError(op, path string, cause error) *FilesystemError {
	return &FilesystemError{Op: op, Path: path, Cause: cause}
}

// Error implements the error interface.
func (e *FilesystemError) Error() string {
	var b strings.Builder
	b.WriteString("kqlgen: filesystem error")
	if e.Op != "" {
		b.WriteString(" during ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" of ")
		b.WriteString(e.Path)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *FilesystemError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrFilesystem.
func (e *FilesystemError) Is(target error) bool {
	return target == ErrFilesystem
}

// SignatureError represents a parameter list that could not be parsed.
type SignatureError struct {
	Function   string
	Parameters string
	Message    string
}

// Error implements the error interface.
func (e *SignatureError) Error() string {
	var b strings.Builder
	b.WriteString("kqlgen: malformed function signature")
	if e.Function != "" {
		b.WriteString(" for ")
		b.WriteString(e.Function)
	}
	b.WriteString(" ")
	b.WriteString(strconv.Quote(e.Parameters))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches ErrMalformedSignature.
func (e *SignatureError) Is(target error) bool {
	return target == ErrMalformedSignature
}
