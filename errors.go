package microlog

import "errors"

/*
Error kinds returned by logger operations. Every fallible operation wraps
one of these sentinels so callers can classify failures with [errors.Is]
while still seeing the underlying cause in the message.

Kinds group the same way the historical numeric codes did: configuration
errors (bad settings input, nil logger), resource errors (open/connect/
close failures) and I/O errors (a write to a specific sink failed).
*/

var (
	// Configuration errors.
	ErrLoggerNil        = errors.New("logger is nil")
	ErrUnknownDirective = errors.New("unknown settings directive")
	ErrUnknownLevel     = errors.New("unknown level")
	ErrUnknownFlag      = errors.New("unknown flag")
	ErrInvalidFileLine  = errors.New("invalid file setting")
	ErrInvalidPort      = errors.New("invalid port")
	ErrInvalidProto     = errors.New("invalid protocol")
	ErrInetAddrEmpty    = errors.New("inet socket address is empty")
	ErrSockPathEmpty    = errors.New("unix socket path is empty")

	// Resource errors.
	ErrOpenFile    = errors.New("error opening log file")
	ErrCloseFile   = errors.New("error closing log file")
	ErrInetConnect = errors.New("error connecting inet socket")
	ErrUnixConnect = errors.New("error connecting unix socket")
	ErrCloseInet   = errors.New("error closing inet socket")
	ErrCloseUnix   = errors.New("error closing unix socket")

	// I/O errors, one kind per sink so the failing stage is diagnosable.
	ErrWriteConsole = errors.New("console write failed")
	ErrWriteFile    = errors.New("file write failed")
	ErrWriteInet    = errors.New("inet socket write failed")
	ErrWriteUnix    = errors.New("unix socket write failed")
)
