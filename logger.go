// A lightweight, levelled logging package for Go. Renders records under a
// configurable metadata envelope (timestamp, pid/tid, severity, call site),
// optionally as JSON or with ANSI color, and fans each record out to any
// subset of console, file, internet socket and local-domain socket sinks.
package microlog

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
)

// Creates a concurrent-safe logger with the provided metadata flags:
// threshold TRACE, console sink enabled on [os.Stdout]. An initialization
// notice is emitted at INFO level.
//
// Preferred usage example:
//
//	func main() {
//	    logger := microlog.Init(microlog.FLAG_LEVEL, microlog.FLAG_TIME)
//	    defer logger.Close()
//	    ...
//	}
func Init(flags ...LogFlag) *Logger {
	return InitWithOutput(os.Stdout, flags...)
}

// InitWithOutput is Init with an explicit console destination (nil maps
// to [io.Discard]).
func InitWithOutput(console OutType, flags ...LogFlag) *Logger {
	return initWithGuard(&sync.Mutex{}, console, flags...)
}

// InitUnlocked constructs a single-threaded logger: the exclusion guard
// is a no-op, so the caller must serialize access externally if the
// logger is shared between goroutines.
func InitUnlocked(console OutType, flags ...LogFlag) *Logger {
	return initWithGuard(noGuard{}, console, flags...)
}

func initWithGuard(guard sync.Locker, console OutType, flags ...LogFlag) *Logger {
	l := &Logger{
		guard: guard,
		flags: NewFlagSet(flags...),
		sinks: NewSinkSet(SINK_CONSOLE),
	}
	l.level.Store(uint32(DEFAULT_LOG_LEVEL))
	l.SetConsole(console)
	l.Infof("Logger initialized")
	return l
}

// threshold returns the current severity threshold. Lock-free so the
// write pipeline can gate records before acquiring the guard.
func (l *Logger) threshold() LogLevel {
	return LogLevel(l.level.Load())
}

// Sets the severity threshold. Records below it are ignored; LVL_DISABLED
// suppresses all output. Invalid values fall back to the default.
func (l *Logger) SetLevel(level LogLevel) *Logger {
	if l == nil {
		return l
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	l.level.Store(uint32(normLevel(level)))
	return l
}

// Replaces the metadata flags with the provided set. An empty call yields
// a bare-message logger (no envelope, no separator).
func (l *Logger) SetFlags(flags ...LogFlag) *Logger {
	if l == nil {
		return l
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	l.flags = NewFlagSet(flags...)
	return l
}

// Replaces the set of enabled sink kinds. Enabling a kind does not attach
// its resource: writes to an enabled sink whose file/socket was never
// attached fail with the sink's write error kind.
func (l *Logger) SetSinks(kinds ...SinkKind) *Logger {
	if l == nil {
		return l
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	l.sinks = NewSinkSet(kinds...)
	return l
}

// Sets the console sink destination, [io.Discard] for nil.
func (l *Logger) SetConsole(console OutType) *Logger {
	if l == nil {
		return l
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	if console != nil {
		l.console = console
	} else {
		l.console = io.Discard
	}
	return l
}

// SetFile attaches a file sink: creates (or truncates) the file at path,
// closes any previously attached file first and enables SINK_FILE. A
// close failure of the old file is reported but does not block the
// replacement; an open failure leaves the file sink unattached and
// disabled.
func (l *Logger) SetFile(path string) error {
	if l == nil {
		return ErrLoggerNil
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	closeErr := l.detachFile()
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, DEFAULT_FILE_PERM)
	if err != nil {
		delete(l.sinks, SINK_FILE)
		return fmt.Errorf("%w: %v", ErrOpenFile, err)
	}
	l.file = file
	l.sinks[SINK_FILE] = true
	return closeErr
}

// SetInetSocket connects a TCP or UDP socket to addr:port, closes any
// previously attached inet socket first and enables SINK_INET as one
// unit. A connect failure leaves the inet sink unattached and disabled.
func (l *Logger) SetInetSocket(addr string, port int, proto SockProto) error {
	if l == nil {
		return ErrLoggerNil
	}
	if addr == "" {
		return ErrInetAddrEmpty
	}
	var network string
	switch proto {
	case PROTO_TCP:
		network = "tcp"
	case PROTO_UDP:
		network = "udp"
	default:
		return fmt.Errorf("%w: %d", ErrInvalidProto, proto)
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	closeErr := l.detachInet()
	conn, err := net.Dial(network, net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		delete(l.sinks, SINK_INET)
		return fmt.Errorf("%w: %v", ErrInetConnect, err)
	}
	l.inet = conn
	l.sinks[SINK_INET] = true
	return closeErr
}

// SetUnixSocket connects a local-domain stream socket to the given
// filesystem path, closes any previously attached unix socket first and
// enables SINK_UNIX as one unit.
func (l *Logger) SetUnixSocket(path string) error {
	if l == nil {
		return ErrLoggerNil
	}
	if path == "" {
		return ErrSockPathEmpty
	}
	l.guard.Lock()
	defer l.guard.Unlock()
	closeErr := l.detachUnix()
	conn, err := net.Dial("unix", path)
	if err != nil {
		delete(l.sinks, SINK_UNIX)
		return fmt.Errorf("%w: %v", ErrUnixConnect, err)
	}
	l.unix = conn
	l.sinks[SINK_UNIX] = true
	return closeErr
}

// The detach helpers close an owned resource and reset its sentinel so a
// later close can not touch it twice. Callers hold the guard.

func (l *Logger) detachFile() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCloseFile, err)
	}
	return nil
}

func (l *Logger) detachInet() error {
	if l.inet == nil {
		return nil
	}
	err := l.inet.Close()
	l.inet = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCloseInet, err)
	}
	return nil
}

func (l *Logger) detachUnix() error {
	if l.unix == nil {
		return nil
	}
	err := l.unix.Close()
	l.unix = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCloseUnix, err)
	}
	return nil
}

// Close emits a closing notice and releases every owned sink resource.
// Resources are reset to their nil sentinels even when closing one of
// them fails, so a double Close is harmless; the first close failure is
// returned. The logger itself stays usable for sinks that need no
// resource (console).
func (l *Logger) Close() error {
	if l == nil {
		return ErrLoggerNil
	}
	l.Infof("Closing logger")
	l.guard.Lock()
	defer l.guard.Unlock()
	errFile := l.detachFile()
	errInet := l.detachInet()
	errUnix := l.detachUnix()
	if errFile != nil {
		return errFile
	}
	if errInet != nil {
		return errInet
	}
	return errUnix
}

/////////////////////////////////////////////////////////////////////////////////////////
/*
The process-wide default logger: one explicitly constructed instance with
no special-cased behavior beyond being the target of the package-level
convenience calls. It does not exist until InitDefault is called.
*/

var (
	defMtx sync.RWMutex
	defLgr *Logger
)

// InitDefault constructs the process-wide default logger (concurrent-safe,
// console on [os.Stdout]) and makes it the target of the package-level
// convenience calls. A previous default is replaced but not closed.
func InitDefault(flags ...LogFlag) *Logger {
	l := Init(flags...)
	defMtx.Lock()
	defer defMtx.Unlock()
	defLgr = l
	return l
}

// Default returns the process-wide default logger, nil before InitDefault.
func Default() *Logger {
	defMtx.RLock()
	defer defMtx.RUnlock()
	return defLgr
}

// CloseDefault closes and detaches the process-wide default logger.
// Returns ErrLoggerNil if no default was initialized.
func CloseDefault() error {
	defMtx.Lock()
	l := defLgr
	defLgr = nil
	defMtx.Unlock()
	return l.Close()
}
