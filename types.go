package microlog

/*
Defines the core data types used by the logger:
  - basetype and a small set of typed aliases for clarity
  - LogLevel, LogFlag, SinkKind, SockProto enums with their external
    vocabulary (settings-file keywords, rendered names)
  - FlagSet/SinkSet: explicit sets with a fixed, package-defined
    iteration order used when rendering and fanning out
  - Logger: the central state object holding the severity threshold,
    metadata flags, enabled sinks and the owned sink resources

Also defines package-wide constants, level name/color tables and
normalization helpers.
*/

import (
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
)

type basetype byte // basetype is the underlying byte-sized representation used for enums

type LogLevel basetype  // Severity levels (alias for byte)
type LogFlag basetype   // Metadata/render toggles
type SinkKind basetype  // Output sink kinds
type SockProto basetype // Inet socket protocols

type OutType io.Writer // Console sink destination (alias for io.Writer)

// FlagSet is an explicit set of metadata/render toggles. Iteration over a
// FlagSet goes through fieldOrder, never over the map itself, so rendered
// field order is independent of how the flags were enabled.
type FlagSet map[LogFlag]bool

// SinkSet is an explicit set of enabled sink kinds. Fanout iterates it
// through sinkOrder.
type SinkSet map[SinkKind]bool

// Logger is the central state holder: the severity threshold, the metadata
// flags, the set of enabled sinks and the owned sink resources. One guard
// spans record writes and every mutator so a sink can not be closed or
// replaced mid-write and no two records interleave their bytes.
type Logger struct {
	guard   sync.Locker   // exclusion for writes and mutators (no-op when built unlocked)
	level   atomic.Uint32 // LogLevel threshold, read lock-free by the severity gate
	flags   FlagSet       // enabled metadata/render toggles
	sinks   SinkSet       // enabled sink kinds
	console OutType       // console sink destination, never nil ([os.Stdout] by default)
	file    *os.File      // file sink resource (nil while unattached)
	inet    net.Conn      // internet socket sink resource (nil while unattached)
	unix    net.Conn      // local-domain socket sink resource (nil while unattached)
}

// LevelMap is a fixed-size array with one entry per log level. Used for
// level names and their colored forms.
type LevelMap [_LVL_MAX_for_checks_only]string

/////////////////////////////////////////////////////////////////////////////////////////

const (
	// Log level values. LVL_DISABLED is a threshold-only sentinel that
	// suppresses all output and is never rendered as a record level. The
	// trailing _LVL_MAX_for_checks_only is used as an exclusive upper
	// bound for normalization checks.
	LVL_TRACE LogLevel = iota
	LVL_DEBUG
	LVL_INFO
	LVL_WARN
	LVL_ERROR
	LVL_FATAL
	LVL_DISABLED
	_LVL_MAX_for_checks_only
)

const (
	// Metadata/render toggles. FLAG_JSON and FLAG_COLOR influence framing
	// rather than contributing an envelope field; JSON forces color off in
	// the rendered output regardless of FLAG_COLOR.
	FLAG_LEVEL LogFlag = iota
	FLAG_DATE
	FLAG_TIME
	FLAG_PID
	FLAG_TID
	FLAG_JSON
	FLAG_COLOR
	FLAG_FILE
	FLAG_LINE
	_FLAG_MAX_for_checks_only
)

const (
	// Sink kinds, in fanout order.
	SINK_CONSOLE SinkKind = iota
	SINK_FILE
	SINK_INET
	SINK_UNIX
	_SINK_MAX_for_checks_only
)

const (
	// Inet socket protocols.
	PROTO_TCP SockProto = iota
	PROTO_UDP
	_PROTO_MAX_for_checks_only
)

const (
	DEFAULT_LOG_LEVEL = LVL_TRACE // threshold right after construction
	DEFAULT_FILE_PERM = 0o644     // mode for files created by SetFile
)

const (
	// ANSI colored text fragments prefix/suffix. For a colored piece of
	// text the sequence is:
	// ANSI_COL_PRFX + colorSpec + ANSI_COL_SUFX + text + ANSI_COL_RESET
	ANSI_COL_PRFX  = "\x1b["
	ANSI_COL_SUFX  = "m"
	ANSI_COL_RESET = ANSI_COL_PRFX + "0" + ANSI_COL_SUFX

	// Color specs used by the envelope renderer.
	ANSI_SPEC_BOLD  = "1"
	ANSI_SPEC_RED   = "31"
	ANSI_SPEC_GREEN = "32"
	ANSI_SPEC_YELLO = "33"
	ANSI_SPEC_MAGEN = "35"
	ANSI_SPEC_CYAN  = "36"
	ANSI_SPEC_LGRAY = "90"
)

// ansi wraps a piece of text with the given color spec and a trailing reset.
func ansi(spec, text string) string {
	return ANSI_COL_PRFX + spec + ANSI_COL_SUFX + text + ANSI_COL_RESET
}

/////////////////////////////////////////////////////////////////////////////////////////

// fieldOrder is the fixed envelope field order. Only field-producing flags
// appear here: FLAG_JSON and FLAG_COLOR shape framing, not fields.
var fieldOrder = [...]LogFlag{
	FLAG_DATE,
	FLAG_TIME,
	FLAG_LEVEL,
	FLAG_PID,
	FLAG_TID,
	FLAG_FILE,
	FLAG_LINE,
}

// sinkOrder is the fixed fanout order over sink kinds.
var sinkOrder = [...]SinkKind{
	SINK_CONSOLE,
	SINK_FILE,
	SINK_INET,
	SINK_UNIX,
}

// Predefined log level names as rendered by the LEVEL field (pre-padding)
// and accepted by the settings parser after lowercasing.
var LevelNames = &LevelMap{
	"TRACE",    //LVL_TRACE
	"DEBUG",    //LVL_DEBUG
	"INFO",     //LVL_INFO
	"WARN",     //LVL_WARN
	"ERROR",    //LVL_ERROR
	"FATAL",    //LVL_FATAL
	"DISABLED", //LVL_DISABLED
}

// Predefined colored level names used by the LEVEL field in plain+color
// mode. FATAL is bold on red; DISABLED never reaches the renderer.
var LevelColorNames = &LevelMap{
	LVL_TRACE:    ansi(ANSI_SPEC_MAGEN, "TRACE"),
	LVL_DEBUG:    ansi(ANSI_SPEC_GREEN, "DEBUG"),
	LVL_INFO:     ansi(ANSI_SPEC_CYAN, "INFO"),
	LVL_WARN:     ansi(ANSI_SPEC_YELLO, "WARN"),
	LVL_ERROR:    ansi(ANSI_SPEC_RED, "ERROR"),
	LVL_FATAL:    ansi(ANSI_SPEC_BOLD, ansi(ANSI_SPEC_RED, "FATAL")),
	LVL_DISABLED: "DISABLED",
}

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	} else {
		return def
	}
}

// Ensures a provided LogLevel is within the valid range
func normLevel(level LogLevel) LogLevel {
	return norm_byte(level, _LVL_MAX_for_checks_only, DEFAULT_LOG_LEVEL)
}

// NewFlagSet collects the provided flags into a set, dropping out-of-range
// values.
func NewFlagSet(flags ...LogFlag) FlagSet {
	set := FlagSet{}
	for _, flag := range flags {
		if flag < _FLAG_MAX_for_checks_only {
			set[flag] = true
		}
	}
	return set
}

// NewSinkSet collects the provided sink kinds into a set, dropping
// out-of-range values.
func NewSinkSet(kinds ...SinkKind) SinkSet {
	set := SinkSet{}
	for _, kind := range kinds {
		if kind < _SINK_MAX_for_checks_only {
			set[kind] = true
		}
	}
	return set
}

// noGuard is the exclusion token of single-threaded loggers: both
// operations are no-ops, callers must serialize access externally.
type noGuard struct{}

func (noGuard) Lock()   {}
func (noGuard) Unlock() {}
