package microlog

import (
	"fmt"
	"io"
)

/*
The fanout writer: every rendered fragment is broadcast to each enabled
sink kind in sinkOrder. The first sink failure stops the fanout for that
fragment and surfaces a sink-specific error kind; fragments already
written to earlier sinks are not rolled back (partial multi-sink output
on failure is a documented limitation, not a bug).

Fragments arrive here as final bytes, rendered exactly once, so writing
the same payload to every sink needs no argument replay.

All of this runs with the logger guard held by the write pipeline.
*/

// sinkWriter resolves the writer behind an enabled sink kind, nil when
// the underlying resource is not attached. Typed nil resources must not
// leak out as non-nil io.Writer interfaces, hence the per-kind checks.
func (l *Logger) sinkWriter(kind SinkKind) io.Writer {
	switch kind {
	case SINK_CONSOLE:
		return l.console
	case SINK_FILE:
		if l.file == nil {
			return nil
		}
		return l.file
	case SINK_INET:
		if l.inet == nil {
			return nil
		}
		return l.inet
	case SINK_UNIX:
		if l.unix == nil {
			return nil
		}
		return l.unix
	}
	return nil
}

// sinkWriteErr maps a sink kind to its write-failure error kind.
func sinkWriteErr(kind SinkKind) error {
	switch kind {
	case SINK_FILE:
		return ErrWriteFile
	case SINK_INET:
		return ErrWriteInet
	case SINK_UNIX:
		return ErrWriteUnix
	}
	return ErrWriteConsole
}

// writeAll writes one payload fragment to every enabled sink, in fixed
// sink order, stopping at the first failure. An enabled sink whose
// resource was never attached fails the same way a broken write does.
func (l *Logger) writeAll(payload []byte) error {
	for _, kind := range sinkOrder {
		if !l.sinks[kind] {
			continue
		}
		w := l.sinkWriter(kind)
		if w == nil {
			return fmt.Errorf("%w: sink is not attached", sinkWriteErr(kind))
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("%w: %v", sinkWriteErr(kind), err)
		}
	}
	return nil
}

// writeAllString is writeAll for string fragments.
func (l *Logger) writeAllString(fragment string) error {
	return l.writeAll([]byte(fragment))
}
