package microlog

import (
	"fmt"
	"io"
	"runtime"
	"time"
)

/*
The write pipeline. One call renders one record and fans it out:

 1. gate by severity (below threshold or DISABLED is a silent no-op)
 2. acquire the logger guard
 3. render the envelope fields for the flag snapshot
 4. fan out each envelope fragment in order
 5. fan out the formatted user message
 6. fan out the JSON closer (if JSON) and the trailing newline
 7. release the guard

Every step that can fail returns immediately with the first error; since
the guard spans steps 2-7 the whole line is indivisible with respect to
other records and to configuration changes.
*/

// Output renders and writes one record at the given level with an
// explicit call-site location. This is the core entry point; the leveled
// helpers capture their caller and delegate here.
//
// The user message is inserted verbatim: in JSON mode no escaping is
// applied, so quotes or control characters in the message end up raw
// inside the "log" string.
func (l *Logger) Output(level LogLevel, file string, line int, format string, args ...any) error {
	if l == nil {
		return ErrLoggerNil
	}
	// Severity gate, before the guard: LVL_DISABLED and above are
	// threshold-only values and never produce records either.
	threshold := l.threshold()
	if threshold == LVL_DISABLED || level < threshold || level >= LVL_DISABLED {
		return nil
	}

	message := fmt.Appendf(nil, format, args...)

	l.guard.Lock()
	defer l.guard.Unlock()

	json := false
	fieldsEmitted := false
	if len(l.flags) > 0 {
		json = l.flags[FLAG_JSON]
		color := l.flags[FLAG_COLOR] && !json // json output stays uncolored
		if json {
			if err := l.writeAllString("{ "); err != nil {
				return err
			}
		}
		fields := renderEnvelope(l.flags, level, color, json, file, line, time.Now())
		for _, field := range fields {
			if err := l.writeAllString(field.fragment(json, color)); err != nil {
				return err
			}
		}
		fieldsEmitted = len(fields) > 0
		if json {
			if err := l.writeAllString(`"log": "`); err != nil {
				return err
			}
		} else if fieldsEmitted {
			if err := l.writeAllString(messageSeparator(color)); err != nil {
				return err
			}
		}
	}

	if err := l.writeAll(message); err != nil {
		return err
	}
	if json {
		if err := l.writeAllString(`" }`); err != nil {
			return err
		}
	}
	return l.writeAllString("\n")
}

// callSite resolves the file and line of the caller skip frames up the
// stack, "???"/0 when the runtime can not resolve it.
func callSite(skip int) (string, int) {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???", 0
	}
	return file, line
}

// Writef logs a formatted record at an arbitrary level, capturing the
// call site for the FILE/LINE fields.
func (l *Logger) Writef(level LogLevel, format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(level, file, line, format, args...)
}

// Logs a formatted record at TRACE level.
func (l *Logger) Tracef(format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(LVL_TRACE, file, line, format, args...)
}

// Logs a formatted record at DEBUG level.
func (l *Logger) Debugf(format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(LVL_DEBUG, file, line, format, args...)
}

// Logs a formatted record at INFO level.
func (l *Logger) Infof(format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(LVL_INFO, file, line, format, args...)
}

// Logs a formatted record at WARN level.
func (l *Logger) Warnf(format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(LVL_WARN, file, line, format, args...)
}

// Logs a formatted record at ERROR level.
func (l *Logger) Errorf(format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(LVL_ERROR, file, line, format, args...)
}

// Logs a formatted record at FATAL level. The record only renders
// differently; the library never terminates the process.
func (l *Logger) Fatalf(format string, args ...any) error {
	file, line := callSite(2)
	return l.Output(LVL_FATAL, file, line, format, args...)
}

/////////////////////////////////////////////////////////////////////////////////////////
/*
Package-level convenience calls bound to the default logger. They return
ErrLoggerNil until InitDefault has been called. Call sites are captured
here, not inside the method wrappers, so FILE/LINE point at the caller.
*/

// Logs a formatted record at TRACE level through the default logger.
func Tracef(format string, args ...any) error {
	file, line := callSite(2)
	return Default().Output(LVL_TRACE, file, line, format, args...)
}

// Logs a formatted record at DEBUG level through the default logger.
func Debugf(format string, args ...any) error {
	file, line := callSite(2)
	return Default().Output(LVL_DEBUG, file, line, format, args...)
}

// Logs a formatted record at INFO level through the default logger.
func Infof(format string, args ...any) error {
	file, line := callSite(2)
	return Default().Output(LVL_INFO, file, line, format, args...)
}

// Logs a formatted record at WARN level through the default logger.
func Warnf(format string, args ...any) error {
	file, line := callSite(2)
	return Default().Output(LVL_WARN, file, line, format, args...)
}

// Logs a formatted record at ERROR level through the default logger.
func Errorf(format string, args ...any) error {
	file, line := callSite(2)
	return Default().Output(LVL_ERROR, file, line, format, args...)
}

// Logs a formatted record at FATAL level through the default logger.
func Fatalf(format string, args ...any) error {
	file, line := callSite(2)
	return Default().Output(LVL_FATAL, file, line, format, args...)
}

/////////////////////////////////////////////////////////////////////////////////////////

// levelWriter adapts a logger to io.Writer at a fixed level, so patterns
// like
//
//	fmt.Fprintf(logger.Writer(microlog.LVL_WARN), "disk low: %d%%", pct)
//
// keep working. One Write call is one record; a single trailing newline
// in the payload is dropped since the pipeline terminates every line
// itself. With the FILE/LINE flags enabled the call site reported is the
// immediate caller of Write (the fmt package, for Fprintf).
type levelWriter struct {
	logger *Logger
	level  LogLevel
}

// Writer returns an io.Writer view of the logger at the given level.
func (l *Logger) Writer(level LogLevel) io.Writer {
	return levelWriter{logger: l, level: level}
}

// Write implements io.Writer. On success it reports the full payload
// length consumed, including a dropped trailing newline.
func (w levelWriter) Write(p []byte) (int, error) {
	data := p
	if n := len(data); n > 0 && data[n-1] == '\n' {
		data = data[:n-1]
	}
	file, line := callSite(2)
	if err := w.logger.Output(w.level, file, line, "%s", data); err != nil {
		return 0, err
	}
	return len(p), nil
}
