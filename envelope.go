package microlog

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

/*
The decoration engine: a pure transformation from (flags, level, call
site, clock sample) to the ordered metadata fields emitted before the
user message. No logger state is touched here; the write pipeline snapshots
the flags under its guard and passes them in.

Field order is always fieldOrder (date, time, level, pid, tid, file, line)
no matter how the flags were enabled. The clock is sampled once by the
caller so DATE and TIME reflect the same instant.
*/

// envelopeField is one rendered metadata field: the JSON key, the final
// value text and whether the value already carries its own ANSI styling
// (the level field does, everything else gets light gray in color mode).
type envelopeField struct {
	key    string
	value  string
	styled bool
}

// renderEnvelope produces the ordered envelope fields for one record.
// The value strings are mode-final: the level name is left-padded to 5
// characters except in plain+color mode, where the colored (unpadded)
// name from LevelColorNames is used instead.
func renderEnvelope(flags FlagSet, level LogLevel, color, json bool, file string, line int, now time.Time) []envelopeField {
	fields := make([]envelopeField, 0, len(fieldOrder))
	for _, flag := range fieldOrder {
		if !flags[flag] {
			continue
		}
		switch flag {
		case FLAG_DATE:
			fields = append(fields, envelopeField{
				key:   "date",
				value: fmt.Sprintf("%d-%02d-%02d", now.Year(), int(now.Month()), now.Day()),
			})
		case FLAG_TIME:
			fields = append(fields, envelopeField{
				key:   "time",
				value: fmt.Sprintf("%02d:%02d:%02d", now.Hour(), now.Minute(), now.Second()),
			})
		case FLAG_LEVEL:
			fields = append(fields, envelopeField{
				key:    "log_level",
				value:  levelString(level, color && !json),
				styled: true,
			})
		case FLAG_PID:
			fields = append(fields, envelopeField{
				key:   "pid",
				value: strconv.Itoa(os.Getpid()),
			})
		case FLAG_TID:
			fields = append(fields, envelopeField{
				key:   "tid",
				value: goroutineID(),
			})
		case FLAG_FILE:
			fields = append(fields, envelopeField{
				key:   "file",
				value: file,
			})
		case FLAG_LINE:
			fields = append(fields, envelopeField{
				key:   "line",
				value: strconv.Itoa(line),
			})
		}
	}
	return fields
}

// fragment renders the field into the byte fragment fanned out to the
// sinks. JSON framing is `"key": "value", `; plain framing is the value
// followed by a single space, wrapped in light gray when color is on and
// the value is not self-styled.
func (f envelopeField) fragment(json, color bool) string {
	if json {
		return `"` + f.key + `": "` + f.value + `", `
	}
	if color && !f.styled {
		return ansi(ANSI_SPEC_LGRAY, f.value) + " "
	}
	return f.value + " "
}

// levelString returns the rendered LEVEL field value: the colored name
// when color is requested, else the plain name left-padded to 5 chars.
func levelString(level LogLevel, color bool) string {
	level = normLevel(level)
	if color {
		return LevelColorNames[level]
	}
	return fmt.Sprintf("%-5s", LevelNames[level])
}

// messageSeparator is the plain-mode divider between the envelope and
// the user message, bold when color is on. Emitted only when at least
// one envelope field was emitted.
func messageSeparator(color bool) string {
	if color {
		return ansi(ANSI_SPEC_BOLD, "| ")
	}
	return "| "
}

// goroutineID extracts the current goroutine id from the runtime.Stack
// header ("goroutine N [running]:"). The TID field renders it since Go
// exposes no OS thread id.
func goroutineID() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	parts := strings.Fields(string(buf[:n]))
	if len(parts) >= 2 {
		return parts[1]
	}
	return "0"
}
