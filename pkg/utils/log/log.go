package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	// Verbosity is bound to the -v flag: 0 info, 1 debug, 2+ trace.
	Verbosity int
)

func getLevel(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.InfoLevel
	case verbosity == 1:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a JSON logger writing to out, or a human readable one
// if out is a terminal.
func GetLogger(out io.Writer, isTerminal bool) zerolog.Logger {
	l := zerolog.New(out).With().Timestamp().Logger().Level(getLevel(Verbosity))

	if isTerminal {
		l = l.Output(zerolog.ConsoleWriter{Out: out})
	}

	return l
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
