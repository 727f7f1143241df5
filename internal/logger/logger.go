package logger

import (
	"io"
	"log"
	"os"
)

// Log is the process logger. It starts on stderr so packages can log before Init.
var Log = log.New(os.Stderr, "", log.LstdFlags)

// Init points Log at logFilePath ("-" keeps stderr).
func Init(logFilePath string) error {
	var out io.Writer = os.Stderr
	if logFilePath != "" && logFilePath != "-" {
		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return err
		}
		out = file
	}

	Log = log.New(out, "", log.LstdFlags)
	Log.Println("Logger initialized.")
	return nil
}

// Discard silences the logger; used by tests.
func Discard() {
	Log = log.New(io.Discard, "", 0)
}
