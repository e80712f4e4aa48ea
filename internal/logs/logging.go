package logs

import (
	"os"

	"github.com/op/go-logging"
)

// Logger is the shared module logger. Init configures its backend and level.
var Logger = logging.MustGetLogger("chat")

const defLevel = "INFO"

// Init parses the given level string and wires a formatted stdout backend.
// An empty level falls back to INFO; an unknown level returns an error.
func Init(logLevel string) error {
	baseBackend := logging.NewLogBackend(os.Stdout, "", 0)
	format := logging.MustStringFormatter(
		"%{color}%{time:2006-01-02 15:04:05.000} %{shortfunc} ▶ %{level:.5s} %{color:reset} %{message}",
	)
	backendFormatter := logging.NewBackendFormatter(baseBackend, format)

	backendLeveled := logging.AddModuleLevel(backendFormatter)
	if logLevel == "" {
		logLevel = defLevel
	}

	level, err := logging.LogLevel(logLevel)
	if err != nil {
		return err
	}
	backendLeveled.SetLevel(level, "")

	logging.SetBackend(backendLeveled)
	return nil
}
