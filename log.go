package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// setupLog discards log output unless VOICESTUDIO_LOGFILE points at a
// writable file. It returns a closer to run at exit.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile := os.Getenv("VOICESTUDIO_LOGFILE")
	if logFile == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}

	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetTimeFormat(time.Kitchen)
	log.SetReportCaller(true)

	return f.Close, nil
}
