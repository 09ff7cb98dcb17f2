// Command stalta runs STA/LTA triggering over waveform files.
package main

import (
	"os"

	"github.com/RyanBlaney/stalta/logging"
	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		logging.Error(xerrors.New(err), "stalta failed")
		os.Exit(1)
	}
}
