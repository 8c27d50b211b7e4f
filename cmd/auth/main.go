package main

import (
	"errors"
	"log"
	"os"

	"github.com/aussiebroadwan/keycard/internal/auth/app"
)

// exitConfig is the exit status for configuration errors such as a weak
// signing secret, so orchestrators can tell them from runtime crashes.
const exitConfig = 78

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		os.Exit(exitConfig)
	}

	application, err := app.New(cfg)
	if err != nil {
		if errors.Is(err, app.ErrConfiguration) {
			log.Printf("invalid configuration: %v", err)
			os.Exit(exitConfig)
		}
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
