package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/sftpwriter/internal/app"
	"github.com/dmitrijs2005/sftpwriter/internal/common"
	"github.com/dmitrijs2005/sftpwriter/internal/config"
)

const (
	exitOK         = 0
	exitUserError  = 1
	exitUnexpected = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// The logger is configured from the config, so this failure goes to
		// the default logger.
		log.Printf("%v", err)
		return exitCode(err)
	}

	if err := app.New(cfg).Run(context.Background()); err != nil {
		return exitCode(err)
	}

	return exitOK
}

func exitCode(err error) int {
	if common.IsUserError(err) {
		return exitUserError
	}
	return exitUnexpected
}
