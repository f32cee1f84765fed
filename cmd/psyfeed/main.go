package main

import (
	"fmt"
	"os"

	"github.com/psyarxivbot/psyfeed/internal/app"
	"github.com/psyarxivbot/psyfeed/internal/cfg"
	"github.com/psyarxivbot/psyfeed/internal/logger"
)

func main() {
	c, err := cfg.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// help was requested
		return
	}

	logger.Init(c.Debug)

	if err := app.Run(c); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
