package main

import (
	"fmt"
	"os"

	"github.com/flowgraph/flowc/internal/logger"
)

func main() {
	appLogger, err := logger.New(logger.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "interface",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	app := &AppContext{Logger: appLogger}

	rootCmd := newRootCmd(app)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
