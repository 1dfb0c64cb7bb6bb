package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"media-catalog/internal/logging"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	logging.Close()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
