package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

// confirmDrop asks before the schema is dropped. Without a terminal on
// stdin, or with --yes, it does not ask.
func (c *commandContext) confirmDrop(cmd *cobra.Command, dbPath string, yes bool) (bool, error) {
	if yes || !c.stdinIsTerminal() {
		return true, nil
	}
	return confirm(cmd.InOrStdin(), cmd.ErrOrStderr(),
		fmt.Sprintf("Drop every catalog table in %s?", dbPath))
}

// confirm writes prompt and reads a yes/no answer. Anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
