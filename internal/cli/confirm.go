package cli

// ABOUTME: Context-aware interactive prompting for user confirmations.
// ABOUTME: Races stdin against the context so Ctrl+C interrupts the prompt.

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// confirm prints a prompt and reads y/N from the reader.
// Returns true if the user answered "y" or "yes" (case-insensitive); EOF
// reads as the default "no". Returns an error if the context is cancelled
// (e.g. Ctrl+C). The reading goroutine may outlive the call on
// cancellation; this is acceptable for a CLI that is about to exit.
func confirm(ctx context.Context, prompt string, input io.Reader, output io.Writer) (bool, error) {
	fmt.Fprint(output, prompt) //nolint:errcheck // best-effort output

	ch := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		if scanner.Scan() {
			ch <- scanner.Text()
		} else {
			ch <- ""
		}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-ch:
		answer := strings.TrimSpace(strings.ToLower(line))
		return answer == "y" || answer == "yes", nil
	}
}
