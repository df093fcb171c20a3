package orchestrator

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer is the yes/no gate in front of sensitive environments.
// Declining is not an error; the run just stops before any mutation.
type Confirmer interface {
	Confirm(summary string) (bool, error)
}

// StdinConfirmer prompts on the terminal and treats anything but "y"
// as a no.
type StdinConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (c *StdinConfirmer) Confirm(summary string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N]: ", summary)
	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, err
		}
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y", nil
}
