package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/pkg/loader"
)

// errNoInput means no file was named and nothing was piped in.
var errNoInput = errors.New("no session input")

// readSession loads a session from the named file, or from stdin when no file is given.
func readSession(args []string, stdin io.Reader) (*debugger.Session, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case len(args) > 0 && args[0] != "-":
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
	case stdinIsPiped():
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	default:
		return nil, errNoInput
	}

	s, err := debugger.LoadSession(data)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// prepareSession applies the input transforms requested by run.
func prepareSession(s *debugger.Session, decode bool) {
	if decode {
		s.State = loader.RecursiveDecode(s.State)
	}
}

// writeState saves the state document as indented JSON.
func writeState(path, pretty string) error {
	if err := os.WriteFile(path, []byte(pretty+"\n"), 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
