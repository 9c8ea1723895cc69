package utils

import (
	"fmt"
	"io"
	"os"
)

// StdinPath is the path that selects standard input in ReadInput.
const StdinPath = "-"

// ReadInput reads path, or all of stdin when path is StdinPath. A nil stdin
// means os.Stdin.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path != StdinPath {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return data, nil
	}

	if stdin == nil {
		stdin = os.Stdin
	}
	// A terminal on stdin means nothing was piped.
	if f, ok := stdin.(*os.File); ok && IsTerminal(f) {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe your dataset to this command)")
	}
	return ReadStdin(stdin)
}

// ReadStdin reads all content from r.
// Returns an error if r is empty or cannot be read.
func ReadStdin(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}

	return data, nil
}
