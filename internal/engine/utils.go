package engine

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// WriteFile replaces name atomically, creating parent directories as needed.
func WriteFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := atomic.WriteFile(name, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// readExisting returns the current content of name, or ok=false when there is
// no such file.
func readExisting(name string) (b []byte, ok bool, err error) {
	b, err = os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return b, true, nil
}

func promptConfirm(in io.Reader, out io.Writer) func(string) (bool, error) {
	r := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		for {
			fmt.Fprintf(out, "%s [y/N]: ", prompt)

			input, err := r.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && input != "") {
				return false, fmt.Errorf("read input: %w", err)
			}

			input = strings.TrimSpace(strings.ToLower(input))
			switch input {
			case "y", "yes":
				return true, nil
			case "n", "no", "":
				return false, nil
			}
		}
	}
}
