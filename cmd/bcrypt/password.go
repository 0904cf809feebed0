package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword prompts for a password on the terminal without echoing it. If stdin is not a
// terminal, it reads a single line from stdin instead and confirm is ignored.
func readPassword(confirm bool) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return readLine(os.Stdin)
	}

	password, err := askPassword(fd, "Enter password: ")
	if err != nil {
		return nil, err
	}

	if !confirm {
		return password, nil
	}

	again, err := askPassword(fd, "Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer zero(again)

	if !bytes.Equal(password, again) {
		zero(password)

		return nil, errPasswordMismatch
	}

	return password, nil
}

func askPassword(fd int, prompt string) ([]byte, error) {
	defer func() { _, _ = fmt.Fprintln(os.Stderr) }()

	_, _ = fmt.Fprint(os.Stderr, prompt)

	return term.ReadPassword(fd)
}

// readLine returns the first line of r without its line ending.
func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "reading password")
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	return line, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
