// Package prompt reads credentials from the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// Line prints label to w and reads one trimmed line from r.
func Line(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password prints label to w and reads a password from stdin without echo.
func Password(w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Credentials fills in whichever of username and password is empty.
func Credentials(r *bufio.Reader, w io.Writer, username, password string) (string, string, error) {
	var err error
	if username == "" {
		if username, err = Line(r, w, "Username: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = Password(w, "Password: "); err != nil {
			return "", "", err
		}
	}
	if username == "" || password == "" {
		return "", "", errors.New("username and password are required")
	}
	return username, password, nil
}
