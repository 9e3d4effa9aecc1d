package interp

import (
	"os"

	"golang.org/x/term"
)

// readSingleKey reads one byte from the terminal without waiting for
// Enter and without echo. The previous terminal attributes are captured
// before switching and restored on every return path. When stdin is not
// a terminal (tests, pipes) it falls back to a plain one-byte read.
func readSingleKey() (byte, error) {
	fd := int(os.Stdin.Fd())

	var buf [1]byte
	if !term.IsTerminal(fd) {
		_, err := os.Stdin.Read(buf[:])
		return buf[0], err
	}

	old, err := term.MakeRaw(fd)
	if err != nil {
		_, rerr := os.Stdin.Read(buf[:])
		return buf[0], rerr
	}
	defer term.Restore(fd, old)

	_, err = os.Stdin.Read(buf[:])
	return buf[0], err
}
