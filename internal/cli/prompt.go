package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ivlev/pic2ascii/internal/errors"
)

// maxPromptAttempts bounds how often a prompt asks again after bad input.
const maxPromptAttempts = 3

// promptPositiveInt asks for a positive integer, offering def on an empty answer.
// It gives up with INVALID_INPUT after maxPromptAttempts bad answers or when
// the input ends right after a bad answer.
func promptPositiveInt(r *bufio.Reader, w io.Writer, label string, def int) (int, error) {
	for attempt := 1; attempt <= maxPromptAttempts; attempt++ {
		fmt.Fprintf(w, "%s %s: ", StyleTitle.Render(label), StyleDim.Render(fmt.Sprintf("[%d]", def)))

		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			return def, nil
		}

		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n > 0 {
			return n, nil
		}
		PrintError(w, fmt.Sprintf("%q is not a positive whole number", answer))
		if err == io.EOF {
			break
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "%s: no valid answer after %d attempts", strings.ToLower(label), maxPromptAttempts)
}

// waitForEnter blocks until a line (or EOF) is read from r.
func waitForEnter(r *bufio.Reader, w io.Writer) {
	fmt.Fprint(w, StyleDim.Render("Press Enter to exit..."))
	_, _ = r.ReadString('\n')
	fmt.Fprintln(w)
}
