package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// promptConfirm asks a yes/no question; anything but y/yes declines.
func promptConfirm(prompt string) (bool, error) {
	answer, err := readLine(prompt)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// promptTyped requires the exact expected answer, used for operations
// where a stray keystroke must not count as consent.
func promptTyped(prompt, expected string) (bool, error) {
	answer, err := readLine(prompt)
	if err != nil {
		return false, err
	}
	return answer == expected, nil
}

func readLine(prompt string) (string, error) {
	if !stdinIsTTY() {
		return "", errors.New("confirmation requires a terminal")
	}
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func stdinIsTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
