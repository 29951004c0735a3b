//go:build !windows && !darwin

package media

func previewCommand(command, path string) (string, []string) {
	if command != "" {
		return command, []string{path}
	}
	return "xdg-open", []string{path}
}
