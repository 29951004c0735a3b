//go:build darwin

package media

func previewCommand(command, path string) (string, []string) {
	if command != "" {
		return command, []string{path}
	}
	return "open", []string{path}
}
