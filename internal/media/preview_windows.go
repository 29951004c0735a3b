//go:build windows

package media

func previewCommand(command, path string) (string, []string) {
	if command != "" {
		return command, []string{path}
	}
	return "cmd", []string{"/c", "start", "", path}
}
