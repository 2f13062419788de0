package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// launchers maps GOOS to the command that hands a URL to the desktop.
var launchers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// browserCommand builds the command that opens url on the current platform.
func browserCommand(url string) (*exec.Cmd, error) {
	rt := getRuntime()
	launcher, ok := launchers[rt]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
	args := append(append([]string{}, launcher[1:]...), url)
	return exec.Command(launcher[0], args...), nil
}

// OpenBrowser opens the default system browser to the specified URL, used for TMDB movie pages.
func OpenBrowser(url string) error {
	cmd, err := browserCommand(url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
