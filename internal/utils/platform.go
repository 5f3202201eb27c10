package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// WindowsExecutableExtensions returns the lowercase extensions listed in
// PATHEXT, or the stock Windows set when PATHEXT is unset.
func WindowsExecutableExtensions() map[string]bool {
	pathext := os.Getenv("PATHEXT")
	if pathext == "" {
		pathext = ".COM;.EXE;.BAT;.CMD"
	}
	exts := map[string]bool{}
	for _, ext := range SplitAndTrim(pathext, ";") {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return exts
}

// IsWindowsExecutable reports whether path carries a PATHEXT extension.
func IsWindowsExecutable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && WindowsExecutableExtensions()[ext]
}

// CommandLine returns the program and argv used to run command with args on
// goos. Windows batch scripts cannot be started directly and go through
// cmd /c.
func CommandLine(goos, command string, args []string) (string, []string) {
	if goos == "windows" && IsWindowsExecutable(command) {
		switch strings.ToLower(filepath.Ext(command)) {
		case ".bat", ".cmd":
			return "cmd", append([]string{"/c", command}, args...)
		}
	}
	return command, args
}
