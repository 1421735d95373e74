package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces variables in a string with their values.
// Supported variables:
//   - ${USER}  - current username
//   - ${HOME}  - user's home directory
//   - ${DATE}  - today's date as 2006-01-02 (handy for log files)
//
// Other ${NAME} references are left untouched.
func Expand(s string) string {
	if s == "" {
		return s
	}

	result := s

	if strings.Contains(result, "${USER}") {
		result = strings.ReplaceAll(result, "${USER}", getUser())
	}

	if strings.Contains(result, "${HOME}") {
		result = strings.ReplaceAll(result, "${HOME}", getHome())
	}

	if strings.Contains(result, "${DATE}") {
		result = strings.ReplaceAll(result, "${DATE}", today())
	}

	return result
}

// ResolvePath expands variables and ~ in p and makes it absolute relative
// to base. Empty paths stay empty.
func ResolvePath(p, base string) string {
	if p == "" {
		return p
	}
	p = ExpandTilde(Expand(p))
	if filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// getUser returns the current username for ${USER} expansion.
func getUser() string {
	for _, key := range []string{"USER", "LOGNAME", "USERNAME"} {
		if user := os.Getenv(key); user != "" {
			return user
		}
	}
	return "user"
}

// getHome returns the home directory for ${HOME} expansion.
func getHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	if home := os.Getenv("HOME"); home != "" {
		return home
	}

	return "~"
}

// today is swapped in tests.
var today = func() string {
	return time.Now().Format("2006-01-02")
}
