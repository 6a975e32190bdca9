package util

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// PathExists reports whether a file or directory exists at path.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// SplitPathForViper breaks a config path into the directory, bare
// filename, and extension pieces spf13/viper wants fed separately.
func SplitPathForViper(path string) (string, string, string) {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	return filepath.Dir(path), strings.TrimSuffix(filename, ext), strings.TrimPrefix(ext, ".")
}

// GetCurrentUsername returns the login name of the invoking user, or
// "default" when it cannot be determined (static binaries without cgo
// name lookup, odd container setups).
func GetCurrentUsername() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "default"
	}
	return u.Username
}
