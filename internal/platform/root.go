package platform

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName names the per-user configuration directory.
	AppName = "notepad"
	// DefaultFileName is the store file used when no path is configured.
	DefaultFileName = "notes.json"
	// DevEnvVar selects the development data file when set to any value.
	DevEnvVar = "NOTEPAD_DEV"
)

// DefaultPath returns <user config dir>/notepad/notes.json, or notes.json in
// the working directory when no user config dir is available.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return DefaultFileName
	}
	return filepath.Join(dir, AppName, DefaultFileName)
}

// IsDevEnv reports whether the development data file was requested through the environment.
func IsDevEnv() bool {
	_, ok := os.LookupEnv(DevEnvVar)
	return ok
}

// ResolvePath determines the actual store path.
// An empty path means DefaultPath. In dev mode the base name gets a "-dev"
// suffix before its extension, so development runs never touch real notes
// (notes.json becomes notes-dev.json).
func ResolvePath(userPath string, dev bool) string {
	path := userPath
	if path == "" {
		path = DefaultPath()
	}
	if !dev {
		return path
	}

	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if strings.HasSuffix(name, "-dev") {
		return path
	}
	return filepath.Join(dir, name+"-dev"+ext)
}
