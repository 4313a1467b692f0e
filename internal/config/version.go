package config

import (
	"os"
	"path/filepath"
)

const (
	versionFileName = "VERSION"
	// DefaultVersion is reported when no VERSION file can be found.
	DefaultVersion = "0.0.1"
	// versionSearchDepth is how many parent directories are probed.
	versionSearchDepth = 3
)

// VersionCandidates lists the paths probed for the VERSION file, in order:
// dir itself, then one, two and three levels up.
func VersionCandidates(dir string) []string {
	candidates := make([]string, 0, versionSearchDepth+1)
	path := dir
	for depth := 0; depth <= versionSearchDepth; depth++ {
		candidates = append(candidates, filepath.Join(path, versionFileName))
		path = filepath.Join(path, "..")
	}
	return candidates
}

// FindVersion returns the raw content of the first VERSION file found among
// VersionCandidates(dir), or DefaultVersion.
func FindVersion(dir string) string {
	for _, candidate := range VersionCandidates(dir) {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		return string(data)
	}
	return DefaultVersion
}
