package ipc

import (
	"os"
	"path/filepath"

	"github.com/sensorcore/devicetracker/internal/dterr"
)

// resolveBinary finds name against searchPath, returning NotFound if no
// executable match exists (spec §4.6 step 1). An absolute or relative path
// containing a separator is checked directly, matching os/exec's own rule.
func resolveBinary(name string, searchPath []string) (string, error) {
	if filepath.IsAbs(name) || containsSeparator(name) {
		if isExecutable(name) {
			return name, nil
		}
		return "", dterr.New(dterr.NotFound, "ipc.resolveBinary", errNotExecutable(name))
	}

	for _, dir := range searchPath {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", dterr.New(dterr.NotFound, "ipc.resolveBinary", errNotFoundInSearchPath(name))
}

func containsSeparator(name string) bool {
	for _, r := range name {
		if r == filepath.Separator {
			return true
		}
	}
	return false
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}
