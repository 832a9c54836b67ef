package gitlog

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	logger "github.com/sirupsen/logrus"
)

// ErrGitNotFound is returned when no git executable exists on the system.
var ErrGitNotFound = errors.New("git executable not found")

// Locator finds the git executable.
type Locator struct {
	lookPath   func(string) (string, error)
	isFile     func(string) bool
	homeDir    func() (string, error)
	goos       string
	executable string
}

// NewLocator creates a locator for the running system.
func NewLocator() *Locator {
	return NewLocatorWith(exec.LookPath, isRegularFile, os.UserHomeDir, runtime.GOOS)
}

// NewLocatorWith creates a locator with custom lookups, for another platform or for tests.
func NewLocatorWith(
	lookPath func(string) (string, error),
	isFile func(string) bool,
	homeDir func() (string, error),
	goos string,
) *Locator {
	executable := "git"
	if goos == "windows" {
		executable = "git.exe"
	}
	return &Locator{
		lookPath:   lookPath,
		isFile:     isFile,
		homeDir:    homeDir,
		goos:       goos,
		executable: executable,
	}
}

// Find returns the path of the git executable: PATH lookup first, then the usual install
// locations of the platform.
func (l *Locator) Find() (string, error) {
	logger.Debug("Searching for Git executable...")

	if path, err := l.lookPath(l.executable); err == nil {
		logger.Debugf("Git found in PATH: %s", path)
		return path, nil
	}

	for _, candidate := range l.commonLocations() {
		if l.isFile(candidate) {
			logger.Debugf("Git found at common location: %s", candidate)
			return candidate, nil
		}
	}

	return "", ErrGitNotFound
}

func (l *Locator) commonLocations() []string {
	if l.goos != "windows" {
		return []string{
			"/usr/bin/git",
			"/usr/local/bin/git",
			"/opt/homebrew/bin/git",
			"/usr/local/git/bin/git",
			"/opt/local/bin/git",
			"/Applications/GitHub Desktop.app/Contents/Resources/app/git/bin/git",
		}
	}

	locations := []string{
		`C:\Program Files\Git\cmd\git.exe`,
		`C:\Program Files\Git\bin\git.exe`,
		`C:\Program Files (x86)\Git\cmd\git.exe`,
		`C:\Program Files (x86)\Git\bin\git.exe`,
	}
	if home, err := l.homeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, "AppData", "Local", "Programs", "Git", "cmd", "git.exe"),
			filepath.Join(home, "AppData", "Local", "Programs", "Git", "bin", "git.exe"),
		)
	}
	return append(locations, `C:\msysgit\bin\git.exe`)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
