package utils

import (
	"os"
	"path/filepath"
)

// ConfigFileName is looked up by FindConfigFile.
const ConfigFileName = "boardbot.yaml"

// FindConfigFile walks up from the working directory looking for
// boardbot.yaml, then falls back to ~/.boardbot/boardbot.yaml. It returns ""
// when nothing exists.
func FindConfigFile() string {
	dir, err := os.Getwd()
	if err == nil {
		for {
			candidate := filepath.Join(dir, ConfigFileName)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // reached root
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, ".boardbot", ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// DataDir returns ~/.boardbot, the default home of saved results.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".boardbot"
	}
	return filepath.Join(home, ".boardbot")
}
