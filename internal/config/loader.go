package config

import (
	"os"
	"path/filepath"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "leapdb.yaml"
	ConfigFileNameAlt = "leapdb.yml"
)

// FindConfigFile returns the path of the config file in dir, "" if absent.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindProjectRoot returns the nearest directory at or above start that holds
// a config file, "" when the filesystem root is reached first.
func FindProjectRoot(start string) string {
	for dir := start; ; {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
