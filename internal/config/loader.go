package config

import (
	"os"
	"path/filepath"
)

// defaultConfigFiles are looked up, in order, in the working directory and
// then next to the executable.
var defaultConfigFiles = []string{"config.yaml", "config.yml", "config.json"}

// GetConfigPath picks the configuration file. The first existing candidate
// wins:
//  1. flagPath (from --config)
//  2. $ZONESHIFT_CONFIG_PATH
//  3. config.yaml, config.yml or config.json in the working directory
//  4. the same names in the executable's directory
//
// It returns "" when none exists, in which case defaults apply.
func GetConfigPath(flagPath string) string {
	candidates := []string{flagPath, os.Getenv(ConfigPathEnv)}
	for _, dir := range searchDirs() {
		for _, name := range defaultConfigFiles {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, path := range candidates {
		if path != "" && fileExists(path) {
			return path
		}
	}
	return ""
}

func searchDirs() []string {
	var dirs []string
	cwd, err := os.Getwd()
	if err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if dir := filepath.Dir(exe); dir != cwd {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
