// ABOUTME: Optional defaults file for the generate command.
// ABOUTME: Stores non-secret settings under ~/.config/edx-reportgen/.

package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// cliDefaults are optional pre-filled flag values. Passwords deliberately
// have no place here; credentials are supplied per invocation only.
type cliDefaults struct {
	LMSURL string `yaml:"lms_url"`
	Email  string `yaml:"email"`
	Report string `yaml:"report"`
	Dedupe *bool  `yaml:"dedupe"`
}

func defaultsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "edx-reportgen", "config.yaml"), nil
}

// loadDefaults reads the defaults file when present. A missing file is not
// an error; the command just runs on flags alone.
func loadDefaults() (*cliDefaults, error) {
	path, err := defaultsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var d cliDefaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
