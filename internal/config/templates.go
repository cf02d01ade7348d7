// Package config renders starter files for animusd.
package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	KindDaemon  = "animusd"
	KindNetwork = "network"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindDaemon:
		return daemonTemplate, nil
	case KindNetwork:
		return networkTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

// WriteTemplate writes the template for kind to path. Existing files are kept
// unless overwrite is set.
func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const daemonTemplate = `name = "animus.local"
listen = "0.0.0.0:4048"
save_file = "network.toml"
# metrics_listen = "127.0.0.1:9048"
# admin_token = "change-me"
log_level = "info"
`

const networkTemplate = `name = "animus.local"
complex = "complex.default"
awake = false
structures = []
outputs = []
`
