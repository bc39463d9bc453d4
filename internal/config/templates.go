package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# StockFake Configuration

[server]
# Address the simulation server binds to
host = "127.0.0.1"
port = 8080
# HTTP timeouts (e.g., "10s", "1m")
read_timeout = "10s"
write_timeout = "10s"

[market]
# Simulated clock origin in YYYY-MM-DD (the in-game "today" at startup)
clock_start = "2000-01-03"
# Cash balance granted to newly created accounts
starting_cash = 100000.0
# Directory for the SQLite database (defaults to the config directory)
data_dir = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
