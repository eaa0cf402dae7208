package configs

import (
	"flag"
	"os"

	"github.com/usaidgithub/QuickShare/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the --config
// flag, the QUICKSHARE_CONFIG env var, or a list of conventional
// candidates. An empty result is fine: Load falls back to defaults.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("QUICKSHARE_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/quickshare/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
