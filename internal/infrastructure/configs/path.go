package configs

import (
	"flag"
	"os"

	"github.com/tutormeet/signaling/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the -config
// flag, the SIGNALING_CONFIG env var, or a list of conventional locations.
// An empty result means no file was found and built-in defaults apply.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("SIGNALING_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/tutormeet/config.yaml",
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
