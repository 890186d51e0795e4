package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"backend": "sqlite",
			"path":    "~/.personal-hub/hub.db",
		},
		"scheduler": map[string]interface{}{
			"interval": "20s",
			"reset":    "",
		},
		"notify": map[string]interface{}{
			"backend": "desktop",
			"command": "",
			"sound":   "",
			"player":  "",
			"icon":    "",
			"telegram": map[string]interface{}{
				"bot_token": "",
				"chat_id":   "",
			},
		},
		"timezone": "Local",
		"log": map[string]interface{}{
			"level": "info",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"history_file":   "~/.personal-hub/history",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.personal-hub/config.yaml"
}
