package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Prefs is the small preference set persisted between sessions.
type Prefs struct {
	AuthMode     string `mapstructure:"authMode" json:"authMode"`
	CliProvider  string `mapstructure:"cliProvider" json:"cliProvider"`
	LastProvider string `mapstructure:"lastProvider" json:"lastProvider"`
}

func prefsPath() string {
	return filepath.Join(HomeDir(), ".myduck", "config.json")
}

// LoadPrefs reads the persisted preferences. A missing or unreadable file
// yields empty preferences, never an error.
func LoadPrefs() Prefs {
	v := viper.New()
	v.SetConfigFile(prefsPath())
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return Prefs{}
	}

	var prefs Prefs
	if err := v.Unmarshal(&prefs); err != nil {
		return Prefs{}
	}
	return prefs
}

// SavePrefs writes the preferences file, creating the .myduck directory if
// needed. Returns false when the preferences could not be persisted.
func SavePrefs(prefs Prefs) bool {
	path := prefsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("authMode", prefs.AuthMode)
	v.Set("cliProvider", prefs.CliProvider)
	v.Set("lastProvider", prefs.LastProvider)

	return v.WriteConfigAs(path) == nil
}
