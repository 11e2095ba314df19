package config

import (
	"github.com/jinzhu/configor"
)

// DefaultConfigPath is the manifest read when --config is not given
const DefaultConfigPath = "cabin.yml"

// Config - Project manifest and tool configuration
type Config struct {
	Package struct {
		Name    string `yaml:"name"`
		Edition string `yaml:"edition" default:"20"`
	} `yaml:"package"`

	Lint struct {
		Cpplint struct {
			Filters []string `yaml:"filters"`
		} `yaml:"cpplint"`
	} `yaml:"lint"`

	Exec struct {
		// 起動失敗時の試行回数
		Retry   int  `yaml:"retry" default:"3" env:"CABIN_RETRY"`
		Verbose bool `yaml:"verbose" env:"CABIN_VERBOSE"`
	} `yaml:"exec"`
}

// LoadConfig - Load configuration file
func LoadConfig(path string) (*Config, error) {
	return load(path)
}

// LoadDefaults - Build the configuration from defaults and environment only
func LoadDefaults() (*Config, error) {
	return load()
}

func load(files ...string) (*Config, error) {
	cfg := &Config{}

	err := configor.New(&configor.Config{
		Debug:      false,
		Verbose:    false,
		Silent:     true,
		AutoReload: false,
	}).Load(cfg, files...)

	return cfg, err
}
