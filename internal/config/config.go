package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config represents the luksvault application configuration. Connection
// profiles live in their own store; this covers tool-wide behavior only.
type Config struct {
	MountDir string `mapstructure:"mount_dir"`

	Timeouts Timeouts `mapstructure:"timeouts"`
	Bridge   Bridge   `mapstructure:"bridge"`

	// Viewers are local file-manager candidates probed in order after a
	// successful mount.
	Viewers []string `mapstructure:"viewers"`
}

// Timeouts bounds the blocking steps of the workflow.
type Timeouts struct {
	Probe   time.Duration `mapstructure:"probe"`
	Connect time.Duration `mapstructure:"connect"`
	Unlock  time.Duration `mapstructure:"unlock"`
	Bridge  time.Duration `mapstructure:"bridge"`
}

// Bridge contains sshfs keep-alive tuning.
type Bridge struct {
	ServerAliveInterval int `mapstructure:"server_alive_interval"`
	ServerAliveCountMax int `mapstructure:"server_alive_count_max"`
}

// Load loads the configuration from ~/.luksvault/config.yaml or returns
// defaults when no config file exists.
func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.MountDir, err = homedir.Expand(cfg.MountDir)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("mount_dir", filepath.Join(configDir, "mnt"))

	v.SetDefault("timeouts.probe", "5s")
	v.SetDefault("timeouts.connect", "15s")
	v.SetDefault("timeouts.unlock", "20s")
	v.SetDefault("timeouts.bridge", "30s")

	v.SetDefault("bridge.server_alive_interval", 20)
	v.SetDefault("bridge.server_alive_count_max", 5)

	v.SetDefault("viewers", []string{"thunar", "dolphin", "nautilus", "pcmanfm", "nemo"})
}

// Dir returns the luksvault configuration directory path.
func Dir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".luksvault"), nil
}

// ProfilePath returns the path of the profile store file.
func ProfilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.ini"), nil
}

// EnsureDirs creates the config directory and the local mount directory
// if they do not exist.
func (c *Config) EnsureDirs() error {
	configDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}
	return os.MkdirAll(c.MountDir, 0755)
}
