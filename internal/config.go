package racman

import (
	"fmt"

	"github.com/racman-io/racman/internal/util"
	"github.com/spf13/viper"
)

// LoadConfig loads the YAML/TOML config file at the given path. There are
// intentionally no search paths here: an explicit --config always wins,
// and CLI flags plus environment variables take precedence over anything
// in the file.
func LoadConfig(path string) error {
	dir, filename, ext := util.SplitPathForViper(path)
	viper.AddConfigPath(dir)
	viper.SetConfigName(filename)
	viper.SetConfigType(ext)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}
