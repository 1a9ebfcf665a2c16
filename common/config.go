package common

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Hostkit is the on-disk configuration. Every key carries a default so
// the tool runs on hosts that have no config file at all.
type Hostkit struct {
	Identifier string

	Thresholds struct {
		Cpu  int
		Ram  int
		Disk int
	}

	Health struct {
		Filesystems          []string
		Excluded_Mountpoints []string
	}

	Backup struct {
		Directory string
	}

	Logscan struct {
		Directory   string
		Max_Matches int
	}
}

var Config Hostkit

// DefaultLimit is the alert threshold applied to cpu, ram and disk when
// no config file overrides it.
const DefaultLimit = 80

// ConfInit loads the named YAML config from /etc/hostkit or the working
// directory into config. A missing file is not an error; defaults apply.
// A file that exists but does not parse is fatal.
func ConfInit(configName string, config interface{}) {
	viper.SetConfigName(configName)
	viper.AddConfigPath("/etc/hostkit")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	viper.SetDefault("thresholds.cpu", DefaultLimit)
	viper.SetDefault("thresholds.ram", DefaultLimit)
	viper.SetDefault("thresholds.disk", DefaultLimit)
	viper.SetDefault("backup.directory", "/var/backups/hostkit")
	viper.SetDefault("logscan.directory", "/var/log")
	viper.SetDefault("logscan.max_matches", 200)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug().Str("config", configName).Msg("No config file found, using built-in defaults")
		} else {
			log.Error().Err(err).Str("config", configName).Msg("Failed to parse config file")
			panic(err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		log.Error().Err(err).Str("config", configName).Msg("Failed to unmarshal config file")
		panic(err)
	}
}
