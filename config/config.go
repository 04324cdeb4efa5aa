package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Session  Session
}

type Server struct {
	Port string
}
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Session struct {
	MaxPerTeam    int
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_MAX_PER_TEAM", 5)
	viper.SetDefault("SESSION_IDLE_MINUTES", 30)
	viper.SetDefault("SESSION_SWEEP_MINUTES", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Session.MaxPerTeam = viper.GetInt("SESSION_MAX_PER_TEAM")
	config.Session.IdleTimeout = time.Duration(viper.GetInt("SESSION_IDLE_MINUTES")) * time.Minute
	config.Session.SweepInterval = time.Duration(viper.GetInt("SESSION_SWEEP_MINUTES")) * time.Minute

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
