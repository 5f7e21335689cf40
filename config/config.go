// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	envFile = pflag.String("env-file", ".env", "Path to an optional .env file")

	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validEnvironments = []string{"development", "staging", "production", "test"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	// Deployments ship plain .env files, load one if present
	// before viper reads the environment
	godotenv.Load(*envFile)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.environment", "app_environment")
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("database.path", "database_path")

	v.BindEnv("token.access_secret", "token_access_secret")
	v.BindEnv("token.refresh_secret", "token_refresh_secret")
	v.BindEnv("token.access_expiry", "token_access_expiry")
	v.BindEnv("token.refresh_expiry", "token_refresh_expiry")
	v.BindEnv("token.issuer", "token_issuer")

	v.BindEnv("otp.min", "otp_min")
	v.BindEnv("otp.max", "otp_max")
	v.BindEnv("otp.default_code", "otp_default_code")

	v.BindEnv("security.argon_memory", "security_argon_memory")
	v.BindEnv("security.argon_iterations", "security_argon_iterations")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.workers", "mail_workers")
	v.BindEnv("mail.queue_size", "mail_queue_size")

	//
	// Defaults
	//
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 4040)

	v.SetDefault("database.path", "donations.db")

	v.SetDefault("token.access_expiry", "720h")
	v.SetDefault("token.refresh_expiry", "8760h")
	v.SetDefault("token.issuer", "fastmoni.com")

	v.SetDefault("otp.min", 100000)
	v.SetDefault("otp.max", 900000)
	v.SetDefault("otp.default_code", 123456)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.workers", 2)
	v.SetDefault("mail.queue_size", 64)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validEnvironments, v.GetString("app.environment")) {
		return fmt.Errorf("invalid environment %q provided", v.GetString("app.environment"))
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("database.path") == "" {
		return errors.New("no database path provided")
	}

	if v.GetString("token.access_secret") == "" || v.GetString("token.refresh_secret") == "" {
		fmt.Println("WARNING: You haven't set both token secrets, so fresh ones have been generated for you. Please set them as environment variables or in the config.toml file.\n\nAccess secret:\n" + genSecret() + "\n\nRefresh secret:\n" + genSecret() + "\n")
		os.Exit(0)
	}

	if v.GetDuration("token.access_expiry") <= 0 {
		return errors.New("token.access_expiry must be a positive duration")
	}

	if v.GetDuration("token.refresh_expiry") <= 0 {
		return errors.New("token.refresh_expiry must be a positive duration")
	}

	if v.GetInt("otp.min") <= 0 || v.GetInt("otp.max") <= v.GetInt("otp.min") {
		return errors.New("invalid otp bounds provided")
	}

	if v.GetString("mail.sender") == "" {
		fmt.Println("[WARNING]: No mail sender configured. Thank-you notifications will be dropped")
	}

	return nil
}

// IsProductionOrStaging reports whether the app runs in an
// environment where real OTP codes must be issued.
func IsProductionOrStaging() bool {
	env := v.GetString("app.environment")
	return env == "production" || env == "staging"
}

// IsProduction is used to decide how much error detail leaves the server.
func IsProduction() bool {
	return v.GetString("app.environment") == "production"
}
