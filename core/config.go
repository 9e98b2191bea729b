package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address            string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		InMemory      bool // serve from the seeded in-memory store instead of postgres
	}

	Config struct {
		Env              string // DEV (local; default), TEST, QA, PROD
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string
		ListPageSize     int
		OptionsPageSize  int

		// administrator created when the in-memory store is seeded
		SeedAdminEmail    string
		SeedAdminPassword string

		Server   ServerConfig
		Database DatabaseConfig
	}
)

// Address returns the "host:port" of the database server.
func (dc DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", dc.Host, dc.Port)
}

// NewConfig loads the configuration from the environment (optionally seeded by config/.env.<env>).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "Masomo Admin")
	v.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("listPageSize", 10)
	v.SetDefault("optionsPageSize", 100)
	v.SetDefault("seedAdminEmail", "admin@localhost")
	v.SetDefault("seedAdminPassword", "")
	v.SetDefault("testMode", false)
	v.SetDefault("server_address", ":8000")
	v.SetDefault("server_debugHost", ":4000")
	v.SetDefault("server_shutdownTimeout", 5*time.Second)
	v.SetDefault("server_jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("database_engine", "postgres")
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", 5432)
	v.SetDefault("database_name", "masomo")
	v.SetDefault("database_user", "masomo")
	v.SetDefault("database_password", "masomo")
	v.SetDefault("database_adminUser", "postgres")
	v.SetDefault("database_adminPassword", "")
	v.SetDefault("database_disableTLS", true)
	v.SetDefault("database_inMemory", false)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		ListPageSize:     v.GetInt("listPageSize"),
		OptionsPageSize:  v.GetInt("optionsPageSize"),

		SeedAdminEmail:    v.GetString("seedAdminEmail"),
		SeedAdminPassword: v.GetString("seedAdminPassword"),

		Server: ServerConfig{
			Address:            v.GetString("server_address"),
			DebugHost:          v.GetString("server_debugHost"),
			ShutdownTimeout:    v.GetDuration("server_shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server_jwtExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database_engine"),
			Host:          v.GetString("database_host"),
			Port:          v.GetInt("database_port"),
			Name:          v.GetString("database_name"),
			User:          v.GetString("database_user"),
			Password:      v.GetString("database_password"),
			AdminUser:     v.GetString("database_adminUser"),
			AdminPassword: v.GetString("database_adminPassword"),
			DisableTLS:    v.GetBool("database_disableTLS"),
			InMemory:      v.GetBool("database_inMemory"),
		},
	}
}

// NewTestConfig returns a Config suitable for unit tests: no environment lookups.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Build:            "test",
		TestMode:         true,
		AppName:          "Masomo Admin",
		SecretKey:        "secret",
		FrontendBaseURL:  "http://localhost:5173",
		DefaultFromEmail: "noreply@localhost",
		ListPageSize:     10,
		OptionsPageSize:  100,
		Server: ServerConfig{
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: time.Hour,
		},
		Database: DatabaseConfig{InMemory: true},
	}
}
