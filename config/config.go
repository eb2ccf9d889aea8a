package config

import (
	"encoding/json"
	"log"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Smtp struct {
		Host string `json:"host"`
		Port string `json:"port"`
		User string `json:"user"`
		Pass string `json:"pass"`
		From string `json:"from"`
	} `json:"smtp"`

	Security struct {
		SessionTokenHours int      `json:"session_token_hours"`
		RecoveryCodeMins  int      `json:"recovery_code_minutes"`
		PasswordMinLen    int      `json:"password_min_length"`
		SweepIntervalMins int      `json:"sweep_interval_minutes"`
		PublicRoutes      []string `json:"public_routes"`
	} `json:"security"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}
	return WithDefaults(c)
}

// WithDefaults preenche os campos obrigatórios que ficaram zerados.
// Os únicos knobs de comportamento são os do bloco Security; todo o resto
// do fluxo de autenticação é fixo.
func WithDefaults(c Configuration) Configuration {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.SessionTokenHours <= 0 {
		c.Security.SessionTokenHours = 24
	}
	if c.Security.RecoveryCodeMins <= 0 {
		c.Security.RecoveryCodeMins = 10
	}
	if c.Security.PasswordMinLen <= 0 {
		c.Security.PasswordMinLen = 8
	}
	if c.Security.SweepIntervalMins <= 0 {
		c.Security.SweepIntervalMins = 15
	}
	if len(c.Security.PublicRoutes) == 0 {
		c.Security.PublicRoutes = []string{
			"/api/v1/register",
			"/api/v1/login",
			"/api/v1/verify-token",
			"/api/v1/refresh",
			"/api/v1/logout",
			"/api/v1/request-password-reset",
			"/api/v1/verify-reset-code",
			"/api/v1/reset-password",
		}
	}
	return c
}
