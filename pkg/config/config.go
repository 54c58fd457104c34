package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config regroupe la configuration de l'application (lecture via Viper
// depuis l'environnement et optionnellement un fichier .env).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Agency AgencyConfig
	Sweep  SweepConfig
}

// AppConfig configuration générale.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// AgencyConfig identité vendeur de l'agence, injectée au rendu des factures
// (jamais codée en dur dans les modèles).
type AgencyConfig struct {
	Name     string
	Address  string
	Phone    string
	Mobile   string
	Email    string
	VAT      string
	BankName string
	BankIBAN string
}

// SweepConfig configuration du balayage de fermeture des caisses.
type SweepConfig struct {
	Enabled  bool
	Interval int // minutes entre deux vérifications
}

// DBConfig configuration PostgreSQL.
// Si DatabaseURL n'est pas vide, il est utilisé comme connection string complet.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString retourne le DSN à utiliser: DATABASE_URL si défini,
// sinon le DSN construit.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construit le connection string PostgreSQL avec encodage URL du mot de
// passe (caractères spéciaux).
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuration JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// HTTPConfig configuration du serveur HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr retourne l'adresse d'écoute (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lit la configuration depuis les variables d'environnement (et
// optionnellement un fichier .env). Les env vars sont prioritaires.
func Load() (*Config, error) {
	v := viper.New()

	// Fichier .env optionnel; son absence n'est pas une erreur.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "travel-pro"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "travel_pro"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "travel-pro"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Agency: AgencyConfig{
			Name:     getString(v, "AGENCY_NAME", ""),
			Address:  getString(v, "AGENCY_ADDRESS", ""),
			Phone:    getString(v, "AGENCY_PHONE", ""),
			Mobile:   getString(v, "AGENCY_MOBILE", ""),
			Email:    getString(v, "AGENCY_EMAIL", ""),
			VAT:      getString(v, "AGENCY_VAT", ""),
			BankName: getString(v, "AGENCY_BANK_NAME", ""),
			BankIBAN: getString(v, "AGENCY_BANK_IBAN", ""),
		},
		Sweep: SweepConfig{
			Enabled:  getBool(v, "CASH_SWEEP_ENABLED", true),
			Interval: getInt(v, "CASH_SWEEP_INTERVAL_MINUTES", 15),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
