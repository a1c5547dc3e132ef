package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Email   EmailConfig
	Report  ReportConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	Timezone    string // zona usada para fechas de reportes y rangos semanales
	LogLevel    string
	FrontendURL string // base de los enlaces de recuperación de contraseña
}

// IsDevelopment informa si los errores internos pueden exponerse en las respuestas.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resuelve la zona horaria configurada; si no existe usa UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	ForceIPv4   bool // conectar solo por IPv4 aunque el host publique AAAA
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Proveedores de correo soportados.
const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
)

// EmailConfig configuración del proveedor de correo transaccional.
type EmailConfig struct {
	Provider       string
	ResendAPIKey   string
	ResendBaseURL  string
	DomainVerified bool   // true: envío directo con CC; false: modo sandbox con envíos individuales
	From           string // remitente con dominio verificado
	SandboxFrom    string // remitente del modo sandbox
	ReplyTo        string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
}

// ReportConfig destinatarios y formato de los reportes.
type ReportConfig struct {
	Principal        string
	CC               []string
	Format           string // csv, xlsx, pdf
	TmpDir           string
	Cron             string
	SchedulerEnabled bool
}

// MetricsConfig exposición de métricas Prometheus.
type MetricsConfig struct {
	Enabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATABASE_URL, JWT_SECRET, RESEND_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := fromViper(v)
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "stockit-api"),
			Timezone:    getString(v, "APP_TIMEZONE", "America/Santiago"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			FrontendURL: getString(v, "FRONTEND_URL", "http://localhost:3000"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "stockit"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			ForceIPv4:   getBool(v, "DB_FORCE_IPV4", false),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 7*24*60),
			Issuer:     getString(v, "JWT_ISSUER", "stockit-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			// PORT es la variable que inyectan los PaaS; HTTP_PORT queda como alternativa.
			Port: getInt(v, "PORT", getInt(v, "HTTP_PORT", 5000)),
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(getString(v, "EMAIL_PROVIDER", EmailProviderResend)),
			ResendAPIKey:   getString(v, "RESEND_API_KEY", ""),
			ResendBaseURL:  getString(v, "RESEND_BASE_URL", "https://api.resend.com"),
			DomainVerified: getBool(v, "EMAIL_DOMAIN_VERIFIED", false),
			From:           getString(v, "EMAIL_FROM", "StockIt <noreply@stockit.app>"),
			SandboxFrom:    getString(v, "EMAIL_SANDBOX_FROM", "StockIt <onboarding@resend.dev>"),
			ReplyTo:        getString(v, "EMAIL_REPLY_TO", ""),
			SMTPHost:       getString(v, "SMTP_HOST", ""),
			SMTPPort:       getInt(v, "SMTP_PORT", 587),
			SMTPUser:       getString(v, "SMTP_USER", ""),
			SMTPPass:       getString(v, "SMTP_PASS", ""),
		},
		Report: ReportConfig{
			Principal:        getString(v, "REPORT_EMAIL_PRINCIPAL", ""),
			CC:               SplitList(getString(v, "REPORT_EMAIL_COPIA", "")),
			Format:           strings.ToLower(getString(v, "REPORT_FORMAT", "csv")),
			TmpDir:           getString(v, "REPORT_TMP_DIR", "tmp"),
			Cron:             getString(v, "REPORT_CRON", "0 8 * * 1"),
			SchedulerEnabled: getBool(v, "SCHEDULER_ENABLED", true),
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
		},
	}
}

// SplitList separa una lista de valores por comas descartando vacíos.
func SplitList(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
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
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
