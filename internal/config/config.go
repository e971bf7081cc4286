package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forumdash/amo-analytics-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	CRM       CRMConfig
	Rules     RulesConfig
	Auth      AuthConfig
	Plans     PlansConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// CRMConfig holds connection settings for the amoCRM REST API
type CRMConfig struct {
	// Domain is the account subdomain, e.g. "mycompany" for mycompany.amocrm.ru
	Domain string
	// BaseURL overrides the URL derived from Domain (used for proxies and tests)
	BaseURL string
	// Token is the long-lived bearer token
	Token string
	// Timeout is the per-request timeout (seconds)
	Timeout int
	// MinRequestIntervalMs is the minimum spacing between outbound calls, process-wide
	MinRequestIntervalMs int
	// PageSize is the number of leads requested per page (amoCRM maximum is 250)
	PageSize int
	// ContactBatchSize is the number of contact ids requested per call
	ContactBatchSize int
	// ContactBatchPauseMs is the pause between contact batches
	ContactBatchPauseMs int
}

// RulesConfig holds account-specific business rules
type RulesConfig struct {
	// PipelineGoals maps pipeline id to the stage id that means "fully paid"
	PipelineGoals map[string]int64
}

// AuthConfig holds dashboard login settings
type AuthConfig struct {
	Username      string
	Password      string
	DisplayName   string
	JWTSecret     string
	TokenTTLHours int
	// RequireToken protects the analytics routes with the token issued by /login
	RequireToken bool
}

// PlansConfig selects where plan records are persisted
type PlansConfig struct {
	// Backend is "file" (single JSON document) or "database"
	Backend  string
	FileName string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	SQLitePath      string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout   int
	WriteTimeout  int
	EnableSwagger bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins; "*" allows all
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	WhitelistIPs      []string
	WhitelistPaths    []string
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	CRMProbeEnabled bool
	CRMProbeCron    string
	CRMProbeTimeout int // seconds
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// APIBaseURL returns the v4 API root for the configured account
func (c *CRMConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.amocrm.ru/api/v4", c.Domain)
}

func (c *CRMConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c *CRMConfig) MinRequestInterval() time.Duration {
	return time.Duration(c.MinRequestIntervalMs) * time.Millisecond
}

func (c *CRMConfig) ContactBatchPause() time.Duration {
	return time.Duration(c.ContactBatchPauseMs) * time.Millisecond
}

func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

func (j *JobsConfig) CRMProbeTimeoutDuration() time.Duration {
	return time.Duration(j.CRMProbeTimeout) * time.Second
}

// GoalStatuses converts the configured pipeline goals into numeric keys.
// Entries whose key is not a pipeline id are ignored.
func (r *RulesConfig) GoalStatuses() map[int64]int64 {
	goals := make(map[int64]int64, len(r.PipelineGoals))
	for k, v := range r.PipelineGoals {
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			continue
		}
		goals[id] = v
	}
	return goals
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.CRM.Domain == "" && c.CRM.BaseURL == "" {
		return fmt.Errorf("AMO_DOMAIN (crm.domain) is required")
	}
	if c.CRM.Token == "" {
		return fmt.Errorf("AMO_TOKEN (crm.token) is required")
	}
	switch c.Plans.Backend {
	case "file", "database":
	default:
		return fmt.Errorf("unsupported plans backend: %s", c.Plans.Backend)
	}
	return nil
}

// Load loads configuration from file and environment variables.
// Secrets from Azure Key Vault are resolved by LoadWithSecrets.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Variable names used by the existing deployments
	if cfg.CRM.Domain == "" {
		cfg.CRM.Domain = v.GetString("AMO_DOMAIN")
	}
	if cfg.CRM.Token == "" {
		cfg.CRM.Token = v.GetString("AMO_TOKEN")
	}
	if plansFile := v.GetString("PLANS_FILE"); plansFile != "" {
		cfg.Plans.FileName = plansFile
	}
	if user := v.GetString("DASHBOARD_USERNAME"); user != "" {
		cfg.Auth.Username = user
	}
	if pass := v.GetString("DASHBOARD_PASSWORD"); pass != "" {
		cfg.Auth.Password = pass
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if port := v.GetInt("PORT"); port != 0 {
		cfg.App.Port = port
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves the CRM token and JWT secret
// from Azure Key Vault when USE_AZURE_KEY_VAULT=true in staging or production.
// Environment variables always win over vault values.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if token, err := provider.GetSecretOrEnv(ctx, "amo-token", "AMO_TOKEN"); err == nil && token != "" {
		cfg.CRM.Token = token
	}
	if secret, err := provider.GetSecretOrEnv(ctx, "dashboard-jwt-secret", "JWT_SECRET"); err == nil && secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if pass, err := provider.GetSecretOrEnv(ctx, "dashboard-password", "DASHBOARD_PASSWORD"); err == nil && pass != "" {
		cfg.Auth.Password = pass
	}
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}
	if dbPass, err := provider.GetSecretOrEnv(ctx, "postgres-password", "DATABASE_PASSWORD"); err == nil && dbPass != "" {
		cfg.Database.Password = dbPass
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "amoCRM Analytics API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 3001)

	v.SetDefault("crm.domain", "")
	v.SetDefault("crm.baseURL", "")
	v.SetDefault("crm.token", "")
	v.SetDefault("crm.timeout", 60)
	v.SetDefault("crm.minRequestIntervalMs", 200)
	v.SetDefault("crm.pageSize", 250)
	v.SetDefault("crm.contactBatchSize", 50)
	v.SetDefault("crm.contactBatchPauseMs", 100)

	v.SetDefault("rules.pipelineGoals", map[string]int64{
		"10348918": 81840638, // Toshkent Forum
		"10348938": 81840714, // Toshkent Kurs
		"10490310": 82817566,
		"10490314": 82817690,
	})

	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "admin123")
	v.SetDefault("auth.displayName", "Administrator")
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.tokenTTLHours", 12)
	v.SetDefault("auth.requireToken", false)

	v.SetDefault("plans.backend", "file")
	v.SetDefault("plans.fileName", "plans.json")

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", ".")
	v.SetDefault("storage.cloudConnectionString", "")
	v.SetDefault("storage.cloudContainer", "plans")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "dashboard")
	v.SetDefault("database.user", "dashboard_user")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.sqlitePath", "plans.db")
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.maxOpenConns", 5)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300)

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.keyVaultName", "")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Marketing breakdowns over a wide window can take minutes of throttled calls
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 300)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"X-Request-ID"})
	v.SetDefault("cors.allowCredentials", false)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/", "/health", "/health/ready", "/swagger/*"})

	v.SetDefault("jobs.crmProbeEnabled", true)
	v.SetDefault("jobs.crmProbeCron", "@every 5m")
	v.SetDefault("jobs.crmProbeTimeout", 20)
}
