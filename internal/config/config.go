package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Log       LogConfig       `yaml:"log"`
	Donation  DonationConfig  `yaml:"donation"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains bearer token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// SendGridConfig contains the email delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// FirebaseConfig contains FCM push delivery settings
type FirebaseConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// DonationConfig contains the settlement and obligation engine knobs
type DonationConfig struct {
	EscrowHoldHours     int     `yaml:"escrow_hold_hours"`
	CycleDueDays        int     `yaml:"cycle_due_days"`
	MatchExpiryHours    int     `yaml:"match_expiry_hours"`
	ReminderWindowDays  int     `yaml:"reminder_window_days"`
	CharityCoinsReward  int64   `yaml:"charity_coins_reward"`
	TrustRewardFulfill  float64 `yaml:"trust_reward_fulfill"`
	TrustPenaltyDefault float64 `yaml:"trust_penalty_default"`
	MaxMatchCandidates  int     `yaml:"max_match_candidates"`
	SweepBatchSize      int     `yaml:"sweep_batch_size"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReleaseExpiredEscrows string `yaml:"release_expired_escrows"`
	ExpireStaleMatches    string `yaml:"expire_stale_matches"`
	SweepCycleDueDates    string `yaml:"sweep_cycle_due_dates"`
	RecomputeLeaderboard  string `yaml:"recompute_leaderboard"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// SendGrid / Firebase
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Firebase.CredentialsFile = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and applies defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Donation engine defaults
	if c.Donation.EscrowHoldHours == 0 {
		c.Donation.EscrowHoldHours = 48
	}
	if c.Donation.CycleDueDays == 0 {
		c.Donation.CycleDueDays = 90
	}
	if c.Donation.MatchExpiryHours == 0 {
		c.Donation.MatchExpiryHours = 24
	}
	if c.Donation.ReminderWindowDays == 0 {
		c.Donation.ReminderWindowDays = 7
	}
	if c.Donation.CharityCoinsReward == 0 {
		c.Donation.CharityCoinsReward = 50
	}
	if c.Donation.TrustRewardFulfill == 0 {
		c.Donation.TrustRewardFulfill = 0.25
	}
	if c.Donation.TrustPenaltyDefault == 0 {
		c.Donation.TrustPenaltyDefault = 0.10
	}
	if c.Donation.MaxMatchCandidates == 0 {
		c.Donation.MaxMatchCandidates = 100
	}
	if c.Donation.SweepBatchSize == 0 {
		c.Donation.SweepBatchSize = 500
	}

	// Scheduler defaults
	if c.Scheduler.ReleaseExpiredEscrows == "" {
		c.Scheduler.ReleaseExpiredEscrows = "0 0 * * * *" // hourly
	}
	if c.Scheduler.ExpireStaleMatches == "" {
		c.Scheduler.ExpireStaleMatches = "0 0 */6 * * *" // every 6 hours
	}
	if c.Scheduler.SweepCycleDueDates == "" {
		c.Scheduler.SweepCycleDueDates = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.RecomputeLeaderboard == "" {
		c.Scheduler.RecomputeLeaderboard = "0 30 1 * * *" // 1:30 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
