package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"mysql-backup-service/internal/domain"
)

type Config struct {
	EnvDirectory       string             `mapstructure:"env_directory"`
	BackupDirectory    string             `mapstructure:"backup_directory"`
	LogDirectory       string             `mapstructure:"log_directory"`
	LogLevel           string             `mapstructure:"log_level"`
	RetentionDays      int                `mapstructure:"retention_days"`
	Concurrency        int                `mapstructure:"concurrency"`
	DumpTimeoutSeconds int                `mapstructure:"dump_timeout_seconds"`
	Schedule           []string           `mapstructure:"schedule"`
	CleanupSchedule    string             `mapstructure:"cleanup_schedule"`
	Notification       NotificationConfig `mapstructure:"notification"`
	UploadTargets      []UploadTarget     `mapstructure:"upload_targets"`
}

type NotificationConfig struct {
	Enabled        bool           `mapstructure:"enabled"`
	TimeoutSeconds int            `mapstructure:"timeout_seconds"`
	Webhook        string         `mapstructure:"webhook"`
	Email          string         `mapstructure:"email"`
	SMTP           SMTPConfig     `mapstructure:"smtp"`
	WhatsApp       WhatsAppConfig `mapstructure:"whatsapp"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type WhatsAppConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIURL  string `mapstructure:"api_url"`
	GroupID string `mapstructure:"group_id"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type UploadTarget struct {
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`

	// AWS S3
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`

	// Google Drive
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`
}

// Load reads and validates the global JSON config file. A missing or
// unreadable file is a ConfigError: the run must not start on defaults the
// operator never wrote.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("env_directory", "/etc/mysql-backup/env")
	v.SetDefault("backup_directory", "/var/backups/mysql")
	v.SetDefault("log_directory", "/var/log/mysql-backup")
	v.SetDefault("log_level", "info")
	v.SetDefault("retention_days", 3)
	v.SetDefault("concurrency", 1)
	v.SetDefault("dump_timeout_seconds", 3600)
	v.SetDefault("notification.timeout_seconds", 30)
	v.SetDefault("notification.smtp.port", 587)

	if err := v.ReadInConfig(); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("failed to read config: %w", err)}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.EnvDirectory == "" {
		return fmt.Errorf("env_directory is required")
	}
	if c.BackupDirectory == "" {
		return fmt.Errorf("backup_directory is required")
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be at least 1, got %d", c.RetentionDays)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.DumpTimeoutSeconds < 1 {
		return fmt.Errorf("dump_timeout_seconds must be at least 1, got %d", c.DumpTimeoutSeconds)
	}

	if c.Notification.Enabled && c.Notification.Email != "" {
		if c.Notification.SMTP.Host == "" {
			return fmt.Errorf("notification.smtp.host is required when notification.email is set")
		}
		if c.Notification.SMTP.From == "" {
			return fmt.Errorf("notification.smtp.from is required when notification.email is set")
		}
	}

	for i, t := range c.UploadTargets {
		if !t.Enabled {
			continue
		}
		switch t.Type {
		case "s3":
			if t.Bucket == "" || t.Region == "" {
				return fmt.Errorf("upload_targets[%d]: s3 target needs bucket and region", i)
			}
		case "gdrive":
			if t.CredentialsFile == "" || t.FolderID == "" {
				return fmt.Errorf("upload_targets[%d]: gdrive target needs credentials_file and folder_id", i)
			}
		default:
			return fmt.Errorf("upload_targets[%d]: unknown type %q", i, t.Type)
		}
	}

	return nil
}

// DumpTimeout is the per-profile bound on the export process.
func (c *Config) DumpTimeout() time.Duration {
	return time.Duration(c.DumpTimeoutSeconds) * time.Second
}

// NotifyTimeout bounds each outbound notification call independently of the
// dump timeout.
func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.Notification.TimeoutSeconds) * time.Second
}

// LogFile is where the rotating JSON log lands.
func (c *Config) LogFile() string {
	if c.LogDirectory == "" {
		return ""
	}
	return filepath.Join(c.LogDirectory, "mysql-backup.log")
}

// ReportPath is the persisted location of the last RunReport.
func (c *Config) ReportPath() string {
	return filepath.Join(c.BackupDirectory, "last_run.json")
}

// EnabledUploadTargets filters the configured replication destinations.
func (c *Config) EnabledUploadTargets() []UploadTarget {
	var enabled []UploadTarget
	for _, t := range c.UploadTargets {
		if t.Enabled {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
