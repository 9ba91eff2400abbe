package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://www.irigoyen.dev",
		HTTP:    HTTPConfig{Address: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Path: "data/site.db",
		},
		Content: ContentConfig{Dir: "content"},
		Assets: AssetsConfig{
			SourceDir: "static",
			OutputDir: "build",
		},
		Admin: AdminConfig{Username: "admin"},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Analytics: AnalyticsConfig{RetentionDays: 365},
	}
}
