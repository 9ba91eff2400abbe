package config

// Config is the top-level site configuration, corresponding to irigoyen.yml.
type Config struct {
	BaseURL   string          `yaml:"base_url" koanf:"base_url"`
	Dev       bool            `yaml:"dev" koanf:"dev"`
	BuildID   string          `yaml:"build_id" koanf:"build_id"`
	HTTP      HTTPConfig      `yaml:"http" koanf:"http"`
	Logging   LoggingConfig   `yaml:"logging" koanf:"logging"`
	Database  DatabaseConfig  `yaml:"database" koanf:"database"`
	Content   ContentConfig   `yaml:"content" koanf:"content"`
	Assets    AssetsConfig    `yaml:"assets" koanf:"assets"`
	Admin     AdminConfig     `yaml:"admin" koanf:"admin"`
	SMTP      SMTPConfig      `yaml:"smtp" koanf:"smtp"`
	Analytics AnalyticsConfig `yaml:"analytics" koanf:"analytics"`
}

type HTTPConfig struct {
	Address string `yaml:"address" koanf:"address"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" koanf:"level"`   // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format" koanf:"format"` // "text" | "json"
}

type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

type ContentConfig struct {
	Dir    string `yaml:"dir" koanf:"dir"`
	Drafts bool   `yaml:"drafts" koanf:"drafts"`
}

// AssetsConfig drives the build pipeline. Top-level files in SourceDir are
// copied verbatim; files in its subdirectories are fingerprinted.
type AssetsConfig struct {
	SourceDir string `yaml:"source_dir" koanf:"source_dir"`
	OutputDir string `yaml:"output_dir" koanf:"output_dir"`
}

type AdminConfig struct {
	Username     string `yaml:"username" koanf:"username"`
	PasswordHash string `yaml:"password_hash" koanf:"password_hash"`
	JWTSecret    string `yaml:"jwt_secret" koanf:"jwt_secret"`
}

type SMTPConfig struct {
	Host string `yaml:"host" koanf:"host"`
	Port string `yaml:"port" koanf:"port"`
	User string `yaml:"user" koanf:"user"`
	Pass string `yaml:"pass" koanf:"pass"`
	To   string `yaml:"to" koanf:"to"`
}

type AnalyticsConfig struct {
	RetentionDays int `yaml:"retention_days" koanf:"retention_days"`
}
