package config

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Local     bool   `yaml:"local"`
}

type JWTConfig struct {
	SecretKey        string `yaml:"secret_key"`
	Algorithm        string `yaml:"algorithm"`
	AccessTokenTTL   string `yaml:"access_token_ttl"`
	RefreshTokenTTL  string `yaml:"refresh_token_ttl"`
	RecoveryTokenTTL string `yaml:"recovery_token_ttl"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

// EmailConfig : SMTP настройки; Mock=true подменяет отправку логированием
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	Retries  int    `yaml:"retries"`
	Mock     bool   `yaml:"mock"`
}

// CookieConfig : параметры refresh-cookie (login_token)
type CookieConfig struct {
	SameSite string `yaml:"same_site"`
	Secure   bool   `yaml:"secure"`
}

type TTL struct {
	FeedCache int `yaml:"feed_cache"` // секунды
}
