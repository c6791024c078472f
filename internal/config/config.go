package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config stores all settings for the application.
type Config struct {
	DBPath    string `mapstructure:"DB_PATH"`
	Port      string `mapstructure:"PORT"`
	UploadDir string `mapstructure:"UPLOAD_DIR"` // empty means uploads/ next to the database
	ChartPath string `mapstructure:"CHART_PATH"` // chart of accounts JSON; may be absent
	OCRLang   string `mapstructure:"OCR_LANG"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables or a .env file.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("DB_PATH", "./data/tilikirja.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("UPLOAD_DIR", "")
	viper.SetDefault("CHART_PATH", "./data/tilikartta.json")
	viper.SetDefault("OCR_LANG", "fin")
	viper.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{"DB_PATH", "PORT", "UPLOAD_DIR", "CHART_PATH", "OCR_LANG", "LOG_LEVEL"} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
