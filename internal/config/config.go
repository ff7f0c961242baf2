package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DataDir           string        `mapstructure:"data_dir"`
	HTTPAddr          string        `mapstructure:"http_addr"`
	LockTimeout       time.Duration `mapstructure:"lock_timeout"`
	LowStockThreshold int           `mapstructure:"low_stock_threshold"`
	KafkaBrokers      string        `mapstructure:"kafka_brokers"`
	Gateways          Gateways      `mapstructure:"gateways"`
}

type Gateways struct {
	Stripe StripeConfig `mapstructure:"stripe"`
	PayPal PayPalConfig `mapstructure:"paypal"`
	PSE    PSEConfig    `mapstructure:"pse"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type PayPalConfig struct {
	ClientID string `mapstructure:"client_id"`
	Secret   string `mapstructure:"secret"`
	Sandbox  bool   `mapstructure:"sandbox"`
}

type PSEConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// Load reads the optional yaml file and the STORE_* environment, with env
// taking precedence over file over defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "data")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("lock_timeout", "5s")
	v.SetDefault("low_stock_threshold", 10)
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("gateways.pse.base_url", "https://api.secure.payco.co")

	v.SetEnvPrefix("STORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	return &cfg, nil
}
