package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env   string `mapstructure:"env"`
	Debug bool   `mapstructure:"debug"`

	// URL is the portal base endpoint; CONFIG carries the raw account list.
	URL      string `mapstructure:"url"`
	Accounts string `mapstructure:"config"`
	Timeout  int    `mapstructure:"timeout"`

	TG     TelegramConfig `mapstructure:"tg"`
	Notify NotifyConfig   `mapstructure:"notify"`
	Kafka  KafkaConfig    `mapstructure:"kafka"`
	GitHub GitHubConfig   `mapstructure:"github"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type NotifyConfig struct {
	OnSuccess bool   `mapstructure:"on_success"`
	Title     string `mapstructure:"title"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// GitHubConfig is the optional Actions run context used to link the
// notification summary back to the run.
type GitHubConfig struct {
	ServerURL  string `mapstructure:"server_url"`
	Repository string `mapstructure:"repository"`
	RunID      string `mapstructure:"run_id"`
}

func Load() (*Config, error) {

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("local")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment values arrive as strings; take the cast path for the
	// non-string scalars so "TIMEOUT=30" and "NOTIFY_ON_SUCCESS=true" work.
	cfg.Debug = viper.GetBool("debug")
	cfg.Timeout = viper.GetInt("timeout")
	cfg.Notify.OnSuccess = viper.GetBool("notify.on_success")

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("env", "prod")
	viper.SetDefault("debug", false)

	viper.SetDefault("url", "")
	viper.SetDefault("config", "")
	viper.SetDefault("timeout", 20)

	viper.SetDefault("tg.bot_token", "")
	viper.SetDefault("tg.chat_id", "")

	viper.SetDefault("notify.on_success", false)
	viper.SetDefault("notify.title", "Ikuuu机场签到")

	viper.SetDefault("kafka.brokers", "")
	viper.SetDefault("kafka.topic", "checkin-outcomes")

	viper.SetDefault("github.server_url", "")
	viper.SetDefault("github.repository", "")
	viper.SetDefault("github.run_id", "")
}

func (c *Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// BrokerList splits KAFKA_BROKERS into addresses; empty means the outcome
// event stream is disabled.
func (c *Config) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// RunLink returns the GitHub Actions run URL when the full context is
// present, otherwise the empty string.
func (c *Config) RunLink() string {
	if c.GitHub.ServerURL == "" || c.GitHub.Repository == "" || c.GitHub.RunID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/actions/runs/%s", c.GitHub.ServerURL, c.GitHub.Repository, c.GitHub.RunID)
}
