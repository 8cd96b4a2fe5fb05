package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Platform PlatformConfig
	Store    StoreConfig
	Ledger   LedgerConfig
	Attach   AttachConfig
	Poll     PollConfig
	Announce AnnounceConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
}

type AnnounceConfig struct {
	HistoryPath string
	QRSize      int // pixel edge of the admin lookup QR image
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// PlatformConfig carries the chat-platform identifiers consumed, not
// reinterpreted, by this system. AdminRoleID is optional; everything else
// required by a given binary is checked at startup.
type PlatformConfig struct {
	APIBaseURL              string
	Token                   string
	GuildID                 string
	Timezone                string
	SellerAnnounceChannelID string
	BuyerAnnounceChannelID  string
	AdminAnnounceChannelID  string
	AdminCheckChannelID     string
	SellerCategoryID        string
	BuyerCategoryID         string
	AdminCategoryID         string
	AdminRoleID             string
}

type StoreConfig struct {
	Backend string // "file" or "sqlite"
	Path    string // tickets.json for file, sqlite file otherwise
}

type LedgerConfig struct {
	Backend string // "file" or "redis"
	Path    string
}

type AttachConfig struct {
	Backend       string // "local" or "remote"
	DataDir       string
	AssetHostURL  string
	Retention     time.Duration
	SweepInterval time.Duration
}

type PollConfig struct {
	Interval   time.Duration
	ChannelTTL time.Duration
	PendingTTL time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topics   TopicConfig
	MockMode bool
	Enabled  bool
}

type TopicConfig struct {
	TicketCreated   string
	TicketAnnounced string
}

type RedisConfig struct {
	Addr string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":3000"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Platform: PlatformConfig{
			APIBaseURL:              getEnv("PLATFORM_API_URL", ""),
			Token:                   getEnv("PLATFORM_TOKEN", ""),
			GuildID:                 getEnv("GUILD_ID", ""),
			Timezone:                getEnv("DISPLAY_TIMEZONE", "Asia/Ho_Chi_Minh"),
			SellerAnnounceChannelID: getEnv("SELLER_ANNOUNCE_CHANNEL_ID", ""),
			BuyerAnnounceChannelID:  getEnv("BUYER_ANNOUNCE_CHANNEL_ID", ""),
			AdminAnnounceChannelID:  getEnv("ADMIN_ANNOUNCE_CHANNEL_ID", ""),
			AdminCheckChannelID:     getEnv("ADMIN_CHECK_CHANNEL_ID", ""),
			SellerCategoryID:        getEnv("SELLER_CATEGORY_ID", ""),
			BuyerCategoryID:         getEnv("BUYER_CATEGORY_ID", ""),
			AdminCategoryID:         getEnv("ADMIN_CATEGORY_ID", ""),
			AdminRoleID:             getEnv("ADMIN_ROLE_ID", ""),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "file"),
			Path:    getEnv("STORE_PATH", "data/tickets.json"),
		},
		Ledger: LedgerConfig{
			Backend: getEnv("LEDGER_BACKEND", "file"),
			Path:    getEnv("LEDGER_PATH", "data/sent.json"),
		},
		Attach: AttachConfig{
			Backend:       getEnv("ATTACH_BACKEND", "local"),
			DataDir:       getEnv("ATTACH_DATA_DIR", "data/tickets"),
			AssetHostURL:  getEnv("ASSET_HOST_URL", ""),
			Retention:     getEnvDuration("ATTACH_RETENTION", 30*24*time.Hour),
			SweepInterval: getEnvDuration("ATTACH_SWEEP_INTERVAL", 24*time.Hour),
		},
		Poll: PollConfig{
			Interval:   getEnvDuration("POLL_INTERVAL", 10*time.Second),
			ChannelTTL: getEnvDuration("CHANNEL_TTL", 10*time.Minute),
			PendingTTL: getEnvDuration("PENDING_TTL", 15*time.Minute),
		},
		Announce: AnnounceConfig{
			HistoryPath: getEnv("HISTORY_PATH", "data/history.log"),
			QRSize:      getEnvInt("QR_SIZE", 256),
		},
		Kafka: KafkaConfig{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Topics: TopicConfig{
				TicketCreated:   getEnv("KAFKA_TOPIC_TICKET_CREATED", "ticket-created"),
				TicketAnnounced: getEnv("KAFKA_TOPIC_TICKET_ANNOUNCED", "ticket-announced"),
			},
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
	}
}

// RequireSubmission checks the identifiers the submission process cannot
// run without. Missing configuration at startup is fatal to the process.
func (c *Config) RequireSubmission() error {
	return requireAll(map[string]string{
		"PLATFORM_TOKEN":             c.Platform.Token,
		"GUILD_ID":                   c.Platform.GuildID,
		"SELLER_ANNOUNCE_CHANNEL_ID": c.Platform.SellerAnnounceChannelID,
		"BUYER_ANNOUNCE_CHANNEL_ID":  c.Platform.BuyerAnnounceChannelID,
		"SELLER_CATEGORY_ID":         c.Platform.SellerCategoryID,
		"BUYER_CATEGORY_ID":          c.Platform.BuyerCategoryID,
	})
}

// RequireAnnounce checks the identifiers the announce process cannot run
// without.
func (c *Config) RequireAnnounce() error {
	return requireAll(map[string]string{
		"PLATFORM_TOKEN":            c.Platform.Token,
		"GUILD_ID":                  c.Platform.GuildID,
		"ADMIN_ANNOUNCE_CHANNEL_ID": c.Platform.AdminAnnounceChannelID,
		"ADMIN_CHECK_CHANNEL_ID":    c.Platform.AdminCheckChannelID,
		"ADMIN_CATEGORY_ID":         c.Platform.AdminCategoryID,
	})
}

func requireAll(vars map[string]string) error {
	for name, value := range vars {
		if value == "" {
			return fmt.Errorf("missing required environment variable %s", name)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
