package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DEFAULT_PREFIX          = "$"
	DEFAULT_LEDGER_FILE     = "vouches.json"
	DEFAULT_TIMEOUT         = 604800 * time.Second // 7 days
	DEFAULT_COLLECT_TIMEOUT = 120 * time.Second
)

// Config holds everything the bot reads from the environment.
// Role and user ids are discord snowflakes kept as strings;
// an empty id disables the corresponding check.
type Config struct {
	Token           string
	Prefix          string
	VouchRoleId     string
	MemberRoleId    string
	OwnerId         string
	ProtectedRoleId string
	TimeoutDuration time.Duration
	CollectTimeout  time.Duration
	LedgerFile      string
}

// Load reads the configuration from the environment, after loading
// an optional .env file. The bot token is the only required value.
func Load() (Config, error) {

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading configuration from the environment")
	}

	var cfg Config

	cfg.Token = os.Getenv("BOT_TOKEN")
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("required configuration BOT_TOKEN is not set")
	}

	cfg.Prefix = os.Getenv("COMMAND_PREFIX")
	if cfg.Prefix == "" {
		cfg.Prefix = DEFAULT_PREFIX
	}
	if len(cfg.Prefix) != 1 {
		return Config{}, fmt.Errorf("COMMAND_PREFIX has to be a single character, got `%s`", cfg.Prefix)
	}

	cfg.VouchRoleId = os.Getenv("VOUCH_ROLE_ID")
	cfg.MemberRoleId = os.Getenv("MEMBER_ROLE_ID")
	cfg.OwnerId = os.Getenv("BOT_OWNER_ID")
	cfg.ProtectedRoleId = os.Getenv("PROTECTED_ROLE_ID")

	cfg.LedgerFile = os.Getenv("LEDGER_FILE")
	if cfg.LedgerFile == "" {
		cfg.LedgerFile = DEFAULT_LEDGER_FILE
	}

	var err error
	if cfg.TimeoutDuration, err = seconds("TIMEOUT_DURATION", DEFAULT_TIMEOUT); err != nil {
		return Config{}, err
	}
	if cfg.CollectTimeout, err = seconds("COLLECT_TIMEOUT", DEFAULT_COLLECT_TIMEOUT); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Read a duration expressed as a number of seconds from the
// environment, falling back to the provided default if unset
func seconds(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	count, err := strconv.Atoi(value)
	if err != nil || count <= 0 {
		return 0, fmt.Errorf("%s has to be a positive number of seconds, got `%s`", key, value)
	}
	return time.Duration(count) * time.Second, nil
}
