package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/ktanabe/meetslot/validate"
)

type Config struct {
	Port            int
	BaseURL         string
	DefaultTimeZone string
}

// ParseFlags validates flags and fills defaults from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("meetslot", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.BaseURL, "b", "", "Trusted base URL for share links")
	fs.StringVar(&cfg.DefaultTimeZone, "tz", "", "Default project time zone")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3320 // default
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		return Config{}, errors.New("base URL required (use -b or BASE_URL env)")
	}

	if cfg.DefaultTimeZone == "" {
		cfg.DefaultTimeZone = os.Getenv("DEFAULT_TIMEZONE")
		if cfg.DefaultTimeZone == "" {
			cfg.DefaultTimeZone = "Asia/Tokyo"
		}
	}
	if !validate.TimeZoneName(cfg.DefaultTimeZone) {
		return Config{}, errors.New("invalid DEFAULT_TIMEZONE")
	}

	return cfg, nil
}
