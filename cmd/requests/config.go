package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/requests/client"
)

// config holds the session settings shared by every subcommand. Values
// come from flags, then REQUESTS_* environment variables, then the file
// named by --config.
type config struct {
	Timeout   time.Duration
	UserAgent string
	RPS       int
	Burst     int
	MaxBody   int64
	Form      bool
	NoFollow  bool
	Verbose   bool
}

func bindSessionFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.Duration("timeout", 30*time.Second, "overall transfer timeout")
	fs.String("user-agent", "", "User-Agent for POST and PUT (default derived from the host OS)")
	fs.Int("rps", 0, "requests per second limit (0 disables throttling)")
	fs.Int("burst", 1, "throttle burst capacity")
	fs.Int64("max-body", 0, "abort responses larger than this many bytes (0 disables)")
	fs.Bool("form", false, "escape keys and values separately instead of the joined string")
	fs.Bool("no-follow", false, "do not follow redirects")
	fs.BoolP("verbose", "v", false, "log transfer details to stderr")
}

func loadConfig(fs *pflag.FlagSet) (config, error) {
	v := viper.New()
	v.SetEnvPrefix("REQUESTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return config{}, fmt.Errorf("binding flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	return config{
		Timeout:   v.GetDuration("timeout"),
		UserAgent: v.GetString("user-agent"),
		RPS:       v.GetInt("rps"),
		Burst:     v.GetInt("burst"),
		MaxBody:   v.GetInt64("max-body"),
		Form:      v.GetBool("form"),
		NoFollow:  v.GetBool("no-follow"),
		Verbose:   v.GetBool("verbose"),
	}, nil
}

// options translates cfg into session options.
func (cfg config) options(log *slog.Logger) []client.Option {
	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(log),
	}

	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.RPS > 0 {
		opts = append(opts, client.WithThrottle(cfg.RPS, cfg.Burst))
	}
	if cfg.MaxBody > 0 {
		opts = append(opts, client.WithMaxBodySize(cfg.MaxBody))
	}
	if cfg.Form {
		opts = append(opts, client.WithFormEncoding())
	}
	if cfg.NoFollow {
		opts = append(opts, client.WithNoFollowRedirects())
	}

	return opts
}
