package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/vancomm/sweeper/internal/mines"
)

var ErrInvalid = errors.New("invalid configuration")

type Game struct {
	Width          int           `yaml:"width"`
	Height         int           `yaml:"height"`
	SecondsPerMine int           `yaml:"seconds_per_mine"`
	MaxCells       int           `yaml:"max_cells"`
	MaxSessions    int           `yaml:"max_sessions"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type App struct {
	Addr           string        `yaml:"addr"`
	Development    bool          `yaml:"development"`
	LogFile        string        `yaml:"log_file"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenLifetime  time.Duration `yaml:"jwt_token_lifetime"`
	Database       Database      `yaml:"database"`
	Game           Game          `yaml:"game"`
}

func Default() *App {
	return &App{
		Addr:          ":8080",
		TokenLifetime: 24 * time.Hour,
		Game: Game{
			Width:          9,
			Height:         9,
			SecondsPerMine: mines.DefaultSecondsPerMine,
			MaxCells:       10_000,
			MaxSessions:    1_000,
			IdleTimeout:    30 * time.Minute,
		},
	}
}

// Load reads .env if present, then the optional YAML file at path, then the
// environment. Later sources override earlier ones.
func Load(path string) (*App, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.loadSecret(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) loadEnv() error {
	lookupString("APP_ADDR", &c.Addr)
	lookupString("LOG_FILE", &c.LogFile)
	lookupString("JWT_SECRET", &c.JWTSecret)
	if origins, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		c.AllowedOrigins = splitList(origins)
	}
	if development, ok := os.LookupEnv("DEVELOPMENT"); ok {
		c.Development = development != "0" && development != ""
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"GAME_WIDTH", &c.Game.Width},
		{"GAME_HEIGHT", &c.Game.Height},
		{"GAME_SECONDS_PER_MINE", &c.Game.SecondsPerMine},
		{"GAME_MAX_CELLS", &c.Game.MaxCells},
		{"GAME_MAX_SESSIONS", &c.Game.MaxSessions},
	}
	for _, v := range ints {
		if err := lookupInt(v.key, v.dst); err != nil {
			return err
		}
	}
	if err := lookupDuration("GAME_IDLE_TIMEOUT", &c.Game.IdleTimeout); err != nil {
		return err
	}
	if err := lookupDuration("JWT_TOKEN_LIFETIME", &c.TokenLifetime); err != nil {
		return err
	}
	return c.Database.loadEnv()
}

// loadSecret falls back to JWT_SECRET_FILE, and to a random secret in
// development.
func (c *App) loadSecret() error {
	if c.JWTSecret != "" {
		return nil
	}
	if path, ok := os.LookupEnv("JWT_SECRET_FILE"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to read JWT secret: %w", err)
		}
		c.JWTSecret = strings.TrimSpace(string(data))
		return nil
	}
	if !c.Development {
		return fmt.Errorf("%w: no JWT_SECRET or JWT_SECRET_FILE env variable set", ErrInvalid)
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	c.JWTSecret = string(secret)
	return nil
}

func (c *App) Validate() error {
	g := c.Game
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	case g.Width < 1 || g.Height < 1:
		return fmt.Errorf("%w: default board %dx%d", ErrInvalid, g.Width, g.Height)
	case g.MaxCells > 0 && g.Width > g.MaxCells/g.Height:
		return fmt.Errorf("%w: default board exceeds %d cells", ErrInvalid, g.MaxCells)
	case g.SecondsPerMine < 1:
		return fmt.Errorf("%w: seconds per mine must be positive", ErrInvalid)
	case g.MaxSessions < 0:
		return fmt.Errorf("%w: negative session limit", ErrInvalid)
	case c.TokenLifetime <= 0:
		return fmt.Errorf("%w: token lifetime must be positive", ErrInvalid)
	}
	return nil
}

// Fields describes the configuration for logging, without secrets.
func (c *App) Fields() logrus.Fields {
	return logrus.Fields{
		"addr":         c.Addr,
		"development":  c.Development,
		"width":        c.Game.Width,
		"height":       c.Game.Height,
		"per_mine":     c.Game.SecondsPerMine,
		"max_sessions": c.Game.MaxSessions,
		"database":     c.Database.Enabled(),
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func lookupInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("unable to parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

func lookupDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("unable to parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
