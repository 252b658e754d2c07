package debugserver

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32
)

// fileConfig is the on-disk TOML shape loaded by LoadConfigFile; Password
// is plaintext in the file and hashed into Config.PasswordHash at load
// time so the running process never needs to hold it in the clear longer
// than necessary.
type fileConfig struct {
	ListenAddr        string `toml:"listen_addr"`
	TokenSecret       string `toml:"token_secret"`
	Password          string `toml:"password"`
	UnauthDelayMillis int    `toml:"unauth_delay_millis"`
}

// Config is the resolved configuration for a Server.
type Config struct {
	ListenAddr        string
	TokenSecret       []byte
	PasswordHash      []byte
	UnauthDelayMillis int
}

// LoadConfigFile reads a TOML config file, hashing its plaintext password
// into a bcrypt digest.
func LoadConfigFile(path string) (Config, error) {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := Config{
		ListenAddr:        fc.ListenAddr,
		TokenSecret:       []byte(fc.TokenSecret),
		UnauthDelayMillis: fc.UnauthDelayMillis,
	}
	if fc.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(fc.Password), bcrypt.DefaultCost)
		if err != nil {
			return Config{}, fmt.Errorf("hash password: %w", err)
		}
		cfg.PasswordHash = hash
	}
	return cfg, nil
}

// UnauthDelay returns the configured anti-flood delay as a time.Duration.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Millisecond * time.Duration(cfg.UnauthDelayMillis)
}

// FillDefaults returns a copy of cfg with unset fields defaulted:
// "localhost:8080" as the listen address and a 1 second unauth delay. It
// leaves TokenSecret and PasswordHash as they are.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.ListenAddr == "" {
		out.ListenAddr = "localhost:8080"
	}
	if out.UnauthDelayMillis == 0 {
		out.UnauthDelayMillis = 1000
	}
	return out
}

// Validate returns an error describing the first invalid field found.
func (cfg Config) Validate() error {
	if len(cfg.TokenSecret) < MinSecretSize {
		return fmt.Errorf("token secret: must be at least %d bytes, but is %d", MinSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.TokenSecret) > MaxSecretSize {
		return fmt.Errorf("token secret: must be no more than %d bytes, but is %d", MaxSecretSize, len(cfg.TokenSecret))
	}
	if len(cfg.PasswordHash) == 0 {
		return fmt.Errorf("password: must be set")
	}
	return nil
}

// NormalizeSecret repeats secret until it reaches MinSecretSize bytes,
// refusing anything already over MaxSecretSize.
func NormalizeSecret(secret []byte) ([]byte, error) {
	out := append([]byte(nil), secret...)
	for len(out) > 0 && len(out) < MinSecretSize {
		doubled := make([]byte, len(out)*2)
		copy(doubled, out)
		copy(doubled[len(out):], out)
		out = doubled
	}
	if len(out) > MaxSecretSize {
		return nil, fmt.Errorf("secret is %d bytes, but it must be <= %d bytes", len(out), MaxSecretSize)
	}
	return out, nil
}
