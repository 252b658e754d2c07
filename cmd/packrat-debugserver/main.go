/*
Packrat-debugserver starts a small HTTP service for remotely exercising a
packrat grammar: POST source text to /parse (after authenticating at
/login) and get back its token list and parse tree as JSON.

Usage:

	packrat-debugserver [flags]

The flags are:

	-v, --version
		Give the current version of packrat-debugserver and then exit.

	-l, --listen ADDRESS:PORT
		Listen on the given address. Defaults to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing session tokens. If fewer than 32
		bytes are given, it is repeated until it reaches 32. If not given, a
		random secret is generated, invalidating all sessions at shutdown.

	-p, --password PASSWORD
		Require this password at /login. Required unless --config is given.

	--config FILE
		Load a TOML config file (listen_addr, token_secret, password,
		unauth_delay_millis) instead of using the above flags.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/dekarrin/packrat/internal/debugserver"
	"github.com/dekarrin/packrat/internal/version"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

var (
	flagVersion  = pflag.BoolP("version", "v", false, "Give the version and exit")
	flagListen   = pflag.StringP("listen", "l", "", "Listen on the given address")
	flagSecret   = pflag.StringP("secret", "s", "", "Use the given secret for session tokens")
	flagPassword = pflag.StringP("password", "p", "", "Require this password at /login")
	flagConfig   = pflag.String("config", "", "Load a TOML config file")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("packrat-debugserver %s\n", version.Current)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid configuration: %s\n", err)
		os.Exit(1)
	}

	srv, err := debugserver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not build server: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("packrat-debugserver %s listening on %s\n", version.Current, cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig() (debugserver.Config, error) {
	if *flagConfig != "" {
		return debugserver.LoadConfigFile(*flagConfig)
	}

	var cfg debugserver.Config
	cfg.ListenAddr = *flagListen

	secret := []byte(*flagSecret)
	if len(secret) == 0 {
		secret = make([]byte, debugserver.MaxSecretSize)
		if _, err := rand.Read(secret); err != nil {
			return cfg, fmt.Errorf("generate token secret: %w", err)
		}
	} else {
		var err error
		secret, err = debugserver.NormalizeSecret(secret)
		if err != nil {
			return cfg, err
		}
	}
	cfg.TokenSecret = secret

	if *flagPassword == "" {
		return cfg, fmt.Errorf("--password (or --config) is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(*flagPassword), bcrypt.DefaultCost)
	if err != nil {
		return cfg, fmt.Errorf("hash password: %w", err)
	}
	cfg.PasswordHash = hash

	return cfg, nil
}
