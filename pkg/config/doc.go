// Package config loads configuration structs from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// the default `.env` file is loaded once per process (a missing file is
// fine), after which any struct annotated with `env` tags can be populated.
//
// # Usage
//
//	type SessionConfig struct {
//	    CookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"jwt"`
//	    CookieTimeout time.Duration `env:"SESSION_COOKIE_TIMEOUT" envDefault:"3s"`
//	}
//
//	var cfg SessionConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
// Sentinel errors comparable with `errors.Is`:
//
//   - ErrParsingConfig – failed to parse env vars into the struct.
//   - ErrNilPointer    – nil pointer passed to Load/MustLoad.
package config
