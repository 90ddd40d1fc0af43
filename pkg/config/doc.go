// Package config loads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - The default `.env` file in the working directory is read once, if it exists.
//   - Additional `.env` files can be loaded explicitly with LoadEnv.
//   - Any struct annotated with `env` tags is parsed by Load.
//   - Each configuration type is parsed once and served from memory afterwards.
//
// Every package of this module owns its own Config struct, so the binary
// composes them:
//
//	var tenantCfg tenant.Config
//	config.MustLoad(&tenantCfg)
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
// # Error Handling
//
// Sentinel errors can be compared with errors.Is:
//
//   - ErrParsingConfig: the environment could not be parsed into the struct,
//     including missing required variables.
//   - ErrLoadingEnvFile: a file passed to LoadEnv could not be read.
//   - ErrNilPointer: nil pointer passed to Load or MustLoad.
//
// Failed parses are never cached.
//
// # Testing
//
// Reset clears the cache so tests can reload a type after changing the
// environment with t.Setenv.
package config
