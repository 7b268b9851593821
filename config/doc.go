// Package config provides configuration loading and validation for tinyweb.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (TINYWEB_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with TINYWEB_ prefix:
//   - server.port → TINYWEB_SERVER_PORT
//   - storage.type → TINYWEB_STORAGE_TYPE
//   - log.level → TINYWEB_LOG_LEVEL
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: listener port, poll interval and the engine limits
//     (read_timeout, file_chunk_size, max_request_line, max_body_size)
//   - Storage: backend type (filesystem/sqlite/postgres), path, DSN, table and capacity
//   - Dev: port and CORS settings of the desktop mirror server
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Ports must be 1-65535
//   - Storage type must be filesystem, sqlite, or postgres; SQL backends need a DSN
//   - Log level must be debug, info, warn, or error
package config
