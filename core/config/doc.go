// Package config provides configuration management for the stock-take service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file, with defaults declared as struct tags on each
// section's Config type.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL/sqlite connection details
//   - Log: Logging level and format
//   - Storage: S3/MinIO credentials for the catalog snapshot archive
//   - Catalog: upstream ERP export API endpoint and credentials
//   - Counting: duplicate-scan policy and variance scope
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
