// Package config provides configuration management for the CRM sync service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags.
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Database: link, reference cache and entity store connection
//   - Storage: S3/MinIO credentials and the report bucket
//   - Log: Logging level and format
//   - Remote: remote CRM client driver
//   - Sync: integration name, enabled objects, time zones, batch size, window
//
// The per-kind field mapping lives in a separate YAML file loaded by LoadMapping.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Integration)
package config
