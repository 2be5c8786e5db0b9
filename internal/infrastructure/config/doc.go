// Package config handles loading and validating gridstore configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (GRIDSTORE_*)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (MQTT password, InfluxDB token, JWT secret) should be
//     set via environment variables
//   - The JWT secret is only required when security.auth_enabled is set
//
// Usage:
//
//	cfg, err := config.Load("configs/gridstore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Name)
package config
