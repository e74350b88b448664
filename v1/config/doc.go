/*
Package config loads the service configuration with viper.

Values come from, in increasing precedence: built-in defaults, an optional
YAML file and environment variables. Nested keys map to upper-case
environment names with dots replaced by underscores, so qdrant.endpoint is
read from QDRANT_ENDPOINT. A few well-known names are bound explicitly:

	OPENAI_API_KEY   embedding, vibe and query parsing
	APP_ENV          app.env (development, staging, production)
	CDN_URL          app.cdn_url

Usage:

	cfg, err := config.Load("config.yaml")
	if err != nil {
		return err
	}
	app := fx.New(cfg.Options(), logger.FXModule, qdrant.FXModule)
*/
package config
