package config

const (
	defaultPlexURL            = "http://localhost:32400"
	defaultLibrary            = "Movies"
	defaultPlexTimeoutSeconds = 30
	defaultStateDir           = "~/.local/state/plexdate"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultConfigPath         = "~/.config/plexdate/config.toml"
	projectConfigName         = "plexdate.toml"
)

// Default returns a Config populated with repository defaults. The Plex URL
// is left empty so normalize can apply the PLEX_URL fallback before the
// built-in default.
func Default() Config {
	return Config{
		Plex: Plex{
			Library:        defaultLibrary,
			TimeoutSeconds: defaultPlexTimeoutSeconds,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
