package config

const (
	defaultBaseURL             = "https://oldinsurancemaps.net"
	defaultTimeoutSeconds      = 30
	defaultPollIntervalSeconds = 4
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultStubBind            = "127.0.0.1:8480"
	defaultStubDatabasePath    = "~/.local/share/ohmg/stub.db"
	defaultStubDataDir         = "~/.local/share/ohmg"
	defaultStubLoadDelayMS     = 250
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Workflow: Workflow{
			PollIntervalSeconds: defaultPollIntervalSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Stub: Stub{
			Bind:         defaultStubBind,
			DatabasePath: defaultStubDatabasePath,
			DataDir:      defaultStubDataDir,
			LoadDelayMS:  defaultStubLoadDelayMS,
		},
	}
}
