package config

const (
	defaultDataDir   = "~/.local/share/shuttle/data"
	defaultAssetsDir = "~/.local/share/shuttle/assets"
	defaultLogDir    = "~/.local/share/shuttle/logs"

	defaultDownloadWorkers        = 3
	defaultDownloadRequestTimeout = 120

	defaultNavRetryAttempts   = 3
	defaultNavTimeout         = 15
	defaultStablePollInterval = 250
	defaultStableReads        = 4
	defaultStableTimeout      = 30
	defaultCreateFormAttempts = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			AssetsDir: defaultAssetsDir,
			LogDir:    defaultLogDir,
		},
		Downloads: Downloads{
			Workers:        defaultDownloadWorkers,
			RequestTimeout: defaultDownloadRequestTimeout,
		},
		Workflow: Workflow{
			NavRetryAttempts:   defaultNavRetryAttempts,
			NavTimeout:         defaultNavTimeout,
			StablePollInterval: defaultStablePollInterval,
			StableReads:        defaultStableReads,
			StableTimeout:      defaultStableTimeout,
			CreateFormAttempts: defaultCreateFormAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
