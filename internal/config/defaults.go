package config

// Storage backend identifiers.
const (
	StorageBackendFS  = "fs"
	StorageBackendGCS = "gcs"
)

const (
	defaultStagingDir          = "~/.local/share/glossa/staging"
	defaultLogDir              = "~/.local/share/glossa/logs"
	defaultStorageRootDir      = "~/.local/share/glossa/recordings"
	defaultAPIBind             = "127.0.0.1:7603"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultTargetSampleRate    = 16000
	defaultTopDB               = 40.0
	defaultMinSegmentSeconds   = 0.3
	defaultNoiseWindowSeconds  = 0.5
	defaultTargetPeak          = 0.95
	defaultDecodeTimeout       = 300
	defaultStorageTimeout      = 60
	defaultURLExpirySeconds    = 3600
	defaultNotifyTimeout       = 10
	defaultNotifyDedupSeconds  = 600
	defaultGCSRecordingsPrefix = "recordings"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Processing: Processing{
			TargetSampleRate:   defaultTargetSampleRate,
			TopDB:              defaultTopDB,
			MinSegmentSeconds:  defaultMinSegmentSeconds,
			NoiseWindowSeconds: defaultNoiseWindowSeconds,
			TargetPeak:         defaultTargetPeak,
			DecodeTimeout:      defaultDecodeTimeout,
		},
		Storage: Storage{
			Backend:          StorageBackendFS,
			RootDir:          defaultStorageRootDir,
			GCSPrefix:        defaultGCSRecordingsPrefix,
			URLExpirySeconds: defaultURLExpirySeconds,
			RequestTimeout:   defaultStorageTimeout,
		},
		Notifications: Notifications{
			RequestTimeout:     defaultNotifyTimeout,
			Ingest:             true,
			Errors:             true,
			DedupWindowSeconds: defaultNotifyDedupSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
