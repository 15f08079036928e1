package config

const (
	defaultConfigPath          = "~/.config/eafcut/config.toml"
	defaultAnnotationExtension = ".eaf"
	defaultPreferredMIMEType   = "audio/x-wav"
	defaultExcludedExtension   = ".avi"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultManifestName        = "manifest.db"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	maxChannels                = 8
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Annotation: Annotation{
			Extension:          defaultAnnotationExtension,
			PreferredMIMETypes: []string{defaultPreferredMIMEType},
		},
		Media: Media{
			ExcludedExtensions: []string{defaultExcludedExtension},
		},
		FFmpeg: FFmpeg{
			Binary:        defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
