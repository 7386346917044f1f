package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "jetdeps"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "JETDEPS"

	logFileFlagName = "log-file"
	verboseFlagName = "verbose"

	localityFlagName     = "locality"
	markerFlagName       = "marker"
	vendorMarkerFlagName = "vendor-marker"
	preloadFlagName      = "preload"

	formatFlagName   = "format"
	outputFlagName   = "output"
	checkFlagName    = "check"
	rootFlagName     = "root"
	sourceFlagName   = "source"
	parallelFlagName = "parallel"

	jetMarkerKey       = "jet.marker"
	jetVendorMarkerKey = "jet.vendor_marker"
	jetInfoPrefixKey   = "jet.info_prefix"
	jetNoiseKey        = "jet.noise"
	jetPreloadKey      = "jet.preload"
	jetLocalityKey     = "jet.locality"

	depsSourcesKey   = "deps.sources"
	depsRootKey      = "deps.root"
	depsURLPrefixKey = "deps.url_prefix"
	depsURLSuffixKey = "deps.url_suffix"
	depsParallelKey  = "deps.parallel"
	depsFormatKey    = "deps.format"

	defaultMarker       = "NOJET"
	defaultVendorMarker = ".jl/"
	defaultInfoPrefix   = "[toplevel-info]"
	defaultLocality     = false

	defaultRootModule = "DataAxesFormats"
	defaultURLPrefix  = "../"
	defaultURLSuffix  = ".html"
	defaultParallel   = 4
	defaultFormat     = "dot"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".jetdeps.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	defaultNoise   = []string{"possible errors"}
	defaultSources = []string{"src/*.jl", "test/*.jl"}
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)

	viper.SetDefault(jetMarkerKey, defaultMarker)
	viper.SetDefault(jetVendorMarkerKey, defaultVendorMarker)
	viper.SetDefault(jetInfoPrefixKey, defaultInfoPrefix)
	viper.SetDefault(jetNoiseKey, defaultNoise)
	viper.SetDefault(jetPreloadKey, defaultSources)
	viper.SetDefault(jetLocalityKey, defaultLocality)

	viper.SetDefault(depsSourcesKey, defaultSources)
	viper.SetDefault(depsRootKey, defaultRootModule)
	viper.SetDefault(depsURLPrefixKey, defaultURLPrefix)
	viper.SetDefault(depsURLSuffixKey, defaultURLSuffix)
	viper.SetDefault(depsParallelKey, defaultParallel)
	viper.SetDefault(depsFormatKey, defaultFormat)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// Logs go to a rotating file so stdout stays reserved for tool output. By
// default it logs at the configured level; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
