package logging

import (
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// StartupLogger collects server identity, configuration, and feature
// flags, then emits a single structured zerolog event summarising the
// process state at startup. One event instead of a scatter of lines
// makes it easy to see exactly how the server was configured when
// reading a log after the fact.
type StartupLogger struct {
	name         string
	commitHash   string
	buildTime    string
	initDuration time.Duration

	features map[string]bool
	config   map[string]string
}

// NewStartupLogger creates a StartupLogger for the given binary name
// (e.g. "enhance-web").
func NewStartupLogger(name string) *StartupLogger {
	return &StartupLogger{
		name:     name,
		features: make(map[string]bool),
		config:   make(map[string]string),
	}
}

// CommitHash sets the git commit hash baked into the binary at build time.
func (s *StartupLogger) CommitHash(hash string) *StartupLogger {
	s.commitHash = hash
	return s
}

// BuildTime sets the UTC build timestamp baked into the binary at build time.
func (s *StartupLogger) BuildTime(t string) *StartupLogger {
	s.buildTime = t
	return s
}

// Feature registers a boolean feature flag (e.g. "gzip", "cors").
func (s *StartupLogger) Feature(name string, enabled bool) *StartupLogger {
	s.features[name] = enabled
	return s
}

// Config registers a non-sensitive configuration key-value pair.
func (s *StartupLogger) Config(key, value string) *StartupLogger {
	s.config[key] = value
	return s
}

// InitDuration records how long process initialization took.
func (s *StartupLogger) InitDuration(d time.Duration) *StartupLogger {
	s.initDuration = d
	return s
}

// EnvOrDefault returns the value of the named environment variable, or
// defaultVal if the variable is empty or unset.
func EnvOrDefault(envVar, defaultVal string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultVal
}

// Log emits a single structured INFO log event with all collected information.
func (s *StartupLogger) Log() {
	evt := log.Info()

	serverDict := zerolog.Dict().
		Str("name", s.name).
		Str("goVersion", runtime.Version()).
		Str("arch", runtime.GOARCH).
		Str("logLevel", EnvOrDefault("ENHANCE_LOG_LEVEL", "info"))

	if s.commitHash != "" {
		serverDict = serverDict.Str("commitHash", s.commitHash)
	}
	if s.buildTime != "" {
		serverDict = serverDict.Str("buildTime", s.buildTime)
	}

	evt = evt.Dict("server", serverDict)

	if len(s.features) > 0 {
		d := zerolog.Dict()
		for k, v := range s.features {
			d = d.Bool(k, v)
		}
		evt = evt.Dict("features", d)
	}

	if len(s.config) > 0 {
		d := zerolog.Dict()
		for k, v := range s.config {
			d = d.Str(k, v)
		}
		evt = evt.Dict("config", d)
	}

	if s.initDuration > 0 {
		evt = evt.Dur("initDuration", s.initDuration)
	}

	evt.Msg("Startup complete")
}
