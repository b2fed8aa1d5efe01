package sandbox

import "time"

// Config defines sandbox configuration
type Config struct {
	Timeout       time.Duration // Per-script execution timeout
	EnableConsole bool          // Capture console.log/warn/error
	MaxCallStack  int           // Maximum JS call stack depth
}

// DefaultConfig returns the configuration used by headless surfaces.
func DefaultConfig() Config {
	return Config{
		Timeout:       2 * time.Second,
		EnableConsole: true,
		MaxCallStack:  1024,
	}
}

// LogEntry is one console call.
type LogEntry struct {
	Level   string
	Message string
	Time    time.Time
}

// PostedMessage is one window.postMessage call made by a script.
type PostedMessage struct {
	Data         any
	TargetOrigin string
}
