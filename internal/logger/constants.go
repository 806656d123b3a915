package logger

// Log Level String Values
const (
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
)

// Log Format String Values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Service Configuration Values
const (
	DefaultServiceName = "item-vault"
	DefaultVersion     = "dev"
	EnvironmentDev     = "dev"
)

// Log Attribute Keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)

// Log file rotation
const (
	MaxLogFiles        = 10
	LogFileSuffix      = ".log"
	LogFileNamePattern = "session_%s.log"
	LogFileTimeLayout  = "2006-01-02_15-04-05"
	LogDirPermissions  = 0755
	LogFilePermissions = 0644
)
