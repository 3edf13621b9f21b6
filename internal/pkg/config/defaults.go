package config

// Default values for configuration.
const (
	// Chat defaults
	DefaultTitle = "Group Chat"

	// Export defaults
	DefaultOutputDir    = "."
	DefaultBaseName     = "chat"
	DefaultFormat       = "html"
	DefaultPNGScale     = 2
	DefaultPNGWidth     = 375
	DefaultConsoleWidth = 80

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// SupportedFormats перечисляет форматы экспорта.
var SupportedFormats = []string{"html", "console", "xlsx", "png", "pdf"}
