package logger

// Component-specific logger functions

// Parser returns a logger for Go source parsing
func Parser() Logger {
	return WithField("component", "parser")
}

// Metadata returns a logger for table extraction
func Metadata() Logger {
	return WithField("component", "metadata")
}

// CLI returns a logger for CLI operations
func CLI() Logger {
	return WithField("component", "cli")
}

// Config returns a logger for configuration loading
func Config() Logger {
	return WithField("component", "config")
}
