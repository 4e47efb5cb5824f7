package main

// Exit codes used by every command.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, invalid paths)
	ExitDataError   = 3 // Data error (fetch failed with no usable fallback, empty scene)
)
