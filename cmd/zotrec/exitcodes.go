package main

// Exit codes
const (
	ExitSuccess        = 0 // Success
	ExitError          = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError    = 2 // Configuration error (bad flag values, missing Zotero database)
	ExitDataError      = 3 // Data error (corrupt or locked cache, unreadable Zotero database)
	ExitNoResolved     = 4 // No title resolved to a Semantic Scholar paper
	ExitRecommendError = 5 // Recommendation request failed
)
