package source

// Exports for testing.

var (
	Prefix    = prefix
	SplitVTT  = splitVTT
	SplitNote = splitNotion
)
