package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Check passed
	SymbolFail     = "✗" // Check failed
	SymbolWarning  = "!" // Check passed with warnings
	SymbolPending  = "○" // Not evaluated
	SymbolComplete = "●" // Resolved / running
)
