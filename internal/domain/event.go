package domain

// Event levels.
const (
	EventInfo  = "INFO"
	EventWarn  = "WARN"
	EventDebug = "DEBUG"
)

// Event is a structured log entry produced by the pure analysis core.
// The core holds no logger; callers decide whether and how to emit events.
type Event struct {
	Level     string
	Component string // producing component, e.g. "lifecycle", "pattern"
	Message   string
	Mint      string // optional token context
}
