package cooldown

// ErrOnCooldown message formats
const (
	ErrFmtCooldownWithMinutes = "%s ready in %dm %ds"
	ErrFmtCooldownSecondsOnly = "%s ready in %ds"
)

// Countdown rendering
const (
	SecondsPerMinute = 60
	// LabelFormat renders a countdown as m:ss
	LabelFormat = "%d:%02d"
)
