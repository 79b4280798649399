package runner

import "time"

// Runner execution constants
const (
	// DefaultRunTimeout is applied to a test command when none is configured
	DefaultRunTimeout = 60 * time.Second

	// DefaultWaitDelay bounds how long a killed command may keep its output pipes open
	DefaultWaitDelay = 2 * time.Second

	// Roles of the two runners, used for log file names and log context
	RoleReference = "reference"
	RolePorted    = "ported"
)
