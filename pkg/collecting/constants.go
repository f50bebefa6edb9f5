package collecting

import "time"

const (
	// DefaultCPUSampleInterval is the window system CPU is averaged over.
	DefaultCPUSampleInterval = 500 * time.Millisecond

	// DefaultIdleProcessName is the pseudo-process Windows reports for idle
	// time. It is excluded from rankings alongside pid 0.
	DefaultIdleProcessName = "System Idle Process"

	idlePID int32 = 0
)
