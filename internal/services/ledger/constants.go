package ledger

import "time"

// Default configuration values
const (
	DefaultProcessingTimeout = 30 * time.Second
)
