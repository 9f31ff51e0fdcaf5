package holiday

import "time"

// Holiday is a company-defined holiday. A recurrent holiday matches the same
// day and month every year; otherwise only Date matches.
type Holiday struct {
	ID        string
	Name      string
	Date      time.Time
	Recurrent bool
	CreatedAt time.Time
}
