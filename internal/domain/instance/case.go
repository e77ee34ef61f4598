package instance

import "time"

// Case is a scheduled event (court date, hearing, appointment) owned by an external system.
type Case struct {
	UID       string
	Number    string // Ticket or docket number
	Name      string
	Date      time.Time
	CourtName string
	Address   string
}
