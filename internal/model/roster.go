package model

// RosterRow is one row of an uploaded roster file. Blank optional fields
// mean "leave unchanged"; the format has no way to express "set to blank".
type RosterRow struct {
	Cedula    string
	FirstName string
	LastName  string
	Email     string
	IsActive  string // raw cell value, parsed with roster.ParseActivity
}

// Activity is the tri-state activation intent carried by a roster row.
type Activity string

const (
	// ActivityActive is an explicit "active" marker.
	ActivityActive Activity = "active"
	// ActivityInactive is an explicit "inactive" marker.
	ActivityInactive Activity = "inactive"
	// ActivityUnknown means the row carries no explicit activation intent.
	ActivityUnknown Activity = "unknown"
)
