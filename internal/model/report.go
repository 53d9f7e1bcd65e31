package model

// Action is the reconciliation outcome for one roster row. The string
// values are part of the wire contract with report consumers.
type Action string

const (
	ActionInsert     Action = "INSERT"
	ActionUpdate     Action = "UPDATE"
	ActionDeactivate Action = "DEACTIVATE"
	ActionNone       Action = "NONE"
	ActionInvalid    Action = "INVALID"
)

// InvalidRow identifies a roster row rejected during validation.
// Row numbers are 1-based and match the uploaded file.
type InvalidRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// PreviewRow is the per-row classification, in input order.
type PreviewRow struct {
	Row    int    `json:"row"`
	Cedula string `json:"cedula"`
	Action Action `json:"action"`
	Why    string `json:"why,omitempty"`
}

// ImportReport summarizes a roster analysis or commit. Field names are the
// wire contract and mirror what consumers already parse.
type ImportReport struct {
	Total          int          `json:"total"`
	WillInsert     int          `json:"willInsert"`
	WillUpdate     int          `json:"willUpdate"`
	WillDeactivate int          `json:"willDeactivate"`
	Invalid        []InvalidRow `json:"invalid"`
	Preview        []PreviewRow `json:"preview"`
}

// Count registers one classified row in the report counters.
func (r *ImportReport) Count(row PreviewRow) {
	r.Preview = append(r.Preview, row)
	switch row.Action {
	case ActionInsert:
		r.WillInsert++
	case ActionUpdate:
		r.WillUpdate++
	case ActionDeactivate:
		r.WillDeactivate++
	case ActionInvalid:
		r.Invalid = append(r.Invalid, InvalidRow{Row: row.Row, Reason: row.Why})
	}
}
