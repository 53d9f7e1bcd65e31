package reconcile

import (
	"github.com/nominadocs/payslip-server/internal/model"
	"github.com/nominadocs/payslip-server/internal/roster"
)

// Reasons attached to preview rows. These strings travel to report
// consumers unchanged.
const (
	ReasonInvalidCedula   = "invalid cedula"
	ReasonAbsentInactive  = "does not exist and arrives inactive"
	ReasonAlreadyInactive = "already inactive"
)

// Classify decides the action for one roster row given the stored employee
// (nil when the directory has no record for the cedula). Both the analyzer
// and the committer go through this single decision table, which is what
// keeps a preview equal to the commit that follows it.
func Classify(row model.RosterRow, prev *model.Employee) (model.Action, string) {
	if !roster.ValidCedula(row.Cedula) {
		return model.ActionInvalid, ReasonInvalidCedula
	}

	activity := roster.ParseActivity(row.IsActive)

	if prev == nil {
		if activity == model.ActivityInactive {
			// Creating a record only to mark it inactive is pointless.
			return model.ActionNone, ReasonAbsentInactive
		}
		return model.ActionInsert, ""
	}

	if activity == model.ActivityInactive {
		if prev.IsActive {
			return model.ActionDeactivate, ""
		}
		return model.ActionNone, ReasonAlreadyInactive
	}

	if needsUpdate(row, prev, activity) {
		return model.ActionUpdate, ""
	}
	return model.ActionNone, ""
}

// needsUpdate reports whether any present field differs from the stored
// value, or an explicit "active" must reactivate the employee. Blank
// incoming fields never count as changes.
func needsUpdate(row model.RosterRow, prev *model.Employee, activity model.Activity) bool {
	if fieldChanged(row.FirstName, prev.FirstName) ||
		fieldChanged(row.LastName, prev.LastName) ||
		fieldChanged(row.Email, prev.Email) {
		return true
	}
	return activity == model.ActivityActive && !prev.IsActive
}

func fieldChanged(incoming string, stored *string) bool {
	if incoming == "" {
		return false
	}
	return stored == nil || *stored != incoming
}

// Analyze classifies every roster row against the index, in input order,
// and returns the preview report. It has no side effects: the index is
// read-only and no store is touched.
func Analyze(rows []model.RosterRow, idx Index) model.ImportReport {
	report := model.ImportReport{
		Total:   len(rows),
		Invalid: []model.InvalidRow{},
		Preview: make([]model.PreviewRow, 0, len(rows)),
	}

	for i, row := range rows {
		action, why := Classify(row, idx.Lookup(row.Cedula))
		report.Count(model.PreviewRow{
			Row:    i + 1,
			Cedula: row.Cedula,
			Action: action,
			Why:    why,
		})
	}

	return report
}
