package models

// Role constants for User
const (
	RoleAdmin    = "Admin"
	RoleTeamLead = "TeamLead"
	RoleEmployee = "Employee"
)

// Roles lists every valid role value.
var Roles = []string{RoleAdmin, RoleTeamLead, RoleEmployee}

// ValidRole reports whether role is one of the known role values.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Status constants for Sheet
const (
	SheetStatusOpen   = "OPEN"
	SheetStatusClosed = "CLOSED"
)

// Expense reason constants. The Arabic strings are the wire and storage
// values; the identifiers classify them for code.
const (
	ReasonProjects       = "مصاريف المشاريع"
	ReasonAdministration = "مصاريف الإدارة وأقسامها"
	ReasonBranches       = "مصاريف الفروع"
	ReasonLogistics      = "مصاريف الخدمات اللوجستية"
	ReasonMovement       = "مصاريف حركة الشركة"
	ReasonServices       = "مصاريف الخدمات"
	ReasonWarehouses     = "مصاريف المستودعات"
	ReasonMisc           = "مصاريف متنوعة"
	ReasonCommunication  = "مصاريف قسم الاتصال"
	ReasonFood           = "مصاريف مأكل ومشرب"
	ReasonAccommodation  = "مصاريف السكن"
	ReasonTechnical      = "مصاريف فنية"
	ReasonOther          = "آخر"
)

// Reasons is the closed set of expense categories, in display order.
var Reasons = []string{
	ReasonProjects,
	ReasonAdministration,
	ReasonBranches,
	ReasonLogistics,
	ReasonMovement,
	ReasonServices,
	ReasonWarehouses,
	ReasonMisc,
	ReasonCommunication,
	ReasonFood,
	ReasonAccommodation,
	ReasonTechnical,
	ReasonOther,
}

// ReasonColors maps each category to its presentation color. Kept next to
// the category set so storage and presentation share one source of truth.
var ReasonColors = map[string]string{
	ReasonProjects:       "blue",
	ReasonAdministration: "purple",
	ReasonBranches:       "teal",
	ReasonLogistics:      "orange",
	ReasonMovement:       "indigo",
	ReasonServices:       "cyan",
	ReasonWarehouses:     "amber",
	ReasonMisc:           "slate",
	ReasonCommunication:  "fuchsia",
	ReasonFood:           "rose",
	ReasonAccommodation:  "sky",
	ReasonTechnical:      "lime",
	ReasonOther:          "zinc",
}

// ValidReason reports whether reason is one of the known categories.
func ValidReason(reason string) bool {
	for _, r := range Reasons {
		if r == reason {
			return true
		}
	}
	return false
}
