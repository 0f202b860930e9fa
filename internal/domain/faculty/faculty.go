package faculty

import (
	"database/sql"
	"strconv"
)

// Permission levels stored in Faculty.permissions.
const (
	PermissionGradAdvisor = 2
	PermissionCoordinator = 8
)

// Faculty is a reviewer record.
type Faculty struct {
	PID         string         `db:"pid"`
	Email       sql.NullString `db:"email"`
	Permissions int            `db:"permissions"`
}

// Rule selects reviewers by permission level: either exactly Level, or
// Level and above when AtLeast is set.
type Rule struct {
	Level   int
	AtLeast bool
}

var (
	// GradAdvisors are the faculty who review plans in PENDING_FACULTY.
	GradAdvisors = Rule{Level: PermissionGradAdvisor}
	// Coordinators covers graduate coordinators, department heads and admins.
	Coordinators = Rule{Level: PermissionCoordinator, AtLeast: true}
)

// Matches reports whether a permission level satisfies the rule.
func (r Rule) Matches(permissions int) bool {
	if r.AtLeast {
		return permissions >= r.Level
	}
	return permissions == r.Level
}

func (r Rule) String() string {
	if r.AtLeast {
		return ">= " + strconv.Itoa(r.Level)
	}
	return "= " + strconv.Itoa(r.Level)
}
