// internal/domain/plan/status.go
package plan

import "fmt"

// Status is the workflow position of a Plan of Study.
// Values match the POS_Status lookup table.
type Status int

const (
	StatusSaved                      Status = 1
	StatusPendingGraduateCoordinator Status = 2
	StatusPendingFaculty             Status = 3
	StatusAwaitingKey                Status = 4
	StatusPendingGraduateSchool      Status = 5
	StatusApproved                   Status = 6
	StatusRejected                   Status = 99
)

var statusNames = map[Status]string{
	StatusSaved:                      "Saved",
	StatusPendingGraduateCoordinator: "Pending Graduate Coordinator",
	StatusPendingFaculty:             "Pending Faculty",
	StatusAwaitingKey:                "Awaiting Key",
	StatusPendingGraduateSchool:      "Pending Graduate School",
	StatusApproved:                   "Approved",
	StatusRejected:                   "Rejected",
}

// DecidedStatuses are the terminal states students are told about.
var DecidedStatuses = []Status{StatusApproved, StatusRejected}

// PendingStatuses are the states waiting on a reviewer.
var PendingStatuses = []Status{
	StatusPendingGraduateCoordinator,
	StatusPendingFaculty,
	StatusAwaitingKey,
	StatusPendingGraduateSchool,
}

// Name returns the display name used in emails and logs.
func (s Status) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status %d", int(s))
}

func (s Status) String() string {
	return s.Name()
}
