package app

import (
	"database/sql"
	"strings"
	"testing"

	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/domain/plan"
)

func TestRenderer_StudentMessages(t *testing.T) {
	r := testRenderer(t)

	approved, err := r.Approved("alice")
	if err != nil {
		t.Fatalf("Approved: %v", err)
	}
	if approved.To != "alice@vt.edu" || approved.Subject != "Plan of Study Approved" || approved.Kind != notification.KindApproved {
		t.Errorf("unexpected approved message: %+v", approved)
	}
	if !strings.Contains(approved.Text, "https://saacs.example.edu") || !strings.Contains(approved.HTML, `href="https://saacs.example.edu"`) {
		t.Errorf("expected site link in both bodies")
	}

	rejected, err := r.Rejected("bob")
	if err != nil {
		t.Fatalf("Rejected: %v", err)
	}
	if rejected.To != "bob@vt.edu" || rejected.Subject != "Plan of Study Rejected" {
		t.Errorf("unexpected rejected message: %+v", rejected)
	}
	if !strings.Contains(rejected.Text, "has been rejected") {
		t.Errorf("unexpected rejected body:\n%s", rejected.Text)
	}
}

func TestRenderer_PendingReviewDigest(t *testing.T) {
	r := testRenderer(t)
	plans := []*plan.Plan{
		{POSID: 10, PID: "stu1", POSType: "PhD", CommitteeChair: chair("abc123"), CurrentStatus: plan.StatusPendingFaculty},
		{POSID: 9, PID: "<script>", POSType: "MS", CommitteeChair: sql.NullString{}, CurrentStatus: plan.StatusPendingFaculty},
	}

	msg, err := r.PendingReview("abc@cs.vt.edu", plan.StatusPendingFaculty, plans)
	if err != nil {
		t.Fatalf("PendingReview: %v", err)
	}
	if msg.To != "abc@cs.vt.edu" || msg.Subject != "Plan(s) of Study Awaiting Your Review" {
		t.Errorf("unexpected digest envelope: %+v", msg)
	}
	for _, want := range []string{"Pending Faculty", "<strong>2</strong>", ">10<", ">abc123<", ">PhD<"} {
		if !strings.Contains(msg.HTML, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
	if strings.Contains(msg.HTML, "<script>") || !strings.Contains(msg.HTML, "&lt;script&gt;") {
		t.Errorf("expected student PID to be escaped in HTML")
	}
	if !strings.Contains(msg.Text, "stu1") {
		t.Errorf("expected text body to list plans:\n%s", msg.Text)
	}
}

func TestRenderer_Address(t *testing.T) {
	r, err := NewRenderer("https://x", "example.edu", "from@example.edu")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if got := r.Address("pid1"); got != "pid1@example.edu" {
		t.Errorf("expected pid1@example.edu, got %s", got)
	}
}
