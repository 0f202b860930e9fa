package faculty

import "testing"

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		rule  Rule
		perm  int
		match bool
	}{
		{GradAdvisors, 2, true},
		{GradAdvisors, 3, false},
		{GradAdvisors, 8, false},
		{Coordinators, 7, false},
		{Coordinators, 8, true},
		{Coordinators, 10, true},
	}
	for _, tt := range tests {
		if got := tt.rule.Matches(tt.perm); got != tt.match {
			t.Errorf("%s matches %d = %v, expected %v", tt.rule, tt.perm, got, tt.match)
		}
	}
}

func TestRuleString(t *testing.T) {
	if GradAdvisors.String() != "= 2" || Coordinators.String() != ">= 8" {
		t.Errorf("unexpected rule strings %q %q", GradAdvisors, Coordinators)
	}
}
