package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestTargetingRuleMatches(t *testing.T) {
	tests := []struct {
		name    string
		rule    TargetingRule
		profile Profile
		want    bool
	}{
		{
			name:    "empty rule matches empty profile",
			rule:    TargetingRule{},
			profile: Profile{},
			want:    true,
		},
		{
			name:    "empty rule matches full profile",
			rule:    TargetingRule{},
			profile: Profile{Age: intPtr(30), Department: "Cortes", Occupation: "Teacher"},
			want:    true,
		},
		{
			name:    "age within bounds",
			rule:    TargetingRule{AgeMin: intPtr(18), AgeMax: intPtr(40)},
			profile: Profile{Age: intPtr(30)},
			want:    true,
		},
		{
			name:    "age below minimum",
			rule:    TargetingRule{AgeMin: intPtr(18)},
			profile: Profile{Age: intPtr(16)},
			want:    false,
		},
		{
			name:    "age above maximum",
			rule:    TargetingRule{AgeMax: intPtr(40)},
			profile: Profile{Age: intPtr(41)},
			want:    false,
		},
		{
			name:    "age bounds are inclusive",
			rule:    TargetingRule{AgeMin: intPtr(18), AgeMax: intPtr(40)},
			profile: Profile{Age: intPtr(40)},
			want:    true,
		},
		{
			name:    "absent profile age is never excluded",
			rule:    TargetingRule{AgeMin: intPtr(18), AgeMax: intPtr(40)},
			profile: Profile{},
			want:    true,
		},
		{
			name:    "department in allowed set",
			rule:    TargetingRule{Departments: []string{"Cortes", "Atlantida"}},
			profile: Profile{Department: "Atlantida"},
			want:    true,
		},
		{
			name:    "department outside allowed set",
			rule:    TargetingRule{Departments: []string{"Cortes"}},
			profile: Profile{Department: "Atlantida"},
			want:    false,
		},
		{
			name:    "absent profile department passes restricted rule",
			rule:    TargetingRule{Departments: []string{"Cortes"}},
			profile: Profile{},
			want:    true,
		},
		{
			name:    "occupation outside allowed set",
			rule:    TargetingRule{Occupations: []string{"Nurse"}},
			profile: Profile{Occupation: "Teacher"},
			want:    false,
		},
		{
			name:    "all clauses must pass",
			rule:    TargetingRule{AgeMin: intPtr(18), Departments: []string{"Cortes"}, Occupations: []string{"Teacher"}},
			profile: Profile{Age: intPtr(30), Department: "Cortes", Occupation: "Nurse"},
			want:    false,
		},
		{
			name:    "full rule full match",
			rule:    TargetingRule{AgeMin: intPtr(18), AgeMax: intPtr(65), Departments: []string{"Cortes"}, Occupations: []string{"Teacher"}},
			profile: Profile{Age: intPtr(30), Department: "Cortes", Occupation: "Teacher"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(tt.profile))
		})
	}
}

func TestBracketFor(t *testing.T) {
	assert.Equal(t, BracketUpTo25, BracketFor(20))
	assert.Equal(t, BracketUpTo25, BracketFor(25))
	assert.Equal(t, Bracket26to35, BracketFor(26))
	assert.Equal(t, Bracket26to35, BracketFor(35))
	assert.Equal(t, Bracket36to50, BracketFor(36))
	assert.Equal(t, Bracket36to50, BracketFor(50))
	assert.Equal(t, Bracket51Plus, BracketFor(51))
	assert.Equal(t, Bracket51Plus, BracketFor(90))
}
