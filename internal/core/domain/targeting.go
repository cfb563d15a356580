package domain

// TargetingRule restricts which respondents may see a survey. Every field is
// permissive when absent: a nil age bound, an empty department list or an empty
// occupation list imposes no restriction.
type TargetingRule struct {
	AgeMin      *int     `json:"age_min,omitempty"`
	AgeMax      *int     `json:"age_max,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Occupations []string `json:"occupations,omitempty"`
}

// Profile is the demographic slice of a user that targeting rules evaluate.
// Any field may be absent (nil age, empty string).
type Profile struct {
	Age        *int   `json:"age,omitempty"`
	Department string `json:"department,omitempty"`
	Occupation string `json:"occupation,omitempty"`
}

// Matches reports whether a respondent with the given profile is eligible
// under the rule. Three independent clauses are ANDed; a clause whose rule
// side or profile side is absent passes. The function is total: every
// combination of present and absent fields has a defined outcome.
func (r TargetingRule) Matches(p Profile) bool {
	return r.matchesAge(p.Age) &&
		matchesSet(r.Departments, p.Department) &&
		matchesSet(r.Occupations, p.Occupation)
}

func (r TargetingRule) matchesAge(age *int) bool {
	if age == nil {
		return true
	}
	if r.AgeMin != nil && *age < *r.AgeMin {
		return false
	}
	if r.AgeMax != nil && *age > *r.AgeMax {
		return false
	}
	return true
}

func matchesSet(allowed []string, value string) bool {
	if len(allowed) == 0 || value == "" {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
