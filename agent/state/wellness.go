package state

// Checkin is the conversation state for one wellness check-in. Same ownership
// rules as Order: one conversation, one instance.
type Checkin struct {
	Mood          string   `json:"mood"`
	Energy        string   `json:"energy"`
	StressFactors []string `json:"stressFactors"`
	Objectives    []string `json:"objectives"`
	Summary       string   `json:"summary"`
}

func NewCheckin() *Checkin {
	return &Checkin{StressFactors: []string{}, Objectives: []string{}}
}

// Update applies a canonicalized field write, mirroring Order.Update for the
// check-in's own field subset.
func (c *Checkin) Update(field, value string) UpdateOutcome {
	f := Canonical(field)
	switch f {
	case FieldMood:
		c.Mood = value
	case FieldEnergy:
		c.Energy = value
	case FieldSummary:
		c.Summary = value
	case FieldStressFactors:
		if !IsNegation(value) {
			c.StressFactors = append(c.StressFactors, value)
		}
	case FieldObjectives:
		if !IsNegation(value) {
			c.Objectives = append(c.Objectives, value)
		}
	default:
		return UpdateOutcome{Field: FieldUnknown, Unknown: true, Missing: c.MissingFields()}
	}
	return UpdateOutcome{Field: f, Missing: c.MissingFields()}
}

func (c *Checkin) MissingFields() []string {
	var missing []string
	if c.Mood == "" {
		missing = append(missing, "mood")
	}
	if len(c.Objectives) == 0 {
		missing = append(missing, "at least one objective")
	}
	return missing
}

// IsSaveable requires a recorded mood and at least one objective. Energy,
// stress factors, and the summary are optional.
func (c *Checkin) IsSaveable() bool {
	return len(c.MissingFields()) == 0
}

func (c *Checkin) Reset() {
	*c = Checkin{StressFactors: []string{}, Objectives: []string{}}
}

func (c *Checkin) Snapshot() Checkin {
	cp := *c
	cp.StressFactors = append([]string{}, c.StressFactors...)
	cp.Objectives = append([]string{}, c.Objectives...)
	return cp
}
