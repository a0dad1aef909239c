package state

// Order is the conversation state for one in-progress coffee order. It is
// scoped to a single conversation and mutated only by that conversation's
// tool handlers, so it carries no lock.
type Order struct {
	DrinkType string   `json:"drinkType"`
	Size      string   `json:"size"`
	Milk      string   `json:"milk"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name"`
}

func NewOrder() *Order {
	return &Order{Extras: []string{}}
}

// UpdateOutcome reports what a single field write did and what is still
// required before the state can be persisted.
type UpdateOutcome struct {
	Field   Field
	Unknown bool
	Missing []string
}

func (o UpdateOutcome) Complete() bool {
	return !o.Unknown && len(o.Missing) == 0
}

// Update canonicalizes the field name and applies the value. List fields
// append unless the value is a negation token; scalars overwrite. An unknown
// field name is reported in the outcome, never raised.
func (o *Order) Update(field, value string) UpdateOutcome {
	f := Canonical(field)
	switch f {
	case FieldDrinkType:
		o.DrinkType = value
	case FieldSize:
		o.Size = value
	case FieldMilk:
		o.Milk = value
	case FieldName:
		o.Name = value
	case FieldExtras:
		if !IsNegation(value) {
			o.Extras = append(o.Extras, value)
		}
	default:
		return UpdateOutcome{Field: FieldUnknown, Unknown: true, Missing: o.MissingFields()}
	}
	return UpdateOutcome{Field: f, Missing: o.MissingFields()}
}

// MissingFields lists the required fields not yet filled, in the order the
// barista asks for them.
func (o *Order) MissingFields() []string {
	var missing []string
	if o.DrinkType == "" {
		missing = append(missing, "drink type")
	}
	if o.Size == "" {
		missing = append(missing, "size")
	}
	if o.Milk == "" {
		missing = append(missing, "milk preference")
	}
	if o.Name == "" {
		missing = append(missing, "name for the order")
	}
	return missing
}

// IsComplete is a pure predicate over the current field values. Extras are
// optional.
func (o *Order) IsComplete() bool {
	return len(o.MissingFields()) == 0
}

// Reset clears every field for the next order on the same connection.
// Calling it on an already-empty state is a no-op.
func (o *Order) Reset() {
	*o = Order{Extras: []string{}}
}

// Snapshot returns a copy safe to persist after the live state resets.
func (o *Order) Snapshot() Order {
	cp := *o
	cp.Extras = append([]string{}, o.Extras...)
	return cp
}
