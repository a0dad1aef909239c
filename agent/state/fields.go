package state

import "strings"

// Field is the closed set of conversation-state fields a tool handler may
// write. Caller-supplied names go through Canonical before dispatch so that
// the model can use loose spellings without widening the set.
type Field int

const (
	FieldUnknown Field = iota
	FieldDrinkType
	FieldSize
	FieldMilk
	FieldExtras
	FieldName
	FieldMood
	FieldEnergy
	FieldStressFactors
	FieldObjectives
	FieldSummary
)

var fieldNames = map[Field]string{
	FieldDrinkType:     "drinkType",
	FieldSize:          "size",
	FieldMilk:          "milk",
	FieldExtras:        "extras",
	FieldName:          "name",
	FieldMood:          "mood",
	FieldEnergy:        "energy",
	FieldStressFactors: "stressFactors",
	FieldObjectives:    "objectives",
	FieldSummary:       "summary",
}

func (f Field) String() string {
	if s, ok := fieldNames[f]; ok {
		return s
	}
	return "unknown"
}

// IsList reports whether writes to the field append instead of overwrite.
func (f Field) IsList() bool {
	switch f {
	case FieldExtras, FieldStressFactors, FieldObjectives:
		return true
	default:
		return false
	}
}

var fieldSynonyms = map[string]Field{
	"drinktype":     FieldDrinkType,
	"drink_type":    FieldDrinkType,
	"drink":         FieldDrinkType,
	"size":          FieldSize,
	"milk":          FieldMilk,
	"extras":        FieldExtras,
	"extra":         FieldExtras,
	"name":          FieldName,
	"customer_name": FieldName,
	"mood":          FieldMood,
	"energy":        FieldEnergy,
	"stressfactors": FieldStressFactors,
	"stress_factor": FieldStressFactors,
	"stress":        FieldStressFactors,
	"objectives":    FieldObjectives,
	"objective":     FieldObjectives,
	"summary":       FieldSummary,
}

// Canonical resolves a caller-supplied field name. Unknown names return
// FieldUnknown rather than an error; the caller decides how to speak about it.
func Canonical(name string) Field {
	f, ok := fieldSynonyms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FieldUnknown
	}
	return f
}

var negationTokens = map[string]struct{}{
	"none":    {},
	"no":      {},
	"nothing": {},
}

// IsNegation reports whether a value declines a list-typed field
// ("any extras?" "no"). Appending it would pollute the list.
func IsNegation(value string) bool {
	_, ok := negationTokens[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
