package sheet

import (
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
)

// missingField is how an absent or null identifier component stringifies.
const missingField = "None"

// Identifier derives the stable per-row key: manufacturer and model joined
// with an underscore. No trimming or case folding, so name variants produce
// distinct identifiers.
func Identifier(rec model.Record, manufacturerField, modelField string) string {
	return identifierPart(rec, manufacturerField) + "_" + identifierPart(rec, modelField)
}

func identifierPart(rec model.Record, field string) string {
	v, ok := rec.Get(field)
	if !ok || v == "" {
		return missingField
	}
	return v
}
