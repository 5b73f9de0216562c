package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// lenJSONArray returns the element count of a JSONB array column, 0 for
// null/empty or non-array payloads.
func lenJSONArray(raw datatypes.JSON) int {
	if len(raw) == 0 {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}

// MustJSON marshals v into a JSONB column value. Panics only on
// unmarshalable types, which is a programming error.
func MustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
