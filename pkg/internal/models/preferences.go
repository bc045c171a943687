package models

import (
	"time"

	"gorm.io/datatypes"
)

// Preference is a portal preference scoped to one user and one portlet instance.
// Portal preferences are multi-valued, most readers only look at the first one.
type Preference struct {
	ID        uint                        `json:"id" gorm:"primaryKey"`
	Owner     string                      `json:"owner" gorm:"uniqueIndex:idx_preference_scope"`
	Instance  string                      `json:"instance" gorm:"uniqueIndex:idx_preference_scope"`
	Name      string                      `json:"name" gorm:"uniqueIndex:idx_preference_scope"`
	Values    datatypes.JSONSlice[string] `json:"values" gorm:"column:value_list"`
	UpdatedAt time.Time                   `json:"updated_at"`
}
