package models

import (
	"time"

	"gorm.io/datatypes"
)

// Region holds geographic hierarchy and poverty statistics used to relate
// resources and users to the areas they live in. Regions nest through
// ParentID (country > state > county > city ...).
type Region struct {
	BaseModel
	Name     string     `json:"name" gorm:"type:varchar(100);not null"`
	Type     RegionType `json:"type" gorm:"type:varchar(16);not null"`
	Code     string     `json:"code" gorm:"type:varchar(50)"`
	ParentID string     `json:"parent_id,omitempty" gorm:"type:varchar(26)"`

	// Geographic data
	State          string         `json:"state" gorm:"type:varchar(50)"`
	Country        string         `json:"country" gorm:"type:varchar(50)"`
	GeographicData datatypes.JSON `json:"geographic_data"`

	// Statistical data
	Population           int            `json:"population"`
	PovertyRate          float64        `json:"poverty_rate"`
	MedianIncome         float64        `json:"median_income"`
	UnemploymentRate     float64        `json:"unemployment_rate"`
	DemographicData      datatypes.JSON `json:"demographic_data"`
	PovertyData          datatypes.JSON `json:"poverty_data"`
	ResourceAvailability datatypes.JSON `json:"resource_availability"`
	IsActive             bool           `json:"is_active" gorm:"not null;default:true"`

	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Parent *Region `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

// Hierarchy walks parent links from this region to the top level and returns
// the chain ordered top-down. The regions slice must contain every region the
// chain can reach (callers load the table once and index it).
func (r *Region) Hierarchy(byID map[string]*Region) []*Region {
	chain := []*Region{r}
	current := r
	for current.ParentID != "" {
		parent, ok := byID[current.ParentID]
		if !ok {
			break
		}
		chain = append([]*Region{parent}, chain...)
		current = parent
	}
	return chain
}
