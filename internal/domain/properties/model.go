package properties

import (
	"time"

	"gorm.io/datatypes"
)

// Property is a building the user tracks on the dashboard.
type Property struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	UserID            string `gorm:"type:varchar(36);not null;index" json:"-"`
	Name              string `gorm:"not null" json:"name"`
	Zipcode           string `gorm:"type:varchar(7)" json:"zipcode"`
	Address           string `json:"address"`
	Structure         string `gorm:"type:varchar(20)" json:"structure"`
	BuiltYear         int    `json:"built_year"`
	Price             int64  `gorm:"not null;default:0" json:"price"`
	BuildingCost      int64  `gorm:"not null;default:0" json:"building_cost"`
	AnnualRent        int64  `gorm:"not null;default:0" json:"annual_rent"`
	OperatingExpenses int64  `gorm:"not null;default:0" json:"operating_expenses"`
	Memo              string `gorm:"type:text" json:"memo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Simulation is one saved calculator run: the submitted input and the
// result computed server-side, both kept verbatim as JSON.
type Simulation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     string         `gorm:"type:varchar(36);not null;index" json:"-"`
	PropertyID *uint          `gorm:"index" json:"property_id,omitempty"`
	Property   *Property      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Kind       string         `gorm:"type:varchar(32);not null" json:"kind"`
	Title      string         `json:"title"`
	Input      datatypes.JSON `json:"input"`
	Result     datatypes.JSON `json:"result"`

	CreatedAt time.Time `json:"created_at"`
}
