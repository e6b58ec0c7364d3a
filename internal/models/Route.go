package models

// Route is one directional (or circular) path of a line. A circular line
// has exactly one route, a bidirectional one up to two.
type Route struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	LineID     uint `gorm:"column:line_id;index;not null" json:"line_id"`
	IsCircular bool `gorm:"column:is_circular" json:"is_circular"`
	IsNight    bool `gorm:"column:is_night" json:"is_night"`

	FullRoute       []FullRoute      `gorm:"foreignKey:RouteID" json:"fullRoute,omitempty"`
	DepartureRoutes []DepartureRoute `gorm:"foreignKey:RouteID" json:"departureRoutes,omitempty"`
}

func (Route) TableName() string { return "route" }
