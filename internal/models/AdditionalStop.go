package models

// AdditionalStop records that a variant serves the optional stop at the given
// full-route stop number. The key is the departure route id, not the route id.
type AdditionalStop struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	DepartureRouteID uint `gorm:"column:departure_route_id;index;not null" json:"departure_route_id"`
	StopNumber       int  `gorm:"column:stop_number;not null" json:"stop_number"`
}

func (AdditionalStop) TableName() string { return "additional_stop" }
