package models

// DepartureRoute is a named, colored service variant of a route (e.g. an
// express pattern). It shares the parent route's stop sequence and carries
// its own optional-stop subset and timetable.
type DepartureRoute struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RouteID   uint   `gorm:"column:route_id;index;not null" json:"route_id"`
	Signature string `gorm:"not null" json:"signature"`
	Color     string `gorm:"size:7" json:"color"`

	AdditionalStops []AdditionalStop `gorm:"foreignKey:DepartureRouteID" json:"additionalStops,omitempty"`
	Timetable       []Timetable      `gorm:"foreignKey:DepartureRouteID" json:"timetable,omitempty"`
}

func (DepartureRoute) TableName() string { return "departure_route" }
