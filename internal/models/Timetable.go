package models

// Timetable is one scheduled departure for a variant, keyed by the departure
// route id. DepartureTime is an "HH:MM" clock value, not a timestamp.
type Timetable struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	DepartureRouteID uint   `gorm:"column:departure_route_id;index;not null" json:"departure_route_id"`
	DepartureTime    string `gorm:"column:departure_time;size:8;not null" json:"departure_time"`
	DayType          string `gorm:"column:day_type;size:16;default:all" json:"day_type"`
}

func (Timetable) TableName() string { return "timetable" }
