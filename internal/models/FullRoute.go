package models

// FullRoute is one position in a route's ordered stop sequence. StopNumber is
// assigned sequentially at insertion time; the caller never controls it. The
// same stop may appear more than once on a route (circular routes revisiting
// a hub), so there is no uniqueness over (route_id, stop_id).
type FullRoute struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	RouteID     uint `gorm:"column:route_id;index;not null" json:"route_id"`
	StopID      uint `gorm:"column:stop_id;index;not null" json:"stop_id"`
	StopNumber  int  `gorm:"column:stop_number;not null" json:"stop_number"`
	TravelTime  int  `gorm:"column:travel_time" json:"travel_time"`
	IsOnRequest bool `gorm:"column:is_on_request" json:"is_on_request"`
	IsFirst     bool `gorm:"column:is_first" json:"is_first"`
	IsLast      bool `gorm:"column:is_last" json:"is_last"`
	IsOptional  bool `gorm:"column:is_optional" json:"is_optional"`

	Stop *Stop `gorm:"foreignKey:StopID" json:"stop,omitempty"`
}

func (FullRoute) TableName() string { return "full_route" }
