package models

// Stop is one directional platform of a physical stop location. Map holds a
// "lat,lng" coordinate string for the wizard's map preview. A stop referenced
// by any full_route row cannot be deleted.
type Stop struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	StopGroupID uint   `gorm:"column:stop_group_id;index;not null" json:"stop_group_id"`
	Map         string `gorm:"not null" json:"map"`
	Street      string `gorm:"not null" json:"street"`
}

func (Stop) TableName() string { return "stop" }
