package models

// StopGroup groups the directional stops of one physical location.
type StopGroup struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	Stops []Stop `gorm:"foreignKey:StopGroupID" json:"stops,omitempty"`
}

func (StopGroup) TableName() string { return "stop_group" }
