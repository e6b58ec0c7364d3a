package models

// Line is a named transit service (e.g. bus line "96"). It owns one or two
// routes and is always created, replaced and deleted together with them.
type Line struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	LineTypeID uint   `gorm:"column:line_type_id;index;not null" json:"line_type_id"`

	LineType *LineType `gorm:"foreignKey:LineTypeID" json:"line_type,omitempty"`
	Routes   []Route   `gorm:"foreignKey:LineID" json:"routes,omitempty"`
}

func (Line) TableName() string { return "line" }
