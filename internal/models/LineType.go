package models

// LineType is a category of transit line ("bus", "tram", ...) with the
// display color used for its lines. A line type still referenced by any
// line cannot be deleted.
type LineType struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	NameSingular string `gorm:"column:name_singular;not null" json:"name_singular"`
	NamePlural   string `gorm:"column:name_plural;not null" json:"name_plural"`
	Color        string `gorm:"size:7;not null" json:"color"` // "#RRGGBB"
}

func (LineType) TableName() string { return "line_type" }
