package lineplan

import (
	"bytes"
	"strconv"
)

// FlexID is a record id that the wizard may send as a JSON number or as a
// numeric string. Unparseable values decode to zero.
type FlexID uint

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexID(n)
	return nil
}

// CanonicalLine is the shape the assembly engine consumes: a line with one or
// two routes, each carrying its full stop sequence and departure variants.
type CanonicalLine struct {
	Name       string           `json:"name"`
	LineTypeID uint             `json:"lineTypeId"`
	Routes     []CanonicalRoute `json:"routes"`
}

type CanonicalRoute struct {
	IsCircular bool              `json:"isCircular"`
	IsNight    bool              `json:"isNight"`
	FullRoutes []FullRouteConfig `json:"fullRoutes"`
}

type FullRouteConfig struct {
	FullRoute       []RouteStop `json:"fullRoute"`
	DepartureRoutes []Variant   `json:"departureRoutes"`
}

type RouteStop struct {
	StopID      uint `json:"stopId"`
	TravelTime  int  `json:"travelTime"`
	IsOnRequest bool `json:"isOnRequest"`
	StopNumber  int  `json:"stopNumber"`
	IsFirst     bool `json:"isFirst"`
	IsLast      bool `json:"isLast"`
	IsOptional  bool `json:"isOptional"`
}

type Variant struct {
	Signature       string        `json:"signature"`
	Color           string        `json:"color"`
	AdditionalStops []VariantStop `json:"additionalStops"`
	Departures      []Departure   `json:"departures"`
}

type VariantStop struct {
	StopNumber int  `json:"stopNumber"`
	StopID     uint `json:"stopId"`
}

type Departure struct {
	DepartureTime string `json:"departureTime"`
	DayType       string `json:"dayType"`
}

// LineRequest is the request body accepted by the line endpoints. It carries
// both shapes the wizard can produce: the canonical Routes array, or the flat
// per-direction fields a partially assembled wizard state submits. Normalize
// resolves it to a CanonicalLine before any store work happens.
type LineRequest struct {
	Name       string           `json:"name"`
	LineTypeID FlexID           `json:"lineTypeId"`
	Routes     []CanonicalRoute `json:"routes"`

	// Wizard-shaped fields.
	IsCircular      bool          `json:"isCircular"`
	IsNight         bool          `json:"isNight"`
	RouteType       string        `json:"routeType"`
	Route1Stops     []WizardStop  `json:"route1Stops"`
	Route2Stops     []WizardStop  `json:"route2Stops"`
	AdditionalInfo1 *WizardExtras `json:"additionalInfo1"`
	AdditionalInfo2 *WizardExtras `json:"additionalInfo2"`
	Schedules1      []Schedule    `json:"schedules1"`
	Schedules2      []Schedule    `json:"schedules2"`
	UI              *WizardMeta   `json:"_ui"`
}

// WizardMeta mirrors the _ui bag some wizard steps nest their state under.
type WizardMeta struct {
	RouteType       string        `json:"routeType"`
	AdditionalInfo1 *WizardExtras `json:"additionalInfo1"`
	AdditionalInfo2 *WizardExtras `json:"additionalInfo2"`
	Schedules1      []Schedule    `json:"schedules1"`
	Schedules2      []Schedule    `json:"schedules2"`
}

// WizardStop is a stop row as the stop-picker step emits it. The stop id may
// arrive under any of three keys depending on where the row originated.
type WizardStop struct {
	ID         uint `json:"id"`
	StopID     uint `json:"stopId"`
	StopIDAlt  uint `json:"stop_id"`
	TravelTime int  `json:"travel_time"`
	OnRequest  bool `json:"on_request"`
	StopNumber int  `json:"stop_number"`
	IsFirst    bool `json:"is_first"`
	IsLast     bool `json:"is_last"`
	IsOptional bool `json:"is_optional"`
}

// ResolvedStopID picks the first non-zero id alias.
func (s WizardStop) ResolvedStopID() uint {
	if s.ID != 0 {
		return s.ID
	}
	if s.StopID != 0 {
		return s.StopID
	}
	return s.StopIDAlt
}

// WizardExtras holds the variant definitions for one direction.
type WizardExtras struct {
	Variants []WizardVariant `json:"variants"`
}

type WizardVariant struct {
	Signature       string              `json:"signature"`
	Color           string              `json:"color"`
	AdditionalStops []WizardVariantStop `json:"additionalStops"`
}

type WizardVariantStop struct {
	StopNumber    int  `json:"stop_number"`
	StopNumberAlt int  `json:"stopNumber"`
	ID            uint `json:"id"`
	StopID        uint `json:"stopId"`
}

// Schedule is one day-type timetable sheet from the departures step.
type Schedule struct {
	Type       string              `json:"type"`
	Departures []ScheduleDeparture `json:"departures"`
}

type ScheduleDeparture struct {
	Time         string `json:"time"`
	DayType      string `json:"dayType"`
	VariantIndex int    `json:"variantIndex"`
}
