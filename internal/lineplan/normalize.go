package lineplan

import (
	"github.com/sirupsen/logrus"
)

// Defaults applied when the wizard omits variant styling.
const (
	DefaultVariantSignature = "Podstawowy"
	DefaultVariantColor     = "#3498db"
	DefaultDayType          = "all"
)

// IsCanonical reports whether the request already carries the canonical
// routes array: a non-empty Routes slice whose first element has stops.
func (r LineRequest) IsCanonical() bool {
	return len(r.Routes) > 0 && len(r.Routes[0].FullRoutes) > 0
}

// Normalize resolves a line request to the canonical shape. Canonical input
// passes through unchanged, so the transform is idempotent. The conversion is
// pure: no store access, no mutation of the request.
func Normalize(r LineRequest) CanonicalLine {
	if r.IsCanonical() {
		return CanonicalLine{
			Name:       r.Name,
			LineTypeID: uint(r.LineTypeID),
			Routes:     r.Routes,
		}
	}

	logrus.WithField("line", r.Name).Debug("converting wizard payload to canonical shape")

	out := CanonicalLine{
		Name:       r.Name,
		LineTypeID: uint(r.LineTypeID),
	}

	circular := r.IsCircular || r.routeTypeIs("circular")

	if len(r.Route1Stops) > 0 {
		out.Routes = append(out.Routes, CanonicalRoute{
			IsCircular: circular,
			IsNight:    r.IsNight,
			FullRoutes: []FullRouteConfig{{
				FullRoute:       convertStops(r.Route1Stops),
				DepartureRoutes: convertVariants(firstExtras(r.AdditionalInfo1, r.UI, 1), firstSchedules(r.Schedules1, r.UI, 1)),
			}},
		})
	}

	if !circular && r.routeTypeIs("bidirectional") && len(r.Route2Stops) > 0 {
		out.Routes = append(out.Routes, CanonicalRoute{
			IsCircular: false,
			IsNight:    r.IsNight,
			FullRoutes: []FullRouteConfig{{
				FullRoute:       convertStops(r.Route2Stops),
				DepartureRoutes: convertVariants(firstExtras(r.AdditionalInfo2, r.UI, 2), firstSchedules(r.Schedules2, r.UI, 2)),
			}},
		})
	}

	return out
}

// routeTypeIs matches the route type against the top-level field or the _ui
// bag; either location counts, they are not a fallback chain.
func (r LineRequest) routeTypeIs(t string) bool {
	if r.RouteType == t {
		return true
	}
	return r.UI != nil && r.UI.RouteType == t
}

func firstExtras(direct *WizardExtras, ui *WizardMeta, direction int) *WizardExtras {
	if direct != nil {
		return direct
	}
	if ui == nil {
		return nil
	}
	if direction == 1 {
		return ui.AdditionalInfo1
	}
	return ui.AdditionalInfo2
}

func firstSchedules(direct []Schedule, ui *WizardMeta, direction int) []Schedule {
	if len(direct) > 0 {
		return direct
	}
	if ui == nil {
		return nil
	}
	if direction == 1 {
		return ui.Schedules1
	}
	return ui.Schedules2
}

func convertStops(stops []WizardStop) []RouteStop {
	out := make([]RouteStop, 0, len(stops))
	for _, s := range stops {
		out = append(out, RouteStop{
			StopID:      s.ResolvedStopID(),
			TravelTime:  s.TravelTime,
			IsOnRequest: s.OnRequest,
			StopNumber:  s.StopNumber,
			IsFirst:     s.IsFirst,
			IsLast:      s.IsLast,
			IsOptional:  s.IsOptional,
		})
	}
	return out
}

// convertVariants builds departure-route variants for one direction. Without
// wizard data a single base variant is assumed. Departures are distributed to
// variants by the variantIndex each timetable sheet row carries.
func convertVariants(extras *WizardExtras, schedules []Schedule) []Variant {
	if extras == nil || len(extras.Variants) == 0 {
		return []Variant{{
			Signature:       DefaultVariantSignature,
			Color:           DefaultVariantColor,
			AdditionalStops: []VariantStop{},
			Departures:      []Departure{},
		}}
	}

	out := make([]Variant, 0, len(extras.Variants))
	for index, v := range extras.Variants {
		variant := Variant{
			Signature:       v.Signature,
			Color:           v.Color,
			AdditionalStops: make([]VariantStop, 0, len(v.AdditionalStops)),
			Departures:      []Departure{},
		}
		if variant.Signature == "" {
			variant.Signature = DefaultVariantSignature
		}
		if variant.Color == "" {
			variant.Color = DefaultVariantColor
		}

		for _, as := range v.AdditionalStops {
			num := as.StopNumber
			if num == 0 {
				num = as.StopNumberAlt
			}
			if num == 0 {
				num = 1
			}
			id := as.ID
			if id == 0 {
				id = as.StopID
			}
			variant.AdditionalStops = append(variant.AdditionalStops, VariantStop{StopNumber: num, StopID: id})
		}

		for _, schedule := range schedules {
			dayType := schedule.Type
			if dayType == "" {
				dayType = DefaultDayType
			}
			for _, d := range schedule.Departures {
				if d.VariantIndex != index {
					continue
				}
				variant.Departures = append(variant.Departures, Departure{
					DepartureTime: d.Time,
					DayType:       dayType,
				})
			}
		}

		out = append(out, variant)
	}
	return out
}
