package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"transit_admin/internal/apperrors"
	"transit_admin/internal/lineplan"
	"transit_admin/internal/models"
)

// LineService owns the line-composition domain: assembling a canonical line
// payload into the normalized route graph inside one transaction, replacing
// that graph on update, and projecting it back out for reads.
type LineService struct {
	db *gorm.DB
}

func NewLineService(db *gorm.DB) *LineService {
	return &LineService{db: db}
}

// FullRouteResult carries the persisted rows of one fullRoutes entry. Each
// departure route has its AdditionalStops and Timetable slices populated with
// the rows created for it.
type FullRouteResult struct {
	FullRoute       []models.FullRoute      `json:"fullRoute"`
	DepartureRoutes []models.DepartureRoute `json:"departureRoutes"`
}

type RouteResult struct {
	RouteID uint              `json:"routeId"`
	Results []FullRouteResult `json:"results"`
}

type LineResult struct {
	Line         models.Line    `json:"line"`
	Routes       []models.Route `json:"routes"`
	RouteResults []RouteResult  `json:"routeResults"`
}

// AddFullLine persists a line payload (canonical or wizard-shaped) as a new
// line with its full route graph. All rows are created in one transaction;
// any failure rolls the whole line back.
func (s *LineService) AddFullLine(req lineplan.LineRequest) (*LineResult, error) {
	payload := lineplan.Normalize(req)

	if payload.Name == "" {
		return nil, apperrors.Validation("line name is required")
	}
	if payload.LineTypeID == 0 {
		return nil, apperrors.Validation("line type ID is required")
	}
	if err := validateRoutes(payload.Routes); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, apperrors.Database("could not start transaction", tx.Error)
	}

	line := models.Line{Name: payload.Name, LineTypeID: payload.LineTypeID}
	if err := tx.Create(&line).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	routes, routeResults, err := s.createRouteGraph(tx, line.ID, payload.Routes)
	if err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Database("transaction commit failed", err)
	}

	logrus.WithFields(logrus.Fields{
		"line_id": line.ID,
		"routes":  len(routes),
	}).Info("line created")

	return &LineResult{Line: line, Routes: routes, RouteResults: routeResults}, nil
}

// UpdateFullLine replaces a line's entire route graph in place. The old graph
// is torn down and the new one rebuilt inside the same transaction, so an
// observer never sees the line without routes. This is a full replace, not a
// diff: child row ids never survive an update.
func (s *LineService) UpdateFullLine(lineID uint, req lineplan.LineRequest) (*LineResult, error) {
	if lineID == 0 {
		return nil, apperrors.Validation("line ID is required")
	}

	payload := lineplan.Normalize(req)
	if err := validateRoutes(payload.Routes); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, apperrors.Database("could not start transaction", tx.Error)
	}

	var existing models.Line
	if err := tx.First(&existing, lineID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("line with ID %d not found", lineID)
		}
		return nil, apperrors.Translate(err)
	}

	var routeIDs []uint
	if err := tx.Model(&models.Route{}).Where("line_id = ?", lineID).Pluck("id", &routeIDs).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}
	for _, routeID := range routeIDs {
		if err := cleanupRouteRecords(tx, routeID); err != nil {
			tx.Rollback()
			return nil, apperrors.Translate(err)
		}
	}
	if err := tx.Where("line_id = ?", lineID).Delete(&models.Route{}).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	// Partial update of the line row itself: only supplied fields change.
	updates := map[string]any{}
	if payload.Name != "" {
		updates["name"] = payload.Name
	}
	if payload.LineTypeID != 0 {
		updates["line_type_id"] = payload.LineTypeID
	}
	if len(updates) > 0 {
		if err := tx.Model(&models.Line{}).Where("id = ?", lineID).Updates(updates).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Translate(err)
		}
	}

	routes, routeResults, err := s.createRouteGraph(tx, lineID, payload.Routes)
	if err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	var updated models.Line
	if err := tx.First(&updated, lineID).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Database("transaction commit failed", err)
	}

	logrus.WithField("line_id", lineID).Info("line route graph replaced")

	return &LineResult{Line: updated, Routes: routes, RouteResults: routeResults}, nil
}

// DeleteLine removes a line and its whole route graph in dependency order.
func (s *LineService) DeleteLine(lineID uint) error {
	if lineID == 0 {
		return apperrors.Validation("line ID is required")
	}

	var line models.Line
	if err := s.db.First(&line, lineID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("line with ID %d not found", lineID)
		}
		return apperrors.Translate(err)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return apperrors.Database("could not start transaction", tx.Error)
	}

	var routeIDs []uint
	if err := tx.Model(&models.Route{}).Where("line_id = ?", lineID).Pluck("id", &routeIDs).Error; err != nil {
		tx.Rollback()
		return apperrors.Translate(err)
	}
	for _, routeID := range routeIDs {
		if err := cleanupRouteRecords(tx, routeID); err != nil {
			tx.Rollback()
			return apperrors.Translate(err)
		}
	}
	if err := tx.Where("line_id = ?", lineID).Delete(&models.Route{}).Error; err != nil {
		tx.Rollback()
		return apperrors.Translate(err)
	}
	if err := tx.Delete(&models.Line{}, lineID).Error; err != nil {
		tx.Rollback()
		return apperrors.Translate(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Database("transaction commit failed", err)
	}

	logrus.WithField("line_id", lineID).Info("line deleted")
	return nil
}

func validateRoutes(routes []lineplan.CanonicalRoute) error {
	if len(routes) == 0 {
		return apperrors.Validation("at least one route is required")
	}
	if len(routes) > 2 {
		return apperrors.Validation("a line can have at most two routes")
	}
	return nil
}

// createRouteGraph runs the per-route assembly steps against an existing line
// id: route rows, then for each fullRoutes entry the stop sequence, the
// departure-route variants and their additional stops and timetables. Shared
// by create and update; must run inside the caller's transaction.
func (s *LineService) createRouteGraph(tx *gorm.DB, lineID uint, routes []lineplan.CanonicalRoute) ([]models.Route, []RouteResult, error) {
	created := make([]models.Route, 0, len(routes))
	results := make([]RouteResult, 0, len(routes))

	for _, routeData := range routes {
		route := models.Route{
			LineID:     lineID,
			IsCircular: routeData.IsCircular,
			IsNight:    routeData.IsNight,
		}
		if err := tx.Create(&route).Error; err != nil {
			return nil, nil, err
		}
		created = append(created, route)

		if len(routeData.FullRoutes) == 0 {
			continue
		}
		routeResults, err := processRouteData(tx, routeData.FullRoutes, route.ID)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, RouteResult{RouteID: route.ID, Results: routeResults})
	}

	return created, results, nil
}

func processRouteData(tx *gorm.DB, fullRoutes []lineplan.FullRouteConfig, routeID uint) ([]FullRouteResult, error) {
	results := make([]FullRouteResult, 0, len(fullRoutes))

	for _, config := range fullRoutes {
		stops, err := addFullRouteBatch(tx, config.FullRoute, routeID)
		if err != nil {
			return nil, err
		}

		departureRoutes, err := addDepartureRouteBatch(tx, config.DepartureRoutes, routeID)
		if err != nil {
			return nil, err
		}

		// Variants are matched to their input definitions by position; the
		// batch insert hands back generated ids in supply order.
		for i := range departureRoutes {
			variant := config.DepartureRoutes[i]

			departureRoutes[i].AdditionalStops = []models.AdditionalStop{}
			if len(variant.AdditionalStops) > 0 {
				additionalStops, err := addAdditionalStopBatch(tx, variant.AdditionalStops, departureRoutes[i].ID)
				if err != nil {
					return nil, err
				}
				departureRoutes[i].AdditionalStops = additionalStops
			}

			departureRoutes[i].Timetable = []models.Timetable{}
			if len(variant.Departures) > 0 {
				timetable, err := addTimetableBatch(tx, variant.Departures, departureRoutes[i].ID)
				if err != nil {
					return nil, err
				}
				departureRoutes[i].Timetable = timetable
			}
		}

		results = append(results, FullRouteResult{
			FullRoute:       stops,
			DepartureRoutes: departureRoutes,
		})
	}

	return results, nil
}

// addFullRouteBatch inserts a route's stop sequence as one multi-row insert.
// Stop numbers are assigned 1..N by array position no matter what the caller
// supplied; the first row is forced is_first and the last is_last.
func addFullRouteBatch(tx *gorm.DB, stops []lineplan.RouteStop, routeID uint) ([]models.FullRoute, error) {
	if len(stops) == 0 {
		return nil, apperrors.Validation("no route stops provided")
	}

	rows := make([]models.FullRoute, 0, len(stops))
	for i, stop := range stops {
		rows = append(rows, models.FullRoute{
			RouteID:     routeID,
			StopID:      stop.StopID,
			StopNumber:  i + 1,
			TravelTime:  stop.TravelTime,
			IsOnRequest: stop.IsOnRequest,
			IsFirst:     i == 0 || stop.IsFirst,
			IsLast:      i == len(stops)-1 || stop.IsLast,
			IsOptional:  stop.IsOptional,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func addDepartureRouteBatch(tx *gorm.DB, variants []lineplan.Variant, routeID uint) ([]models.DepartureRoute, error) {
	if len(variants) == 0 {
		return nil, apperrors.Validation("no departure routes provided")
	}

	rows := make([]models.DepartureRoute, 0, len(variants))
	for _, v := range variants {
		rows = append(rows, models.DepartureRoute{
			RouteID:   routeID,
			Signature: v.Signature,
			Color:     v.Color,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func addAdditionalStopBatch(tx *gorm.DB, stops []lineplan.VariantStop, departureRouteID uint) ([]models.AdditionalStop, error) {
	if len(stops) == 0 {
		return []models.AdditionalStop{}, nil
	}

	rows := make([]models.AdditionalStop, 0, len(stops))
	for _, stop := range stops {
		rows = append(rows, models.AdditionalStop{
			DepartureRouteID: departureRouteID,
			StopNumber:       stop.StopNumber,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func addTimetableBatch(tx *gorm.DB, departures []lineplan.Departure, departureRouteID uint) ([]models.Timetable, error) {
	if len(departures) == 0 {
		return []models.Timetable{}, nil
	}

	rows := make([]models.Timetable, 0, len(departures))
	for _, d := range departures {
		dayType := d.DayType
		if dayType == "" {
			dayType = lineplan.DefaultDayType
		}
		rows = append(rows, models.Timetable{
			DepartureRouteID: departureRouteID,
			DepartureTime:    d.DepartureTime,
			DayType:          dayType,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// cleanupRouteRecords deletes one route's child rows in dependency order:
// timetable and additional stops (scoped by the route's departure-route ids),
// then full_route, then departure_route.
func cleanupRouteRecords(tx *gorm.DB, routeID uint) error {
	var departureRouteIDs []uint
	if err := tx.Model(&models.DepartureRoute{}).Where("route_id = ?", routeID).Pluck("id", &departureRouteIDs).Error; err != nil {
		return err
	}

	if len(departureRouteIDs) > 0 {
		if err := tx.Where("departure_route_id IN ?", departureRouteIDs).Delete(&models.Timetable{}).Error; err != nil {
			return err
		}
		if err := tx.Where("departure_route_id IN ?", departureRouteIDs).Delete(&models.AdditionalStop{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("route_id = ?", routeID).Delete(&models.FullRoute{}).Error; err != nil {
		return err
	}
	return tx.Where("route_id = ?", routeID).Delete(&models.DepartureRoute{}).Error
}

// GetLineByID reassembles a line's nested shape from the normalized tables:
// routes, each with its stop sequence in stop order and its variants with
// additional stops and a time-ordered timetable.
func (s *LineService) GetLineByID(lineID uint) (*models.Line, error) {
	if lineID == 0 {
		return nil, apperrors.Validation("line ID is required")
	}

	var line models.Line
	err := s.db.
		Preload("Routes").
		Preload("Routes.FullRoute", func(db *gorm.DB) *gorm.DB {
			return db.Order("stop_number")
		}).
		Preload("Routes.FullRoute.Stop").
		Preload("Routes.DepartureRoutes").
		Preload("Routes.DepartureRoutes.AdditionalStops").
		Preload("Routes.DepartureRoutes.Timetable", func(db *gorm.DB) *gorm.DB {
			return db.Order("departure_time")
		}).
		First(&line, lineID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("line with ID %d not found", lineID)
		}
		return nil, apperrors.Translate(err)
	}

	return &line, nil
}

// LineSummary is a line row joined with its type for the listing endpoint.
type LineSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	LineTypeID   uint   `json:"line_type_id"`
	NameSingular string `json:"name_singular"`
	NamePlural   string `json:"name_plural"`
	Color        string `json:"color"`
}

func (s *LineService) GetAllLines() ([]LineSummary, error) {
	var lines []LineSummary
	err := s.db.Table("line").
		Select("line.id, line.name, line.line_type_id, line_type.name_singular, line_type.name_plural, line_type.color").
		Joins("JOIN line_type ON line.line_type_id = line_type.id").
		Order("line.name").
		Scan(&lines).Error
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return lines, nil
}

// RouteStopView is one stop of the public route listing, joined through
// stop and stop_group.
type RouteStopView struct {
	FullRouteID   uint   `json:"full_route_id"`
	StopNumber    int    `json:"stop_number"`
	TravelTime    int    `json:"travel_time"`
	IsOnRequest   bool   `json:"is_on_request"`
	IsFirst       bool   `json:"is_first"`
	IsLast        bool   `json:"is_last"`
	IsOptional    bool   `json:"is_optional"`
	StopID        uint   `json:"stop_id"`
	Map           string `json:"map"`
	Street        string `json:"street"`
	StopGroupName string `json:"stop_group_name"`
}

type RouteWithStops struct {
	RouteID    uint            `json:"route_id"`
	IsCircular bool            `json:"is_circular"`
	IsNight    bool            `json:"is_night"`
	LineID     uint            `json:"line_id"`
	LineName   string          `json:"line_name"`
	LineColor  string          `json:"line_color"`
	Stops      []RouteStopView `gorm:"-" json:"stops"`
}

// GetRoutesByLineID is the flatter projection used by the public route
// listing: route rows joined to line and line type, each with its stop list
// joined through stop and stop group.
func (s *LineService) GetRoutesByLineID(lineID uint) ([]RouteWithStops, error) {
	if lineID == 0 {
		return nil, apperrors.Validation("line ID is required")
	}

	// Existence check joins line_type: a line whose type row is gone is
	// invisible to the public listing, same as the main query below.
	var count int64
	err := s.db.Table("line").
		Joins("JOIN line_type ON line.line_type_id = line_type.id").
		Where("line.id = ?", lineID).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	if count == 0 {
		return nil, apperrors.NotFound("line with ID %d not found", lineID)
	}

	var routes []RouteWithStops
	err = s.db.Table("route").
		Select("route.id AS route_id, route.is_circular, route.is_night, line.id AS line_id, line.name AS line_name, line_type.color AS line_color").
		Joins("JOIN line ON route.line_id = line.id").
		Joins("JOIN line_type ON line.line_type_id = line_type.id").
		Where("line.id = ?", lineID).
		Scan(&routes).Error
	if err != nil {
		return nil, apperrors.Translate(err)
	}

	for i := range routes {
		var stops []RouteStopView
		err := s.db.Table("full_route").
			Select("full_route.id AS full_route_id, full_route.stop_number, full_route.travel_time, full_route.is_on_request, full_route.is_first, full_route.is_last, full_route.is_optional, stop.id AS stop_id, stop.map, stop.street, stop_group.name AS stop_group_name").
			Joins("JOIN stop ON full_route.stop_id = stop.id").
			Joins("JOIN stop_group ON stop.stop_group_id = stop_group.id").
			Where("full_route.route_id = ?", routes[i].RouteID).
			Order("full_route.stop_number").
			Scan(&stops).Error
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		routes[i].Stops = stops
	}

	return routes, nil
}
