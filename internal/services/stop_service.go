package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gorm.io/gorm"

	"transit_admin/internal/apperrors"
	"transit_admin/internal/models"
)

// StopService manages stop groups and their stops. Unlike the line service,
// its batch reconciliation is deliberately not all-or-nothing: stop edits are
// independent, so one bad row is logged and skipped instead of failing the
// whole batch.
type StopService struct {
	db *gorm.DB
}

func NewStopService(db *gorm.DB) *StopService {
	return &StopService{db: db}
}

// StopInput is one stop as submitted by the stop editor. The UI sends the
// coordinate string under "coordinates" on some screens and "map" on others.
type StopInput struct {
	ID          uint   `json:"id"`
	Map         string `json:"map"`
	Coordinates string `json:"coordinates"`
	Street      string `json:"street"`
}

func (s StopInput) mapValue() string {
	if s.Coordinates != "" {
		return s.Coordinates
	}
	return s.Map
}

type StopGroupInput struct {
	Name  string      `json:"name"`
	Stops []StopInput `json:"stops"`
}

type StopGroupUpdateInput struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Stops []StopInput `json:"stops"`
}

// StopFailure records one stop operation that failed during reconciliation.
type StopFailure struct {
	StopID uint   `json:"stop_id,omitempty"`
	Op     string `json:"op"`
	Error  string `json:"error"`
}

// ReconcileReport collects the partial outcome of a stop-group update.
// SkippedInUse lists stops absent from the new list that were kept because a
// route still references them.
type ReconcileReport struct {
	Updated      int           `json:"updated"`
	Inserted     int           `json:"inserted"`
	Deleted      []uint        `json:"deleted"`
	SkippedInUse []uint        `json:"skipped_in_use"`
	Failures     []StopFailure `json:"failures,omitempty"`
}

// ParseCoordinates parses a "lat,lng" coordinate string into a WGS84 point.
func ParseCoordinates(raw string) (*geom.Point, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, apperrors.Validation("coordinates must be \"lat,lng\"")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, apperrors.Validation("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, apperrors.Validation("invalid longitude %q", parts[1])
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperrors.Validation("coordinates out of range: %s", raw)
	}
	point := geom.NewPointFlat(geom.XY, []float64{lng, lat})
	point.SetSRID(4326)
	return point, nil
}

// coordinateGeoJSON renders a coordinate string as a GeoJSON point for the
// map preview, or nil when the value does not parse as coordinates.
func coordinateGeoJSON(raw string) json.RawMessage {
	point, err := ParseCoordinates(raw)
	if err != nil {
		return nil
	}
	b, err := geojson.Marshal(point)
	if err != nil {
		return nil
	}
	return b
}

func validateStopInputs(stops []StopInput) error {
	if len(stops) == 0 {
		return apperrors.Validation("at least one stop is required")
	}
	for _, stop := range stops {
		if stop.mapValue() == "" {
			return apperrors.Validation("map reference is required for all stops")
		}
		if stop.Street == "" {
			return apperrors.Validation("street name is required for all stops")
		}
		if _, err := ParseCoordinates(stop.mapValue()); err != nil {
			logrus.WithField("map", stop.mapValue()).Warn("stop coordinates do not parse; map preview will skip this stop")
		}
	}
	return nil
}

// AddStops creates a stop group together with its stops.
func (s *StopService) AddStops(input StopGroupInput) ([]models.Stop, error) {
	if input.Name == "" {
		return nil, apperrors.Validation("stop group name is required")
	}
	if err := validateStopInputs(input.Stops); err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, apperrors.Database("could not start transaction", tx.Error)
	}

	group := models.StopGroup{Name: input.Name}
	if err := tx.Create(&group).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	stops := make([]models.Stop, 0, len(input.Stops))
	for _, in := range input.Stops {
		stops = append(stops, models.Stop{
			StopGroupID: group.ID,
			Map:         in.mapValue(),
			Street:      in.Street,
		})
	}
	if err := tx.Create(&stops).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Translate(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Database("transaction commit failed", err)
	}
	return stops, nil
}

// UpdateStop updates a single stop's map and street fields. Only supplied
// fields change.
func (s *StopService) UpdateStop(input StopInput) (*models.Stop, error) {
	if input.ID == 0 {
		return nil, apperrors.Validation("stop ID is required")
	}

	updates := map[string]any{}
	if input.mapValue() != "" {
		updates["map"] = input.mapValue()
	}
	if input.Street != "" {
		updates["street"] = input.Street
	}
	if len(updates) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	result := s.db.Model(&models.Stop{}).Where("id = ?", input.ID).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("stop with ID %d not found", input.ID)
	}

	var stop models.Stop
	if err := s.db.First(&stop, input.ID).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return &stop, nil
}

// UpdateStopGroup renames a stop group.
func (s *StopService) UpdateStopGroup(id uint, name string) (*models.StopGroup, error) {
	if id == 0 {
		return nil, apperrors.Validation("stop group ID is required")
	}
	if name == "" {
		return nil, apperrors.Validation("stop group name is required")
	}

	result := s.db.Model(&models.StopGroup{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return nil, apperrors.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NotFound("stop group with ID %d not found", id)
	}

	return &models.StopGroup{ID: id, Name: name}, nil
}

// AddStopsToGroup bulk-inserts stops into an existing group.
func (s *StopService) AddStopsToGroup(groupID uint, inputs []StopInput) ([]models.Stop, error) {
	if groupID == 0 {
		return nil, apperrors.Validation("stop group ID is required")
	}
	if err := validateStopInputs(inputs); err != nil {
		return nil, err
	}

	stops := make([]models.Stop, 0, len(inputs))
	for _, in := range inputs {
		stops = append(stops, models.Stop{
			StopGroupID: groupID,
			Map:         in.mapValue(),
			Street:      in.Street,
		})
	}
	if err := s.db.Create(&stops).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return stops, nil
}

// DeleteStopsByGroupID removes every stop of a group.
func (s *StopService) DeleteStopsByGroupID(groupID uint) error {
	if groupID == 0 {
		return apperrors.Validation("stop group ID is required")
	}
	if err := s.db.Where("stop_group_id = ?", groupID).Delete(&models.Stop{}).Error; err != nil {
		return apperrors.Translate(err)
	}
	return nil
}

// GetStopsByGroupID returns a group with its stops ordered by id.
func (s *StopService) GetStopsByGroupID(groupID uint) (*models.StopGroup, error) {
	if groupID == 0 {
		return nil, apperrors.Validation("stop group ID is required")
	}

	var group models.StopGroup
	err := s.db.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&group, groupID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("stop group with ID %d not found", groupID)
		}
		return nil, apperrors.Translate(err)
	}
	return &group, nil
}

func (s *StopService) GetAllStopGroups() ([]models.StopGroup, error) {
	var groups []models.StopGroup
	if err := s.db.Order("name").Find(&groups).Error; err != nil {
		return nil, apperrors.Translate(err)
	}
	return groups, nil
}

// StopWithGroup is the all-stops projection for the wizard's stop picker.
// Location carries a GeoJSON point when the map value parses as coordinates.
type StopWithGroup struct {
	ID        uint            `json:"id"`
	Map       string          `json:"map"`
	Street    string          `json:"street"`
	Location  json.RawMessage `json:"location,omitempty"`
	StopGroup struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	} `json:"stopGroup"`
}

func (s *StopService) GetAllStopsWithGroups() ([]StopWithGroup, error) {
	var rows []struct {
		ID        uint
		Map       string
		Street    string
		GroupID   uint
		GroupName string
	}
	err := s.db.Table("stop").
		Select("stop.id, stop.map, stop.street, stop_group.id AS group_id, stop_group.name AS group_name").
		Joins("JOIN stop_group ON stop.stop_group_id = stop_group.id").
		Order("stop_group.name, stop.street").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Translate(err)
	}

	out := make([]StopWithGroup, 0, len(rows))
	for _, row := range rows {
		stop := StopWithGroup{
			ID:       row.ID,
			Map:      row.Map,
			Street:   row.Street,
			Location: coordinateGeoJSON(row.Map),
		}
		stop.StopGroup.ID = row.GroupID
		stop.StopGroup.Name = row.GroupName
		out = append(out, stop)
	}
	return out, nil
}

// UpdateStopGroupWithStops reconciles a group's stop membership against a new
// list, preserving the ids of kept stops. Stops with an id are updated, stops
// without one inserted, and stops absent from the list deleted only when no
// full_route row references them. Individual failures go into the report and
// the batch continues; only group-level failures abort.
func (s *StopService) UpdateStopGroupWithStops(input StopGroupUpdateInput) (*models.StopGroup, *ReconcileReport, error) {
	if input.ID == 0 {
		return nil, nil, apperrors.Validation("stop group ID is required")
	}
	if input.Name == "" {
		return nil, nil, apperrors.Validation("stop group name is required")
	}
	if len(input.Stops) == 0 {
		return nil, nil, apperrors.Validation("at least one stop is required")
	}

	if _, err := s.UpdateStopGroup(input.ID, input.Name); err != nil {
		return nil, nil, err
	}

	var existing []models.Stop
	if err := s.db.Where("stop_group_id = ?", input.ID).Find(&existing).Error; err != nil {
		return nil, nil, apperrors.Translate(err)
	}

	report := &ReconcileReport{Deleted: []uint{}, SkippedInUse: []uint{}}

	referenced := make(map[uint]bool, len(input.Stops))
	var toAdd []StopInput
	var toUpdate []StopInput
	for _, stop := range input.Stops {
		if stop.ID != 0 {
			referenced[stop.ID] = true
			toUpdate = append(toUpdate, stop)
		} else {
			toAdd = append(toAdd, stop)
		}
	}

	var toRemove []uint
	for _, stop := range existing {
		if !referenced[stop.ID] {
			toRemove = append(toRemove, stop.ID)
		}
	}

	for _, stop := range toUpdate {
		if _, err := s.UpdateStop(stop); err != nil {
			logrus.WithError(err).WithField("stop_id", stop.ID).Error("failed to update stop, continuing")
			report.Failures = append(report.Failures, StopFailure{StopID: stop.ID, Op: "update", Error: err.Error()})
			continue
		}
		report.Updated++
	}

	if len(toAdd) > 0 {
		added, err := s.AddStopsToGroup(input.ID, toAdd)
		if err != nil {
			logrus.WithError(err).WithField("stop_group_id", input.ID).Error("failed to insert new stops, continuing")
			report.Failures = append(report.Failures, StopFailure{Op: "insert", Error: err.Error()})
		} else {
			report.Inserted = len(added)
		}
	}

	for _, stopID := range toRemove {
		var usage int64
		if err := s.db.Model(&models.FullRoute{}).Where("stop_id = ?", stopID).Count(&usage).Error; err != nil {
			logrus.WithError(err).WithField("stop_id", stopID).Error("failed to check stop usage, skipping delete")
			report.Failures = append(report.Failures, StopFailure{StopID: stopID, Op: "delete", Error: err.Error()})
			continue
		}
		if usage > 0 {
			logrus.WithFields(logrus.Fields{"stop_id": stopID, "routes": usage}).Warn("stop still referenced by routes, keeping it")
			report.SkippedInUse = append(report.SkippedInUse, stopID)
			continue
		}
		if err := s.db.Delete(&models.Stop{}, stopID).Error; err != nil {
			logrus.WithError(err).WithField("stop_id", stopID).Error("failed to delete stop, continuing")
			report.Failures = append(report.Failures, StopFailure{StopID: stopID, Op: "delete", Error: err.Error()})
			continue
		}
		report.Deleted = append(report.Deleted, stopID)
	}

	group, err := s.GetStopsByGroupID(input.ID)
	if err != nil {
		return nil, nil, err
	}
	return group, report, nil
}
