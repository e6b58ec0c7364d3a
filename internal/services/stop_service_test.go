package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_admin/internal/apperrors"
	"transit_admin/internal/models"
)

func TestAddStops_CreatesGroupAndStops(t *testing.T) {
	db := testDB(t)
	svc := NewStopService(db)

	stops, err := svc.AddStops(StopGroupInput{
		Name: "Dworzec Centralny",
		Stops: []StopInput{
			{Coordinates: "52.2286,21.0030", Street: "Aleje Jerozolimskie"},
			{Map: "52.2290,21.0045", Street: "Emilii Plater"},
		},
	})
	require.NoError(t, err)
	require.Len(t, stops, 2)

	// The "coordinates" alias lands in the map column.
	assert.Equal(t, "52.2286,21.0030", stops[0].Map)
	assert.Equal(t, stops[0].StopGroupID, stops[1].StopGroupID)

	assert.EqualValues(t, 1, countRows(t, db, &models.StopGroup{}))
	assert.EqualValues(t, 2, countRows(t, db, &models.Stop{}))
}

func TestAddStops_Validation(t *testing.T) {
	db := testDB(t)
	svc := NewStopService(db)

	tests := []struct {
		name  string
		input StopGroupInput
	}{
		{"missing group name", StopGroupInput{Stops: []StopInput{{Map: "52.2,21.0", Street: "Zlota"}}}},
		{"no stops", StopGroupInput{Name: "Centrum"}},
		{"missing map", StopGroupInput{Name: "Centrum", Stops: []StopInput{{Street: "Zlota"}}}},
		{"missing street", StopGroupInput{Name: "Centrum", Stops: []StopInput{{Map: "52.2,21.0"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddStops(tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	assert.EqualValues(t, 0, countRows(t, db, &models.StopGroup{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.Stop{}))
}

func TestAddStops_AcceptsNonCoordinateMap(t *testing.T) {
	db := testDB(t)
	svc := NewStopService(db)

	// Legacy map references are not coordinates. They are accepted, only the
	// map preview loses the pin.
	stops, err := svc.AddStops(StopGroupInput{
		Name:  "Stare Miasto",
		Stops: []StopInput{{Map: "sector-B4", Street: "Podwale"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "sector-B4", stops[0].Map)
}

func TestUpdateStop_PartialFields(t *testing.T) {
	db := testDB(t)
	_, stops := seedStops(t, db, 1)
	svc := NewStopService(db)

	updated, err := svc.UpdateStop(StopInput{ID: stops[0].ID, Street: "Nowy Swiat"})
	require.NoError(t, err)

	assert.Equal(t, "Nowy Swiat", updated.Street)
	assert.Equal(t, stops[0].Map, updated.Map, "map untouched when not supplied")
}

func TestUpdateStop_Errors(t *testing.T) {
	db := testDB(t)
	_, stops := seedStops(t, db, 1)
	svc := NewStopService(db)

	_, err := svc.UpdateStop(StopInput{ID: 999, Street: "Prosta"})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.UpdateStop(StopInput{Street: "Prosta"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateStop(StopInput{ID: stops[0].ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "empty update rejected")
}

func TestUpdateStopGroupWithStops_Reconciles(t *testing.T) {
	db := testDB(t)
	group, stops := seedStops(t, db, 3)
	svc := NewStopService(db)

	updated, report, err := svc.UpdateStopGroupWithStops(StopGroupUpdateInput{
		ID:   group.ID,
		Name: "Centrum Przesiadkowe",
		// Two updates, one insert; stops[2] is omitted and becomes a
		// delete candidate.
		Stops: []StopInput{
			{ID: stops[0].ID, Street: "Swietokrzyska"},
			{ID: stops[1].ID, Map: "52.30,21.10"},
			{Map: "52.25,21.05", Street: "Krucza"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Centrum Przesiadkowe", updated.Name)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, []uint{stops[2].ID}, report.Deleted)
	assert.Empty(t, report.SkippedInUse)
	assert.Empty(t, report.Failures)

	// Kept stops retain their ids.
	require.Len(t, updated.Stops, 3)
	assert.Equal(t, stops[0].ID, updated.Stops[0].ID)
	assert.Equal(t, "Swietokrzyska", updated.Stops[0].Street)
	assert.Equal(t, "52.30,21.10", updated.Stops[1].Map)

	assert.EqualValues(t, 3, countRows(t, db, &models.Stop{}))
}

func TestUpdateStopGroupWithStops_KeepsReferencedStops(t *testing.T) {
	db := testDB(t)
	lt := seedLineType(t, db)
	group, stops := seedStops(t, db, 2)

	// stops[1] is part of a line's route; removing it from the group must not
	// break the route.
	lines := NewLineService(db)
	_, err := lines.AddFullLine(canonicalRequest("96", lt.ID, stopIDs(stops)))
	require.NoError(t, err)

	svc := NewStopService(db)
	_, report, err := svc.UpdateStopGroupWithStops(StopGroupUpdateInput{
		ID:    group.ID,
		Name:  group.Name,
		Stops: []StopInput{{ID: stops[0].ID, Street: "Zgoda"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{stops[1].ID}, report.SkippedInUse)
	assert.Empty(t, report.Deleted)
	assert.EqualValues(t, 2, countRows(t, db, &models.Stop{}))
}

func TestUpdateStopGroupWithStops_ContinuesPastBadRows(t *testing.T) {
	db := testDB(t)
	group, stops := seedStops(t, db, 2)
	svc := NewStopService(db)

	// One referenced stop id does not exist; the other rows still go through.
	updated, report, err := svc.UpdateStopGroupWithStops(StopGroupUpdateInput{
		ID:   group.ID,
		Name: group.Name,
		Stops: []StopInput{
			{ID: stops[0].ID, Street: "Hoza"},
			{ID: 9999, Street: "Wspolna"},
			{ID: stops[1].ID, Street: "Wilcza"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Updated)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, uint(9999), report.Failures[0].StopID)
	assert.Equal(t, "update", report.Failures[0].Op)

	require.Len(t, updated.Stops, 2)
	assert.Equal(t, "Hoza", updated.Stops[0].Street)
	assert.Equal(t, "Wilcza", updated.Stops[1].Street)
}

func TestUpdateStopGroupWithStops_GroupNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewStopService(db)

	_, _, err := svc.UpdateStopGroupWithStops(StopGroupUpdateInput{
		ID:    404,
		Name:  "Nigdzie",
		Stops: []StopInput{{Map: "52.2,21.0", Street: "Zadna"}},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetStopsByGroupID(t *testing.T) {
	db := testDB(t)
	group, stops := seedStops(t, db, 2)
	svc := NewStopService(db)

	got, err := svc.GetStopsByGroupID(group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.Name, got.Name)
	require.Len(t, got.Stops, 2)
	assert.Equal(t, stops[0].ID, got.Stops[0].ID)

	_, err = svc.GetStopsByGroupID(999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetAllStopsWithGroups_AttachesGeoJSON(t *testing.T) {
	db := testDB(t)
	svc := NewStopService(db)

	_, err := svc.AddStops(StopGroupInput{
		Name: "Mokotow",
		Stops: []StopInput{
			{Map: "52.1935,21.0450", Street: "Pulawska"},
			{Map: "not-coordinates", Street: "Woronicza"},
		},
	})
	require.NoError(t, err)

	all, err := svc.GetAllStopsWithGroups()
	require.NoError(t, err)
	require.Len(t, all, 2)

	byStreet := map[string]StopWithGroup{}
	for _, s := range all {
		byStreet[s.Street] = s
	}

	withPoint := byStreet["Pulawska"]
	require.NotNil(t, withPoint.Location)
	assert.Contains(t, string(withPoint.Location), `"type":"Point"`)
	assert.Equal(t, "Mokotow", withPoint.StopGroup.Name)

	// Non-coordinate map values simply carry no location.
	assert.Nil(t, byStreet["Woronicza"].Location)
}

func TestParseCoordinates(t *testing.T) {
	point, err := ParseCoordinates("52.2297, 21.0122")
	require.NoError(t, err)
	coords := point.FlatCoords()
	assert.InDelta(t, 21.0122, coords[0], 1e-9, "x is longitude")
	assert.InDelta(t, 52.2297, coords[1], 1e-9, "y is latitude")
	assert.Equal(t, 4326, point.SRID())

	for _, raw := range []string{"", "52.2297", "52.2,21.0,3", "abc,21.0", "52.2,xyz", "95.0,21.0", "52.2,200.0"} {
		_, err := ParseCoordinates(raw)
		assert.Error(t, err, "raw=%q", raw)
		assert.True(t, apperrors.IsValidation(err), "raw=%q", raw)
	}
}

func TestDeleteStopsByGroupID(t *testing.T) {
	db := testDB(t)
	group, _ := seedStops(t, db, 3)
	svc := NewStopService(db)

	require.NoError(t, svc.DeleteStopsByGroupID(group.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.Stop{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.StopGroup{}))
}
