package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit_admin/internal/apperrors"
	"transit_admin/internal/models"
)

func strPtr(s string) *string { return &s }

func TestAddLineType(t *testing.T) {
	db := testDB(t)
	svc := NewLineTypeService(db)

	created, err := svc.AddLineType(LineTypeInput{
		NameSingular: strPtr("Tramwaj"),
		NamePlural:   strPtr("Tramwaje"),
		Color:        strPtr("#c0392b"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Tramwaj", created.NameSingular)
}

func TestAddLineType_Validation(t *testing.T) {
	db := testDB(t)
	svc := NewLineTypeService(db)

	tests := []struct {
		name  string
		input LineTypeInput
	}{
		{"missing singular", LineTypeInput{NamePlural: strPtr("Tramwaje"), Color: strPtr("#c0392b")}},
		{"missing plural", LineTypeInput{NameSingular: strPtr("Tramwaj"), Color: strPtr("#c0392b")}},
		{"missing color", LineTypeInput{NameSingular: strPtr("Tramwaj"), NamePlural: strPtr("Tramwaje")}},
		{"bad hex", LineTypeInput{NameSingular: strPtr("Tramwaj"), NamePlural: strPtr("Tramwaje"), Color: strPtr("red")}},
		{"short hex", LineTypeInput{NameSingular: strPtr("Tramwaj"), NamePlural: strPtr("Tramwaje"), Color: strPtr("#abc")}},
		{"no hash", LineTypeInput{NameSingular: strPtr("Tramwaj"), NamePlural: strPtr("Tramwaje"), Color: strPtr("c0392b1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddLineType(tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}

	assert.EqualValues(t, 0, countRows(t, db, &models.LineType{}))
}

func TestUpdateLineType_Partial(t *testing.T) {
	db := testDB(t)
	lt := seedLineType(t, db)
	svc := NewLineTypeService(db)

	updated, err := svc.UpdateLineType(lt.ID, LineTypeInput{Color: strPtr("#00FF00")})
	require.NoError(t, err)

	assert.Equal(t, "#00FF00", updated.Color)
	assert.Equal(t, lt.NameSingular, updated.NameSingular, "names untouched")
	assert.Equal(t, lt.NamePlural, updated.NamePlural)
}

func TestUpdateLineType_BadColorWritesNothing(t *testing.T) {
	db := testDB(t)
	lt := seedLineType(t, db)
	svc := NewLineTypeService(db)

	_, err := svc.UpdateLineType(lt.ID, LineTypeInput{
		NameSingular: strPtr("Metro"),
		Color:        strPtr("not-a-color"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// Validation rejects the whole request; the valid name field must not
	// have been applied either.
	current, err := svc.GetLineTypeByID(lt.ID)
	require.NoError(t, err)
	assert.Equal(t, lt.NameSingular, current.NameSingular)
	assert.Equal(t, lt.Color, current.Color)
}

func TestUpdateLineType_NotFound(t *testing.T) {
	db := testDB(t)
	svc := NewLineTypeService(db)

	_, err := svc.UpdateLineType(77, LineTypeInput{Color: strPtr("#112233")})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteLineType_GuardsInUse(t *testing.T) {
	db := testDB(t)
	lt := seedLineType(t, db)
	_, stops := seedStops(t, db, 2)

	lines := NewLineService(db)
	created, err := lines.AddFullLine(canonicalRequest("96", lt.ID, stopIDs(stops)))
	require.NoError(t, err)

	svc := NewLineTypeService(db)
	err = svc.DeleteLineType(lt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "still in use by 1 line(s)")

	assert.EqualValues(t, 1, countRows(t, db, &models.LineType{}))

	// After the referencing line goes away the delete succeeds.
	require.NoError(t, lines.DeleteLine(created.Line.ID))
	require.NoError(t, svc.DeleteLineType(lt.ID))
	assert.EqualValues(t, 0, countRows(t, db, &models.LineType{}))
}

func TestDeleteLineType_NotFound(t *testing.T) {
	db := testDB(t)
	svc := NewLineTypeService(db)

	err := svc.DeleteLineType(5)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetAllLineTypes_OrderedByID(t *testing.T) {
	db := testDB(t)
	svc := NewLineTypeService(db)

	for _, names := range [][3]string{
		{"Tramwaj", "Tramwaje", "#c0392b"},
		{"Autobus", "Autobusy", "#2980b9"},
	} {
		_, err := svc.AddLineType(LineTypeInput{
			NameSingular: strPtr(names[0]),
			NamePlural:   strPtr(names[1]),
			Color:        strPtr(names[2]),
		})
		require.NoError(t, err)
	}

	all, err := svc.GetAllLineTypes()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Tramwaj", all[0].NameSingular)
	assert.Equal(t, "Autobus", all[1].NameSingular)
}
