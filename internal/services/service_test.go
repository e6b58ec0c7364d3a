package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"transit_admin/internal/models"
)

// testDB opens an in-memory SQLite database with the full schema and foreign
// keys enforced. Pool size is pinned to one connection so every statement
// sees the same memory database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open test db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.LineType{},
		&models.Line{},
		&models.Route{},
		&models.StopGroup{},
		&models.Stop{},
		&models.FullRoute{},
		&models.DepartureRoute{},
		&models.AdditionalStop{},
		&models.Timetable{},
		&models.User{},
	), "migrate test db")

	return db
}

func seedLineType(t *testing.T, db *gorm.DB) models.LineType {
	t.Helper()
	lt := models.LineType{NameSingular: "Autobus", NamePlural: "Autobusy", Color: "#FF0000"}
	require.NoError(t, db.Create(&lt).Error)
	return lt
}

// seedStops creates a stop group with n stops and returns them in id order.
func seedStops(t *testing.T, db *gorm.DB, n int) (models.StopGroup, []models.Stop) {
	t.Helper()
	group := models.StopGroup{Name: "Centrum"}
	require.NoError(t, db.Create(&group).Error)

	stops := make([]models.Stop, 0, n)
	for i := 0; i < n; i++ {
		stops = append(stops, models.Stop{
			StopGroupID: group.ID,
			Map:         fmt.Sprintf("52.2%d,21.0%d", i, i),
			Street:      fmt.Sprintf("Marszalkowska %d", i+1),
		})
	}
	require.NoError(t, db.Create(&stops).Error)
	return group, stops
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
