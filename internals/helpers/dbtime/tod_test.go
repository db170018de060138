package dbtime_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "eduquest_backend/internals/databases"
	"eduquest_backend/internals/helpers/dbtime"
)

type period struct {
	ID       uint `gorm:"primaryKey"`
	StartsAt dbtime.Tod
	EndsAt   dbtime.Tod
}

func TestTodRoundTripsOnSQLite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "tod.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&period{}))

	require.NoError(t, db.Create(&period{StartsAt: dbtime.MustParse("08:00"), EndsAt: dbtime.MustParse("08:45")}).Error)

	var got period
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "08:00", got.StartsAt.String())
	assert.Equal(t, "08:45", got.EndsAt.String())
	assert.Equal(t, 8*60+45, got.EndsAt.Minutes())

	var raw string
	require.NoError(t, db.Table("periods").Select("starts_at").Limit(1).Scan(&raw).Error)
	assert.Equal(t, "08:00:00", raw)
}

func TestOverlaps(t *testing.T) {
	a, b := dbtime.MustParse("08:00"), dbtime.MustParse("08:45")
	assert.True(t, dbtime.Overlaps(a, b, dbtime.MustParse("08:30"), dbtime.MustParse("09:00")))
	assert.False(t, dbtime.Overlaps(a, b, b, dbtime.MustParse("09:30")))
}
