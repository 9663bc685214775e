package migrations

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/AppointmentService/pkg/logger"
)

func TestLoad_SortedByVersion(t *testing.T) {
	all, err := Load()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, 1, all[0].Version)
	assert.Contains(t, all[0].SQL, "EXCLUDE USING gist")
	assert.Equal(t, 2, all[1].Version)
}

func TestMigrator_Up_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS provider_booking_settings").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)")).
		WithArgs(2, "002_provider_booking_settings.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewMigrator(dbmetrics.Wrap(db, nil), logger.Nop())
	count, err := m.Up(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
