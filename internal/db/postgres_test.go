package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestMigrateAppliesEverySchemaStatement(t *testing.T) {
	pg, mock := newMock(t)
	for range schema {
		mock.ExpectExec("CREATE (TABLE|INDEX) IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, pg.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateStopsOnFirstError(t *testing.T) {
	pg, mock := newMock(t)
	mock.ExpectExec("CREATE (TABLE|INDEX) IF NOT EXISTS").WillReturnError(errors.New("permission denied"))

	require.ErrorContains(t, pg.Migrate(context.Background()), "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckPingsDatabase(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()
	pg := &PostgresDB{Conn: conn}

	mock.ExpectPing()
	require.NoError(t, pg.Check(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("server closed the connection"))
	require.Error(t, pg.Check(context.Background()))
}
