package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestRatingsForProducts(t *testing.T) {
	pg, mock := newMock(t)
	repo := NewReviewRepository(pg)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT calificacion_resena FROM reviews WHERE producto_ref = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"calificacion_resena"}).AddRow(5).AddRow(3).AddRow(4))

	ratings, err := repo.RatingsForProducts(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Equal(t, []int{5, 3, 4}, ratings)
	require.NoError(t, mock.ExpectationsWereMet())
}
