package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgRepositoryCatalog(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrgRepository(db)

	mock.ExpectQuery(`SELECT id FROM areas`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("a1").AddRow("a2"))
	mock.ExpectQuery(`SELECT id, area_id AS parent FROM departments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent"}).AddRow("d1", "a1"))
	mock.ExpectQuery(`SELECT id, department_id AS parent FROM machines`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent"}).AddRow("m1", "d1"))
	mock.ExpectQuery(`SELECT id, department_id AS parent FROM teams`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent"}).AddRow("t1", "d1"))

	catalog, err := repo.Catalog(context.Background())
	require.NoError(t, err)
	assert.True(t, catalog.HasAreas)
	assert.Equal(t, "a1", catalog.DepartmentArea["d1"])
	assert.Equal(t, "d1", catalog.MachineDepartment["m1"])
	assert.Equal(t, "d1", catalog.TeamDepartment["t1"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrgRepositoryCatalogWithoutAreas(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewOrgRepository(db)

	mock.ExpectQuery(`SELECT id FROM areas`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT id, area_id AS parent FROM departments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent"}).AddRow("d1", ""))
	mock.ExpectQuery(`SELECT id, department_id AS parent FROM machines`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent"}))
	mock.ExpectQuery(`SELECT id, department_id AS parent FROM teams`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent"}))

	catalog, err := repo.Catalog(context.Background())
	require.NoError(t, err)
	assert.False(t, catalog.HasAreas)
	require.NoError(t, mock.ExpectationsWereMet())
}
