package department_test

import (
	"context"
	"testing"

	"go-ems/internal/department"
	"go-ems/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRepository_SQLite(t *testing.T) {
	db := testdb.Open(t, &department.Department{})
	assert.NoError(t, db.Exec(`CREATE TABLE employees (id TEXT PRIMARY KEY, department_id TEXT)`).Error)

	repo := department.NewRepository(db)
	ctx := context.Background()

	eng := &department.Department{ID: uuid.New(), Name: "Engineering"}
	fin := &department.Department{ID: uuid.New(), Name: "Finance"}
	assert.NoError(t, repo.Create(ctx, eng))
	assert.NoError(t, repo.Create(ctx, fin))

	t.Run("name uniqueness is enforced by the store", func(t *testing.T) {
		err := repo.Create(ctx, &department.Department{ID: uuid.New(), Name: "Engineering"})
		assert.Error(t, err)
	})

	t.Run("NameTaken is exact and can exclude", func(t *testing.T) {
		taken, err := repo.NameTaken(ctx, "Engineering", nil)
		assert.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.NameTaken(ctx, "engineering", nil)
		assert.NoError(t, err)
		assert.False(t, taken)

		taken, err = repo.NameTaken(ctx, "Engineering", &eng.ID)
		assert.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("FindAll orders by name", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, "Engineering", all[0].Name)
	})

	t.Run("CountEmployees", func(t *testing.T) {
		assert.NoError(t, db.Exec(`INSERT INTO employees (id, department_id) VALUES (?, ?)`, uuid.NewString(), eng.ID).Error)

		n, err := repo.CountEmployees(ctx, eng.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountEmployees(ctx, fin.ID)
		assert.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("WithTx rollback discards writes", func(t *testing.T) {
		sqlDB, err := db.DB()
		assert.NoError(t, err)

		tx, err := sqlDB.BeginTx(ctx, nil)
		assert.NoError(t, err)
		assert.NoError(t, repo.WithTx(tx).Create(ctx, &department.Department{ID: uuid.New(), Name: "Marketing"}))
		assert.NoError(t, tx.Rollback())

		taken, err := repo.NameTaken(ctx, "Marketing", nil)
		assert.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("Delete", func(t *testing.T) {
		assert.NoError(t, repo.Delete(ctx, fin.ID))
		_, err := repo.FindByID(ctx, fin.ID)
		assert.Error(t, err)
	})
}
