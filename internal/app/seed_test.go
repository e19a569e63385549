package app_test

import (
	"context"
	"testing"

	"go-ems/internal/app"
	"go-ems/internal/auth"
	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/shared/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedDemoData_RunsTwice(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	require.NoError(t, app.Migrate(ctx, db, false))

	require.NoError(t, app.SeedDemoData(ctx, db, "password123", zap.NewNop()))

	var firstEngineering department.Department
	require.NoError(t, db.Where("name = ?", "Engineering").First(&firstEngineering).Error)

	require.NoError(t, app.SeedDemoData(ctx, db, "password123", zap.NewNop()))

	var departments, users, employees int64
	require.NoError(t, db.Model(&department.Department{}).Count(&departments).Error)
	require.NoError(t, db.Model(&auth.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&employee.Employee{}).Count(&employees).Error)
	assert.Equal(t, int64(4), departments)
	assert.Equal(t, int64(7), users)
	assert.Equal(t, int64(1), employees)

	var john employee.Employee
	require.NoError(t, db.Preload("Department").Preload("User").
		Where("email = ?", "john.doe@example.com").First(&john).Error)
	assert.Equal(t, firstEngineering.ID, *john.DepartmentID)
	if assert.NotNil(t, john.User) {
		assert.Equal(t, "john.doe", john.User.Username)
	}
	assert.Equal(t, "Engineering", john.Department.Name)
}
