package app

import (
	"context"
	"errors"
	"time"

	"go-ems/internal/auth"
	"go-ems/internal/department"
	"go-ems/internal/employee"
	"go-ems/internal/rbac"
	"go-ems/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var demoDepartments = []department.Department{
	{Name: "Engineering", Description: "Software development and infrastructure"},
	{Name: "Human Resources", Description: "People operations"},
	{Name: "Finance", Description: "Accounting and payroll"},
	{Name: "Marketing", Description: "Brand and growth"},
}

var demoIdentities = []struct {
	username string
	role     string
}{
	{"admin", rbac.RoleAdmin},
	{"hr.manager", rbac.RoleHR},
	{"john.doe", rbac.RoleEmployee},
	{"jane.smith", rbac.RoleEmployee},
	{"mike.johnson", rbac.RoleEmployee},
	{"sarah.wilson", rbac.RoleEmployee},
	{"david.brown", rbac.RoleEmployee},
}

// SeedDemoData inserts the demo departments and identities and links
// john.doe to an Engineering employee. Rows that already exist are left
// alone, so it is safe to run on every start.
func SeedDemoData(ctx context.Context, db *gorm.DB, defaultPassword string, logger *zap.Logger) error {
	log := logger.Named("app.seed")

	hash, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		departments := make(map[string]uuid.UUID, len(demoDepartments))
		for _, d := range demoDepartments {
			var row department.Department
			err := tx.Where(department.Department{Name: d.Name}).
				Attrs(department.Department{ID: uuid.New(), Description: d.Description}).
				FirstOrCreate(&row).Error
			if err != nil {
				return err
			}
			departments[row.Name] = row.ID
		}

		users := auth.NewRepository(tx)
		identities := make(map[string]uuid.UUID, len(demoIdentities))
		created := 0
		for _, ident := range demoIdentities {
			existing, err := users.GetByUsername(ctx, ident.username)
			if err == nil {
				identities[ident.username] = existing.ID
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			user := &auth.User{
				ID:           uuid.New(),
				Username:     ident.username,
				PasswordHash: hash,
				Role:         ident.role,
				Enabled:      true,
			}
			if err := users.Create(ctx, user); err != nil {
				return err
			}
			identities[ident.username] = user.ID
			created++
		}

		john := identities["john.doe"]
		engineering := departments["Engineering"]
		var empl employee.Employee
		err := tx.Where(employee.Employee{Email: "john.doe@example.com"}).
			Attrs(employee.Employee{
				ID:           uuid.New(),
				Name:         "John Doe",
				DepartmentID: &engineering,
				Designation:  "Software Engineer",
				BaseSalary:   decimal.NewFromInt(50000),
				JoinDate:     dateutil.StartOfDay(time.Now().UTC()),
				Status:       employee.StatusActive,
				UserID:       &john,
			}).
			FirstOrCreate(&empl).Error
		if err != nil {
			return err
		}

		log.Info("demo data ready",
			zap.Int("departments", len(departments)),
			zap.Int("identities_created", created),
		)
		return nil
	})
}
