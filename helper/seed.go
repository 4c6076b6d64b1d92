package helper

import (
	"concierge/internal/domains/staff/model"
	"concierge/internal/domains/staff/repository"
	"concierge/permissions"
	"concierge/shared/constant"
	sharedModel "concierge/shared/model"
	"concierge/shared/password"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DemoPassword is shared by every seeded account.
const DemoPassword = "admin123"

type demoAccount struct {
	email string
	name  string
	role  permissions.Role
}

var demoAccounts = []demoAccount{
	{email: "admin@hotel.com", name: "Admin User", role: permissions.RoleAdmin},
	{email: "electrician@hotel.com", name: "John Electrician", role: permissions.RoleElectrician},
	{email: "plumber@hotel.com", name: "Mike Plumber", role: permissions.RolePlumber},
	{email: "waiter@hotel.com", name: "Sarah Waiter", role: permissions.RoleWaiter},
	{email: "housekeeping@hotel.com", name: "Lisa Housekeeping", role: permissions.RoleHousekeeping},
	{email: "maintenance@hotel.com", name: "Tom Maintenance", role: permissions.RoleMaintenance},
}

// SeedStaff creates the demo staff accounts that are missing. Existing accounts
// are left alone so their passwords and status survive a re-run.
func SeedStaff(ctx context.Context, repo repository.Staff) (created int, err error) {
	for _, account := range demoAccounts {
		existing, err := repo.GetByEmail(ctx, account.email)
		if err != nil {
			return created, fmt.Errorf("failed to look up %s: %w", account.email, err)
		}

		if existing.ID != "" {
			continue
		}

		hash, err := password.HashWithCost(DemoPassword, password.StaffCost)
		if err != nil {
			return created, fmt.Errorf("failed to hash demo password: %w", err)
		}

		staff := model.Staff{
			ID:           uuid.NewString(),
			Email:        account.email,
			Name:         account.name,
			Role:         account.role,
			PasswordHash: hash,
			IsActive:     true,
			Metadata:     sharedModel.NewMetadata(constant.ContextSystem, time.Now()),
		}

		if err = repo.Insert(ctx, staff); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", account.email, err)
		}

		log.Info().Str("email", account.email).Str("role", account.role.String()).Msg("Seeded staff account")

		created++
	}

	return created, nil
}
