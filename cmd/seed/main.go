// Package main provides a CLI tool for seeding the database with initial data:
// the permission catalog, the built-in roles, the admin user, and optionally
// a handful of demo materials.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/auth"
	"stockroom/internal/domain/material"
	"stockroom/internal/infrastructure/storage/postgres"
	"stockroom/internal/infrastructure/storage/postgres/auth_repo"
	"stockroom/internal/infrastructure/storage/postgres/catalog_repo"
	"stockroom/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	userRepo := auth_repo.NewUserRepo(txManager)
	roleRepo := auth_repo.NewRoleRepo(txManager)
	permRepo := auth_repo.NewPermissionRepo(txManager)

	if err := seedPermissions(ctx, permRepo, log); err != nil {
		log.Fatalw("failed to seed permissions", "error", err)
	}

	if err := seedRoles(ctx, roleRepo, permRepo, log); err != nil {
		log.Fatalw("failed to seed roles", "error", err)
	}

	if err := seedAdminUser(ctx, userRepo, roleRepo, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoMaterials(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo materials", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedPermissions upserts the full permission catalog. Re-running refreshes
// names without touching grants.
func seedPermissions(ctx context.Context, permRepo auth.PermissionRepository, log *logger.Logger) error {
	for _, def := range auth.PermissionCatalog() {
		resource, action, _ := strings.Cut(def.Code, ":")
		perm := &auth.Permission{
			ID:       id.New(),
			Code:     def.Code,
			Name:     def.Name,
			Resource: resource,
			Action:   action,
		}
		if err := permRepo.Upsert(ctx, perm); err != nil {
			return fmt.Errorf("upsert permission %s: %w", def.Code, err)
		}
	}

	log.Infow("permission catalog seeded", "count", len(auth.PermissionCatalog()))
	return nil
}

// roleSeed describes one built-in role and its grants.
type roleSeed struct {
	code        string
	name        string
	description string
	permissions []string
}

func builtinRoles() []roleSeed {
	viewPerms := []string{
		auth.PermMaterialView,
		auth.PermStockQueryView,
		auth.PermStockInView,
		auth.PermStockOutView,
		auth.PermWarningView,
		auth.PermStocktakeView,
		auth.PermStatisticsView,
		auth.PermMonthlyReportView,
	}

	keeperPerms := append([]string{
		auth.PermMaterialCreate,
		auth.PermMaterialUpdate,
		auth.PermMaterialDelete,
		auth.PermStockInCreate,
		auth.PermStockInUpdate,
		auth.PermStockInDelete,
		auth.PermStockOutCreate,
		auth.PermStockOutUpdate,
		auth.PermStockOutDelete,
		auth.PermWarningCheck,
		auth.PermStocktakeCreate,
		auth.PermStocktakeSubmit,
		auth.PermStocktakeComplete,
		auth.PermStocktakeCancel,
	}, viewPerms...)

	allPerms := make([]string, 0, len(auth.PermissionCatalog()))
	for _, def := range auth.PermissionCatalog() {
		allPerms = append(allPerms, def.Code)
	}

	return []roleSeed{
		{"admin", "Administrator", "Full access to everything", allPerms},
		{"warehouse_keeper", "Warehouse keeper", "Manages materials, movements and stocktakes", keeperPerms},
		{auth.DefaultRoleCode, "Viewer", "Read-only access", viewPerms},
	}
}

// seedRoles creates the built-in roles and refreshes their permission grants.
func seedRoles(ctx context.Context, roleRepo auth.RoleRepository, permRepo auth.PermissionRepository, log *logger.Logger) error {
	for _, seed := range builtinRoles() {
		role, err := roleRepo.GetByCode(ctx, seed.code)
		if apperror.IsNotFound(err) {
			role = auth.NewRole(seed.code, seed.name)
			role.Description = seed.description
			role.IsSystem = true
			if err := roleRepo.Create(ctx, role); err != nil {
				return fmt.Errorf("create role %s: %w", seed.code, err)
			}
		} else if err != nil {
			return fmt.Errorf("get role %s: %w", seed.code, err)
		}

		for _, permCode := range seed.permissions {
			perm, err := permRepo.GetByCode(ctx, permCode)
			if err != nil {
				return fmt.Errorf("lookup permission %s: %w", permCode, err)
			}
			if err := roleRepo.AssignPermission(ctx, role.ID, perm.ID); err != nil {
				return fmt.Errorf("grant %s to %s: %w", permCode, seed.code, err)
			}
		}

		log.Infow("role seeded", "code", seed.code, "permissions", len(seed.permissions))
	}

	return nil
}

func seedAdminUser(ctx context.Context, userRepo auth.UserRepository, roleRepo auth.RoleRepository, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@stockroom.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	existing, err := userRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existing.ID)
		return nil
	}
	if !apperror.IsNotFound(err) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(adminEmail, string(passwordHash))
	admin.FirstName = "System"
	admin.LastName = "Admin"
	admin.IsAdmin = true

	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	adminRole, err := roleRepo.GetByCode(ctx, "admin")
	if err != nil {
		return fmt.Errorf("lookup admin role: %w", err)
	}
	if err := userRepo.AssignRole(ctx, admin.ID, adminRole.ID, id.ID{}); err != nil {
		log.Warnw("failed to assign admin role", "error", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", admin.ID)
	return nil
}

// seedDemoMaterials inserts a handful of materials to play with. Goes through
// the material service so validation and code checks apply.
func seedDemoMaterials(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	log.Info("seeding demo materials...")

	service := material.NewService(catalog_repo.NewMaterialRepo(txManager), txManager)

	demos := []struct {
		code      string
		name      string
		spec      string
		unit      string
		category  string
		supplier  string
		minStock  int64
		maxStock  int64
		unitPrice string
	}{
		{"MAT-00001", "A4 copy paper", "80gsm, 500 sheets", "pack", "office", "Paper Plus Ltd", 20, 500, "4.50"},
		{"MAT-00002", "Ballpoint pen, blue", "0.7mm", "pcs", "office", "Write Right Co", 50, 2000, "0.35"},
		{"MAT-00003", "Desktop stapler", "up to 25 sheets", "pcs", "office", "Write Right Co", 5, 100, "6.20"},
		{"MAT-00004", "Steel bolt M8x40", "DIN 933, zinc plated", "pcs", "hardware", "FastFix Supply", 200, 10000, "0.08"},
		{"MAT-00005", "Nitrile gloves", "size L, box of 100", "box", "safety", "SafeHands Inc", 10, 300, "9.90"},
		{"MAT-00006", "Packing tape", "48mm x 66m, clear", "roll", "packaging", "", 30, 0, "1.15"},
	}

	for _, d := range demos {
		if _, err := service.GetByCode(ctx, d.code); err == nil {
			continue
		} else if !apperror.IsNotFound(err) {
			log.Warnw("failed to check material", "code", d.code, "error", err)
			continue
		}

		m := material.NewMaterial(d.code, d.name, d.unit)
		if d.spec != "" {
			m.Spec = &d.spec
		}
		if d.category != "" {
			m.Category = &d.category
		}
		if d.supplier != "" {
			m.Supplier = &d.supplier
		}
		m.MinStock = d.minStock
		m.MaxStock = d.maxStock
		m.UnitPrice = types.MustMoney(d.unitPrice)

		if err := service.Create(ctx, m); err != nil {
			log.Warnw("failed to seed material", "code", d.code, "error", err)
		}
	}

	log.Info("demo materials seeded")
	return nil
}
