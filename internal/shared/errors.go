package shared

import "fmt"

var (
	// Repository errors
	ErrNotFound          = fmt.Errorf("record not found")
	ErrInvalidSortKey    = fmt.Errorf("sort field not allowed")
	ErrInvalidPageParams = fmt.Errorf("invalid pagination parameters")
	ErrNoActor           = fmt.Errorf("no actor available for attribution")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Migration errors
	ErrMigrationFailed  = fmt.Errorf("migration failed")
	ErrSchemaBehindHead = fmt.Errorf("schema is not at head revision")

	// Seed errors
	ErrSeedForbidden = fmt.Errorf("seeding refused in this environment")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
