package migration

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNoAppliedMigrations = errors.New("no applied migrations")
	ErrUnknownMigration    = errors.New("applied migration is not registered")
)

// Migrator applies and rolls back registered migrations, one transaction
// per migration.
type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
}

// NewMigrator creates a Migrator seeded with the global registry
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetRegisteredMigrations(),
	}
}

// Register adds a migration, replacing any registered with the same version
func (m *Migrator) Register(migration *Migration) {
	for i, existing := range m.migrations {
		if existing.Version == migration.Version {
			m.migrations[i] = migration
			return
		}
	}
	m.migrations = append(m.migrations, migration)
	sortMigrations(m.migrations)
}

// Migrations returns the migrations known to m in version order
func (m *Migrator) Migrations() []*Migration {
	out := make([]*Migration, len(m.migrations))
	copy(out, m.migrations)
	return out
}

// Init creates the schema_migrations table if it does not exist
func (m *Migrator) Init() error {
	return m.ensureVersionTable()
}

func (m *Migrator) ensureVersionTable() error {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedVersions returns the set of applied versions
func (m *Migrator) GetAppliedVersions() (map[string]bool, error) {
	records, err := m.History()
	if err != nil {
		return nil, err
	}

	versions := make(map[string]bool, len(records))
	for _, record := range records {
		versions[record.Version] = true
	}
	return versions, nil
}

// History returns the applied migrations, oldest first
func (m *Migrator) History() ([]MigrationRecord, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.Order("version ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	return records, nil
}

// Pending returns the registered migrations that have not been applied
func (m *Migrator) Pending() ([]*Migration, error) {
	applied, err := m.GetAppliedVersions()
	if err != nil {
		return nil, err
	}

	var pending []*Migration
	for _, migration := range m.migrations {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// Up applies every pending migration in version order. It stops at the
// first failure; migrations applied before it stay applied.
func (m *Migrator) Up() ([]*Migration, error) {
	pending, err := m.Pending()
	if err != nil {
		return nil, err
	}

	var applied []*Migration
	for _, migration := range pending {
		if err := m.apply(migration); err != nil {
			return applied, err
		}
		applied = append(applied, migration)
	}
	return applied, nil
}

func (m *Migrator) apply(migration *Migration) error {
	err := m.db.Transaction(func(tx *gorm.DB) error {
		if migration.Up != nil {
			if err := migration.Up(tx); err != nil {
				return err
			}
		}
		record := MigrationRecord{
			Version:   migration.Version,
			Name:      migration.Name,
			AppliedAt: time.Now().UTC(),
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return fmt.Errorf("failed to apply migration %s_%s: %w", migration.Version, migration.Name, err)
	}
	return nil
}

// Down rolls back the most recent applied migration and returns it
func (m *Migrator) Down() (*Migration, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}

	var last MigrationRecord
	err := m.db.Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoAppliedMigrations
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last migration: %w", err)
	}

	var target *Migration
	for _, migration := range m.migrations {
		if migration.Version == last.Version {
			target = migration
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s_%s", ErrUnknownMigration, last.Version, last.Name)
	}

	err = m.db.Transaction(func(tx *gorm.DB) error {
		if target.Down != nil {
			if err := target.Down(tx); err != nil {
				return err
			}
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to roll back migration %s_%s: %w", target.Version, target.Name, err)
	}
	return target, nil
}

// Status lists every registered migration and every applied version, in
// version order.
func (m *Migrator) Status() ([]MigrationStatus, error) {
	records, err := m.History()
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]MigrationRecord, len(records))
	for _, r := range records {
		byVersion[r.Version] = r
	}

	var statuses []MigrationStatus
	seen := make(map[string]bool)
	for _, migration := range m.migrations {
		s := MigrationStatus{Version: migration.Version, Name: migration.Name}
		if r, ok := byVersion[migration.Version]; ok {
			appliedAt := r.AppliedAt
			s.Applied = true
			s.AppliedAt = &appliedAt
		}
		statuses = append(statuses, s)
		seen[migration.Version] = true
	}
	for _, r := range records {
		if seen[r.Version] {
			continue
		}
		appliedAt := r.AppliedAt
		statuses = append(statuses, MigrationStatus{
			Version:   r.Version,
			Name:      r.Name,
			Applied:   true,
			AppliedAt: &appliedAt,
			Missing:   true,
		})
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Version < statuses[j].Version
	})
	return statuses, nil
}
