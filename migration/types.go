package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultTable records applied versions.
const DefaultTable = "schema_migrations"

var (
	ErrNothingToRevert = errors.New("no migrations to revert")
	ErrUnknownVersion  = errors.New("applied version has no registered migration")
)

type Migration struct {
	Version string
	Name    string
	Up      func(*gorm.DB) error
	Down    func(*gorm.DB) error
}

type MigrationRecord struct {
	Version   string    `gorm:"column:version;primaryKey;size:32"`
	Name      string    `gorm:"column:name;not null;size:255"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (MigrationRecord) TableName() string { return DefaultTable }

// MigrationStatus pairs a registered migration with its applied record, if any.
type MigrationStatus struct {
	Version   string
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

// Observer is notified once per applied ("up") or reverted ("down") migration.
type Observer interface {
	ObserveMigration(direction string)
}

var (
	globalMigrations = make([]*Migration, 0)
	registryMutex    sync.RWMutex
)

func RegisterMigration(migration *Migration) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = append(globalMigrations, migration)
}

func GetRegisteredMigrations() []*Migration {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	migrations := make([]*Migration, len(globalMigrations))
	copy(migrations, globalMigrations)
	return migrations
}

func ResetMigrations() {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	globalMigrations = make([]*Migration, 0)
}

// Validate checks that every migration has a version, a name and both
// directions, and that no version repeats.
func Validate(migrations []*Migration) error {
	seen := make(map[string]string, len(migrations))
	for _, m := range migrations {
		switch {
		case m.Version == "":
			return fmt.Errorf("migration %q has no version", m.Name)
		case m.Name == "":
			return fmt.Errorf("migration %s has no name", m.Version)
		case m.Up == nil || m.Down == nil:
			return fmt.Errorf("migration %s (%s) must define Up and Down", m.Version, m.Name)
		}
		if other, ok := seen[m.Version]; ok {
			return fmt.Errorf("version %s is used by both %q and %q", m.Version, other, m.Name)
		}
		seen[m.Version] = m.Name
	}
	return nil
}

type Option func(*Migrator)

// WithTable overrides the version table name.
func WithTable(name string) Option { return func(m *Migrator) { m.table = name } }

func WithLogger(l *zap.Logger) Option { return func(m *Migrator) { m.logger = l } }

func WithObserver(o Observer) Option { return func(m *Migrator) { m.observer = o } }

func WithClock(now func() time.Time) Option { return func(m *Migrator) { m.now = now } }

// WithMigrations replaces the global registry as the migration source.
func WithMigrations(ms ...*Migration) Option {
	return func(m *Migrator) { m.migrations = append([]*Migration(nil), ms...) }
}

type Migrator struct {
	db         *gorm.DB
	table      string
	migrations []*Migration
	logger     *zap.Logger
	observer   Observer
	now        func() time.Time
}

// NewMigrator runs the registered migrations in version order.
func NewMigrator(db *gorm.DB, opts ...Option) *Migrator {
	m := &Migrator{
		db:         db,
		table:      DefaultTable,
		migrations: GetRegisteredMigrations(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
	return m
}

func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

func (m *Migrator) Migrations() []*Migration {
	return append([]*Migration(nil), m.migrations...)
}

func (m *Migrator) records(db *gorm.DB) *gorm.DB {
	return db.Table(m.table)
}

// Init creates the version table.
func (m *Migrator) Init(ctx context.Context) error {
	if err := m.records(m.db.WithContext(ctx)).AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("create %s: %w", m.table, err)
	}
	return nil
}

func (m *Migrator) GetAppliedVersions(ctx context.Context) (map[string]bool, error) {
	history, err := m.History(ctx)
	if err != nil {
		return nil, err
	}
	versions := make(map[string]bool, len(history))
	for _, record := range history {
		versions[record.Version] = true
	}
	return versions, nil
}

// Pending lists registered migrations not yet applied, in version order.
func (m *Migrator) Pending(ctx context.Context) ([]*Migration, error) {
	applied, err := m.GetAppliedVersions(ctx)
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

// Up applies every pending migration, each in its own transaction, and
// returns the ones applied. It stops at the first failure.
func (m *Migrator) Up(ctx context.Context) ([]*Migration, error) {
	if err := Validate(m.migrations); err != nil {
		return nil, err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return nil, err
	}

	var done []*Migration
	for _, migration := range pending {
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			record := MigrationRecord{
				Version:   migration.Version,
				Name:      migration.Name,
				AppliedAt: m.now().UTC(),
			}
			return m.records(tx).Create(&record).Error
		})
		if err != nil {
			return done, fmt.Errorf("apply %s (%s): %w", migration.Version, migration.Name, err)
		}
		m.logger.Info("migration applied",
			zap.String("version", migration.Version),
			zap.String("name", migration.Name),
		)
		if m.observer != nil {
			m.observer.ObserveMigration("up")
		}
		done = append(done, migration)
	}
	return done, nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) (*Migration, error) {
	history, err := m.History(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNothingToRevert
	}
	last := history[0]

	var target *Migration
	for _, migration := range m.migrations {
		if migration.Version == last.Version {
			target = migration
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, last.Version)
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return err
		}
		return m.records(tx).Where("version = ?", last.Version).Delete(&MigrationRecord{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("revert %s (%s): %w", target.Version, target.Name, err)
	}
	m.logger.Info("migration reverted",
		zap.String("version", target.Version),
		zap.String("name", target.Name),
	)
	if m.observer != nil {
		m.observer.ObserveMigration("down")
	}
	return target, nil
}

// History returns applied records, most recent first.
func (m *Migrator) History(ctx context.Context) ([]MigrationRecord, error) {
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	var records []MigrationRecord
	err := m.records(m.db.WithContext(ctx)).
		Order("applied_at DESC").
		Order("version DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", m.table, err)
	}
	return records, nil
}

// Status reports every registered migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	history, err := m.History(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[string]time.Time, len(history))
	for _, r := range history {
		applied[r.Version] = r.AppliedAt
	}

	out := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		st := MigrationStatus{Version: migration.Version, Name: migration.Name}
		if at, ok := applied[migration.Version]; ok {
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out, nil
}

// ModelRegistry - users must implement this
type ModelRegistry interface {
	GetModels() map[string]interface{}
}

// Global registry - users set this in their main.go
var GlobalModelRegistry ModelRegistry

// Validate that registry is provided
func ValidateRegistry() error {
	if GlobalModelRegistry == nil {
		return fmt.Errorf("no model registry provided. Please implement migration.ModelRegistry and set it in your main.go")
	}
	return nil
}
