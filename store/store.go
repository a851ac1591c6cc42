package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/beesaferoot/casadf-schema/integrity"
	"github.com/beesaferoot/casadf-schema/models"
)

// Observer receives store and integrity events. *metrics.Metrics implements it.
type Observer interface {
	integrity.Observer
	ObserveOperation(entity, op, outcome string, elapsed time.Duration)
}

// Store performs every create, read, update and delete of the CasaDF
// schema. Each write is one transaction covering validation, uniqueness,
// referential actions and the row change itself.
type Store struct {
	db         *gorm.DB
	clock      Clock
	seq        Sequencer
	sessionIDs func() string
	logger     *zap.Logger
	observer   Observer
	exec       *integrity.Executor
}

type Option func(*Store)

func WithClock(c Clock) Option { return func(s *Store) { s.clock = c } }

func WithSequencer(q Sequencer) Option { return func(s *Store) { s.seq = q } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

func WithObserver(o Observer) Option { return func(s *Store) { s.observer = o } }

// WithSessionIDs overrides the generator used for insight sessions.
func WithSessionIDs(fn func() string) Option { return func(s *Store) { s.sessionIDs = fn } }

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:         db,
		clock:      ClockFunc(time.Now),
		seq:        EngineSequencer,
		sessionIDs: uuid.NewString,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	cfg := integrity.ExecutorConfig{
		Now:    s.now,
		Logger: s.logger.Named("integrity"),
	}
	if s.observer != nil {
		cfg.Observer = s.observer
	}
	s.exec = integrity.NewExecutor(cfg)
	return s
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB { return s.db }

// now truncates to microseconds, the resolution of a timestamptz column.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

func (s *Store) run(ctx context.Context, entity, op string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(fn)
	s.observe(entity, op, start, err)
	return err
}

func (s *Store) observe(entity, op string, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveOperation(entity, op, outcome(err), time.Since(start))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, integrity.ErrValidation):
		return "invalid"
	case errors.Is(err, integrity.ErrUniqueViolation):
		return "duplicate"
	case errors.Is(err, integrity.ErrReferentialIntegrity):
		return "restricted"
	case errors.Is(err, integrity.ErrNotFound):
		return "not_found"
	}
	return "error"
}

// prepare normalizes and checks e against the state visible to tx. Column
// defaults are the caller's job: they apply on create only.
func (s *Store) prepare(tx *gorm.DB, e models.Entity, self uint) error {
	e.Normalize()
	if err := models.Validate(e); err != nil {
		return err
	}
	if err := s.checkReferences(tx, e); err != nil {
		return err
	}
	return s.checkUnique(tx, e, self)
}

func (s *Store) checkReferences(tx *gorm.DB, e models.Entity) error {
	for _, ref := range e.References() {
		if ref.ID == nil {
			continue
		}
		rel, ok := integrity.Lookup(s.exec.Rules(), e.TableName(), ref.Column)
		if !ok {
			return fmt.Errorf("no relation declared for %s.%s", e.TableName(), ref.Column)
		}
		if err := s.exec.RequireParent(tx, rel, *ref.ID); err != nil {
			return err
		}
	}
	return nil
}

// checkUnique rejects a key already held by a live row other than self.
func (s *Store) checkUnique(tx *gorm.DB, e models.Entity, self uint) error {
	for _, key := range e.UniqueKeys() {
		q := tx.Table(e.TableName()).Where(clause.Eq{Column: clause.Column{Name: key.Column}, Value: key.Value})
		if self != 0 {
			q = q.Where("id <> ?", self)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("check %s.%s: %w", e.TableName(), key.Column, err)
		}
		if count > 0 {
			return &integrity.UniqueConstraintViolation{
				Entity: e.TableName(),
				Field:  key.Field,
				Value:  fmt.Sprint(key.Value),
			}
		}
	}
	return nil
}

func create(ctx context.Context, s *Store, e models.Entity) error {
	return s.run(ctx, e.TableName(), "create", func(tx *gorm.DB) error {
		e.Normalize()
		e.ApplyDefaults()
		if err := s.prepare(tx, e, 0); err != nil {
			return err
		}
		id, err := s.seq.Next(tx, e.TableName())
		if err != nil {
			return err
		}
		e.Assign(id, s.now())
		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return translateWrite(e, err)
		}
		return nil
	})
}

func get[T any, PT interface {
	*T
	models.Entity
}](ctx context.Context, s *Store, id uint) (*T, error) {
	start := time.Now()
	rec := PT(new(T))
	err := first(s.db.WithContext(ctx), rec, id)
	s.observe(rec.TableName(), "get", start, err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// getBy looks a row up by a natural key column.
func getBy[T any, PT interface {
	*T
	models.Entity
}](ctx context.Context, s *Store, column, value string) (*T, error) {
	start := time.Now()
	rec := PT(new(T))
	err := s.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = &integrity.NotFoundError{Entity: rec.TableName(), Key: value}
	} else if err != nil {
		err = fmt.Errorf("get %s by %s: %w", rec.TableName(), column, err)
	}
	s.observe(rec.TableName(), "get", start, err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func first(db *gorm.DB, rec models.Entity, id uint) error {
	err := db.Where("id = ?", id).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &integrity.NotFoundError{Entity: rec.TableName(), ID: id}
	}
	if err != nil {
		return fmt.Errorf("get %s %d: %w", rec.TableName(), id, err)
	}
	return nil
}

// update rewrites every column of rec. Identity and creation time are taken
// from the stored row; the update time is refreshed from the clock.
func update[T any, PT interface {
	*T
	models.Mutable
}](ctx context.Context, s *Store, rec PT, check func(tx *gorm.DB, prev PT) error) error {
	return s.run(ctx, rec.TableName(), "update", func(tx *gorm.DB) error {
		prev := PT(new(T))
		if err := first(tx, prev, rec.Key()); err != nil {
			return err
		}
		if err := s.prepare(tx, rec, rec.Key()); err != nil {
			return err
		}
		if check != nil {
			if err := check(tx, prev); err != nil {
				return err
			}
		}

		base, was := rec.Base(), prev.Base()
		base.CreatedAt = was.CreatedAt
		base.UpdatedAt = was.UpdatedAt
		base.Touch(s.now())

		if err := tx.Model(rec).Omit(clause.Associations).Select("*").Updates(rec).Error; err != nil {
			return translateWrite(rec, err)
		}
		return nil
	})
}

func (s *Store) remove(ctx context.Context, table string, id uint) error {
	return s.run(ctx, table, "delete", func(tx *gorm.DB) error {
		return s.exec.Delete(tx, table, id)
	})
}

func translateWrite(e models.Entity, err error) error {
	var code string
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code = pgErr.Code
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || code == "23505" {
		v := &integrity.UniqueConstraintViolation{Entity: e.TableName(), Field: "unique key"}
		if keys := e.UniqueKeys(); len(keys) == 1 {
			v.Field = keys[0].Field
			v.Value = fmt.Sprint(keys[0].Value)
		}
		return v
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || code == "23503" {
		return &integrity.ValidationError{Entity: e.TableName(), Field: "reference", Reason: "references a missing row"}
	}
	return fmt.Errorf("write %s: %w", e.TableName(), err)
}
