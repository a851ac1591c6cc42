package integrity

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Observer receives a notification for every referential action the executor performs.
type Observer interface {
	ObserveAction(rel Relation, affected int64)
	ObserveBlocked(rel Relation)
}

// ExecutorConfig wires the executor's collaborators. Zero values fall back to
// the package rule table, time.Now and a no-op logger.
type ExecutorConfig struct {
	Relations []Relation
	Now       func() time.Time
	Logger    *zap.Logger
	Observer  Observer
}

// Executor applies a rule table to a parent delete inside the caller's transaction.
// It never opens a transaction of its own: every call must be given the *gorm.DB
// of the unit of work that performs the triggering write.
type Executor struct {
	relations []Relation
	now       func() time.Time
	logger    *zap.Logger
	observer  Observer
}

// NewExecutor builds an executor from cfg.
func NewExecutor(cfg ExecutorConfig) *Executor {
	e := &Executor{
		relations: cfg.Relations,
		now:       cfg.Now,
		logger:    cfg.Logger,
		observer:  cfg.Observer,
	}
	if e.relations == nil {
		e.relations = Relations
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Rules returns the relation table the executor enforces.
func (e *Executor) Rules() []Relation {
	return e.relations
}

// Delete removes the row table.id after releasing every dependent relation.
func (e *Executor) Delete(tx *gorm.DB, table string, id uint) error {
	exists, err := rowExists(tx, table, id)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Entity: table, ID: id}
	}

	if err := e.Release(tx, table, id); err != nil {
		return err
	}

	if err := tx.Exec("DELETE FROM ? WHERE id = ?", clause.Table{Name: table}, id).Error; err != nil {
		if rie := e.foreignKeyViolation(table, id, err); rie != nil {
			return rie
		}
		return fmt.Errorf("delete %s %d: %w", table, id, err)
	}
	return nil
}

// foreignKeyViolation maps a constraint the database enforced itself, such as
// a dependent row inserted after Release ran, onto the restrict error.
func (e *Executor) foreignKeyViolation(table string, id uint, err error) *ReferentialIntegrityError {
	var pgErr *pgconn.PgError
	isPg := errors.As(err, &pgErr) && pgErr.Code == "23503"
	if !isPg && !errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil
	}

	rel := Relation{Parent: table}
	if isPg {
		rel.Name, rel.Child = pgErr.ConstraintName, pgErr.TableName
		for _, dep := range DependentsOf(e.relations, table) {
			if dep.Child == pgErr.TableName {
				rel = dep
				break
			}
		}
	}
	e.logger.Info("delete blocked by database constraint",
		zap.String("parent", table),
		zap.Uint("parent_id", id),
		zap.String("child", rel.Child),
	)
	if e.observer != nil {
		e.observer.ObserveBlocked(rel)
	}
	return &ReferentialIntegrityError{Relation: rel, ParentID: id}
}

// Release applies the delete policy of every relation pointing at table.id
// without removing the row itself. Restrict relations on table are checked
// before any of its dependents are written. Cascades recurse depth-first so
// grandchildren are released before their parents disappear; a restrict found
// deeper down returns after sibling writes, so callers run Release inside a
// transaction that is rolled back on error.
func (e *Executor) Release(tx *gorm.DB, table string, id uint) error {
	deps := DependentsOf(e.relations, table)

	for _, rel := range deps {
		if rel.OnDelete != Restrict {
			continue
		}
		var count int64
		if err := tx.Table(rel.Child).Where(fkEquals(rel, id)).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s.%s: %w", rel.Child, rel.Column, err)
		}
		if count > 0 {
			e.logger.Info("delete blocked by restrict relation",
				zap.String("relation", rel.Name),
				zap.String("parent", table),
				zap.Uint("parent_id", id),
				zap.Int64("dependents", count),
			)
			if e.observer != nil {
				e.observer.ObserveBlocked(rel)
			}
			return &ReferentialIntegrityError{Relation: rel, ParentID: id, Dependents: count}
		}
	}

	for _, rel := range deps {
		if rel.OnDelete != Cascade {
			continue
		}
		var childIDs []uint
		if err := tx.Table(rel.Child).Where(fkEquals(rel, id)).Order("id").Pluck("id", &childIDs).Error; err != nil {
			return fmt.Errorf("select %s.%s: %w", rel.Child, rel.Column, err)
		}
		for _, childID := range childIDs {
			if err := e.Release(tx, rel.Child, childID); err != nil {
				return err
			}
		}
		res := tx.Exec("DELETE FROM ? WHERE ? = ?", clause.Table{Name: rel.Child}, clause.Column{Name: rel.Column}, id)
		if res.Error != nil {
			return fmt.Errorf("cascade %s: %w", rel.Name, res.Error)
		}
		e.logger.Debug("cascade delete",
			zap.String("relation", rel.Name),
			zap.Uint("parent_id", id),
			zap.Int64("rows", res.RowsAffected),
		)
		e.observe(rel, res.RowsAffected)
	}

	for _, rel := range deps {
		if rel.OnDelete != SetNull {
			continue
		}
		values := map[string]any{rel.Column: nil}
		if HasUpdatedAt(rel.Child) {
			values["updated_at"] = e.now()
		}
		res := tx.Table(rel.Child).Where(fkEquals(rel, id)).Updates(values)
		if res.Error != nil {
			return fmt.Errorf("set null %s: %w", rel.Name, res.Error)
		}
		e.logger.Debug("set null",
			zap.String("relation", rel.Name),
			zap.Uint("parent_id", id),
			zap.Int64("rows", res.RowsAffected),
		)
		e.observe(rel, res.RowsAffected)
	}

	return nil
}

// RequireParent fails with a ValidationError when a foreign key on a write
// points at a parent row that does not exist.
func (e *Executor) RequireParent(tx *gorm.DB, rel Relation, id uint) error {
	exists, err := rowExists(tx, rel.Parent, id)
	if err != nil {
		return err
	}
	if !exists {
		return &ValidationError{
			Entity: rel.Child,
			Field:  rel.Field,
			Reason: fmt.Sprintf("references missing %s row %d", rel.Parent, id),
		}
	}
	return nil
}

func (e *Executor) observe(rel Relation, affected int64) {
	if e.observer != nil && affected > 0 {
		e.observer.ObserveAction(rel, affected)
	}
}

func fkEquals(rel Relation, id uint) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: rel.Column}, Value: id}
}

func rowExists(tx *gorm.DB, table string, id uint) (bool, error) {
	var count int64
	if err := tx.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup %s %d: %w", table, id, err)
	}
	return count > 0, nil
}
