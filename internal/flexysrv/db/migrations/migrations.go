// Package migrations defines the versioned schema steps for the control
// database and for tenant databases, and the runner that applies them.
//
// Steps are ordered, contiguous and fixed at startup. The runner applies
// each pending step in its own transaction and reports progress to a
// Recorder after every commit, so an interrupted run resumes from the
// last committed step instead of starting over.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/apperrors"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

// Step is one schema migration. Apply runs inside a transaction owned
// by the runner and must be idempotent: the crash window between a step
// commit and its progress record means a step can run against a
// database that already carries its changes.
type Step struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, tx *sql.Tx) error
}

// Recorder tracks which steps a database has already applied. Highest
// returns 0 for a database with no recorded steps.
type Recorder interface {
	Highest(ctx context.Context) (int, apperrors.Error)
	Record(ctx context.Context, version int) apperrors.Error
}

// Target is the database being migrated. *dbmanager.Pool satisfies it.
type Target interface {
	Name() string
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Runner applies the pending suffix of a step list to one database.
type Runner struct {
	steps    []Step
	recorder Recorder
}

// NewRunner validates that steps are numbered 1..n with no gaps and
// returns a runner over them.
func NewRunner(steps []Step, recorder Recorder) (*Runner, apperrors.Error) {
	for i, step := range steps {
		if step.Version != i+1 {
			return nil, dberror.ErrMigration.Msg(
				fmt.Sprintf("migration list is not contiguous: step %d has version %d", i, step.Version))
		}
		if step.Apply == nil {
			return nil, dberror.ErrMigration.Msg(
				fmt.Sprintf("migration %d (%s) has no apply function", step.Version, step.Name))
		}
	}
	return &Runner{steps: steps, recorder: recorder}, nil
}

// ApplyPending brings target up to the latest defined version. Already
// applied steps are skipped; each remaining step runs in its own
// transaction and is recorded before the next one starts. A database
// recorded beyond the defined list is from a newer build and is never
// touched.
func (r *Runner) ApplyPending(ctx context.Context, target Target) apperrors.Error {
	current, err := r.recorder.Highest(ctx)
	if err != nil {
		return err
	}

	todo, err := pending(r.steps, current)
	if err != nil {
		return err
	}
	if len(todo) == 0 {
		return nil
	}

	conn, cerr := target.Conn(ctx)
	if cerr != nil {
		return dberror.ErrConnection.MsgErr("failed to connect for migration of "+target.Name(), cerr)
	}
	defer conn.Close()

	for _, step := range todo {
		if err := applyStep(ctx, conn, step); err != nil {
			return err
		}
		if err := r.recorder.Record(ctx, step.Version); err != nil {
			return err
		}
		log.Ctx(ctx).Info().
			Str("db", target.Name()).
			Int("version", step.Version).
			Str("name", step.Name).
			Msg("applied migration")
	}
	return nil
}

// Latest returns the highest defined version.
func (r *Runner) Latest() int {
	if len(r.steps) == 0 {
		return 0
	}
	return r.steps[len(r.steps)-1].Version
}

// pending returns the steps after current, or ErrVersionConflict if the
// database reports a version this build does not define.
func pending(steps []Step, current int) ([]Step, apperrors.Error) {
	if current < 0 {
		return nil, dberror.ErrMigration.Msg(fmt.Sprintf("invalid recorded version %d", current))
	}
	highest := 0
	if len(steps) > 0 {
		highest = len(steps)
	}
	if current > highest {
		return nil, dberror.ErrVersionConflict.Msg(
			fmt.Sprintf("database is at version %d but this build only defines up to %d", current, highest))
	}
	return steps[current:], nil
}

// applyStep runs one step in a transaction and inserts the mirror row
// into the target's own schema_migrations inside the same transaction.
func applyStep(ctx context.Context, conn *sql.Conn, step Step) apperrors.Error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return dberror.ErrMigration.MsgErr(
			fmt.Sprintf("failed to begin transaction for migration %d", step.Version), err)
	}
	defer tx.Rollback()

	if err := step.Apply(ctx, tx); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Int("version", step.Version).
			Str("name", step.Name).
			Msg("migration step failed")
		return dberror.ErrMigration.MsgErr(
			fmt.Sprintf("migration %d (%s) failed", step.Version, step.Name), err)
	}

	mirror := `INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`
	if _, err := tx.ExecContext(ctx, mirror, step.Version); err != nil {
		return dberror.ErrMigration.MsgErr(
			fmt.Sprintf("failed to mirror migration %d", step.Version), err)
	}

	if err := tx.Commit(); err != nil {
		return dberror.ErrMigration.MsgErr(
			fmt.Sprintf("failed to commit migration %d", step.Version), err)
	}
	return nil
}

func exec(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
