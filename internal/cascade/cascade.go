// Package cascade removes a user together with everything that references it.
//
// The deletion order is data: a list of steps, each naming the rows it
// touches and what happens to them. Run executes the list in order on one
// transaction-bound store, so a failing step leaves nothing behind.
package cascade

import (
	"context"
	"fmt"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/leaver"
	"github.com/inkwell-dev/inkwell/internal/likes"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
)

type Action int

const (
	// Unlike drops every like edge the user holds on Target
	Unlike Action = iota
	// Reassign hands Ownership rows to the leaver
	Reassign
	// Delete removes rows of Model whose Column equals the user id
	Delete
)

func (a Action) String() string {
	switch a {
	case Unlike:
		return "unlike"
	case Reassign:
		return "reassign"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

type Step struct {
	Name   string
	Action Action

	Target    likes.Target     // Unlike
	Ownership leaver.Ownership // Reassign
	Model     interface{}      // Delete
	Column    string           // Delete
}

// UserDeletion is the order in which a user's dependents are unwound. Likes
// go first so no edge points at the user, authored content is reassigned
// before the user row disappears, and the user row is removed last.
var UserDeletion = []Step{
	{Name: "document likes", Action: Unlike, Target: likes.Document},
	{Name: "comment likes", Action: Unlike, Target: likes.Comment},
	{Name: "documents", Action: Reassign, Ownership: leaver.Documents},
	{Name: "comments", Action: Reassign, Ownership: leaver.Comments},
	{Name: "files", Action: Delete, Model: &models.File{}, Column: "user_id"},
	{Name: "authentication tokens", Action: Delete, Model: &models.AuthenticationToken{}, Column: "user_id"},
	{Name: "user", Action: Delete, Model: &models.User{}, Column: "id"},
}

// Result summarises a finished cascade
type Result struct {
	UserID uint
	// Rows touched per step name
	Affected map[string]int64
	// Storage paths of deleted files, to be removed once the transaction commits
	FilePaths []string
}

type Orchestrator struct {
	steps    []Step
	sentinel leaver.Sentinel
	log      *zap.Logger
}

func NewOrchestrator(steps []Step, sentinel leaver.Sentinel, log *zap.Logger) *Orchestrator {
	return &Orchestrator{steps: steps, sentinel: sentinel, log: log}
}

// Run deletes userID following the configured steps. tx must be bound to a
// transaction owned by the caller.
func (o *Orchestrator) Run(ctx context.Context, tx *store.Store, userID uint) (*Result, error) {
	if o.sentinel.Is(userID) {
		return nil, apperrors.InvariantViolation("the leaver account cannot be deleted")
	}

	if _, err := tx.FindUser(ctx, userID); err != nil {
		return nil, err
	}

	paths, err := tx.FilePathsOwnedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		UserID:    userID,
		Affected:  make(map[string]int64, len(o.steps)),
		FilePaths: paths,
	}

	for _, step := range o.steps {
		affected, err := o.runStep(ctx, tx, step, userID)
		if err != nil {
			o.log.Warn("Cascade step failed",
				zap.Uint("user_id", userID),
				zap.String("step", step.Name),
				zap.Stringer("action", step.Action),
				zap.Error(err),
			)
			return nil, err
		}

		result.Affected[step.Name] = affected
		o.log.Debug("Cascade step done",
			zap.Uint("user_id", userID),
			zap.String("step", step.Name),
			zap.Int64("affected", affected),
		)
	}

	return result, nil
}

func (o *Orchestrator) runStep(ctx context.Context, tx *store.Store, step Step, userID uint) (int64, error) {
	switch step.Action {
	case Unlike:
		return likes.UnlinkUser(ctx, tx, step.Target, userID)
	case Reassign:
		return o.sentinel.ReassignAll(ctx, tx, step.Ownership, userID)
	case Delete:
		return tx.DeleteWhere(ctx, step.Model, step.Column, userID)
	default:
		return 0, fmt.Errorf("unknown cascade action %s", step.Action)
	}
}
