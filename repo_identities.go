package accounts

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActivateIdentitySQL consumes the activation key and applies the effect it
// gates in one write: status flip, actived_at stamp, and key fields cleared.
var ActivateIdentitySQL = `UPDATE "identities" AS "idn"
SET
	"status" = ?,
	"actived_at" = ?,
	"active_key" = NULL,
	"active_expire" = NULL
WHERE
	"idn"."deleted_at" IS NULL
AND (
	"idn"."id" = ?
)
AND (
	"idn"."active_key" = ?
) RETURNING *;`

type Identities interface {
	repository.Repository[*Identity]

	GetByEmail(ctx context.Context, email string) (*Identity, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Identity, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	EmailExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error)

	Create(ctx context.Context, record *Identity, criteria ...repository.InsertCriteria) (*Identity, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Identity, criteria ...repository.InsertCriteria) (*Identity, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Identity, error)
	UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status Status) (*Identity, error)

	Activate(ctx context.Context, id uuid.UUID, key string) error
	ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key string) error

	Archive(ctx context.Context, actor ActorRef, identity *Identity) (*Identity, error)

	FindAndCount(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Identity, int, error)
}

type identities struct {
	repository.Repository[*Identity]
	db                  *bun.DB
	stateMachine        *IdentityStateMachine
	stateMachineOptions []StateMachineOption
}

var (
	_ Identities                       = (*identities)(nil)
	_ repository.Repository[*Identity] = (*identities)(nil)
)

type IdentitiesOption func(*identities)

// WithIdentitiesStateMachineOptions forwards options to the lazily built
// lifecycle machine.
func WithIdentitiesStateMachineOptions(options ...StateMachineOption) IdentitiesOption {
	return func(r *identities) {
		if len(options) == 0 {
			return
		}
		r.stateMachineOptions = append(r.stateMachineOptions, options...)
		r.stateMachine = nil
	}
}

func NewIdentitiesRepository(db *bun.DB, opts ...IdentitiesOption) Identities {
	repo := repository.NewRepository[*Identity](db, repository.ModelHandlers[*Identity]{
		NewRecord: func() *Identity { return &Identity{} },
		GetID: func(record *Identity) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Identity, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	repoIdentities := &identities{
		Repository: repo,
		db:         db,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repoIdentities)
		}
	}

	return repoIdentities
}

func (r *identities) GetByEmail(ctx context.Context, email string) (*Identity, error) {
	return r.GetByEmailTx(ctx, r.db, email)
}

func (r *identities) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*Identity, error) {
	record := &Identity{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *identities) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.EmailExistsTx(ctx, r.db, email)
}

func (r *identities) EmailExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	return tx.NewSelect().
		Model((*Identity)(nil)).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Exists(ctx)
}

func (r *identities) Create(ctx context.Context, record *Identity, criteria ...repository.InsertCriteria) (*Identity, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *identities) CreateTx(ctx context.Context, tx bun.IDB, record *Identity, criteria ...repository.InsertCriteria) (*Identity, error) {
	prepareIdentityDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *identities) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Identity, error) {
	return r.UpdateStatusTx(ctx, r.db, id, status)
}

func (r *identities) UpdateStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status Status) (*Identity, error) {
	record := &Identity{
		ID:     id,
		Status: status,
	}

	now := time.Now()
	switch status {
	case StatusActive:
		record.ActivedAt = &now
	case StatusArchived:
		record.ArchivedAt = &now
	}

	return r.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
}

func (r *identities) Activate(ctx context.Context, id uuid.UUID, key string) error {
	return r.ActivateTx(ctx, r.db, id, key)
}

func (r *identities) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key string) error {
	now := time.Now()
	res, err := r.Repository.RawTx(ctx, tx, ActivateIdentitySQL, StatusActive, now, id.String(), key)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return ErrDataCannotSave("identity")
	}

	return nil
}

func (r *identities) Archive(ctx context.Context, actor ActorRef, identity *Identity) (*Identity, error) {
	return r.lifecycleMachine().Transition(ctx, actor, identity, StatusArchived)
}

func (r *identities) FindAndCount(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Identity, int, error) {
	var records []*Identity

	q := r.db.NewSelect().Model(&records)
	for _, c := range criteria {
		q.Apply(c)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *identities) lifecycleMachine() *IdentityStateMachine {
	if r.stateMachine == nil {
		r.stateMachine = NewIdentityStateMachine(r, r.stateMachineOptions...)
	}
	return r.stateMachine
}

func prepareIdentityDefaults(record *Identity) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}

	record.EnsureStatus()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
