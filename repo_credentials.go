package accounts

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SetCredentialPasswordSQL replaces the digest and clears any outstanding
// forgot key in the same write.
var SetCredentialPasswordSQL = `UPDATE "credentials" AS "crd"
SET
	"password_hash" = ?,
	"forgot_key" = NULL,
	"forgot_expire" = NULL
WHERE
	"crd"."deleted_at" IS NULL
AND (
	"crd"."id" = ?
) RETURNING *;`

// ConsumeForgotKeySQL is the single-use consumption write: the new digest
// lands and the key fields clear atomically, guarded by the key value so a
// second consumption matches zero rows.
var ConsumeForgotKeySQL = `UPDATE "credentials" AS "crd"
SET
	"password_hash" = ?,
	"forgot_key" = NULL,
	"forgot_expire" = NULL
WHERE
	"crd"."deleted_at" IS NULL
AND (
	"crd"."id" = ?
)
AND (
	"crd"."forgot_key" = ?
) RETURNING *;`

type Credentials interface {
	repository.Repository[*Credential]

	GetByUsername(ctx context.Context, username string) (*Credential, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*Credential, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Credential, error)
	GetAllByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Credential, error)

	Create(ctx context.Context, record *Credential, criteria ...repository.InsertCriteria) (*Credential, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Credential, criteria ...repository.InsertCriteria) (*Credential, error)

	SetForgotKey(ctx context.Context, id uuid.UUID, key string, expire time.Time) error
	SetForgotKeyTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key string, expire time.Time) error

	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	ConsumeForgotKey(ctx context.Context, id uuid.UUID, key, passwordHash string) error
	ConsumeForgotKeyTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key, passwordHash string) error
}

type credentials struct {
	repository.Repository[*Credential]
	db *bun.DB
}

var (
	_ repository.Repository[*Credential] = (*credentials)(nil)
)

func NewCredentialsRepository(db *bun.DB) Credentials {
	repo := repository.NewRepository[*Credential](db, repository.ModelHandlers[*Credential]{
		NewRecord: func() *Credential { return &Credential{} },
		GetID: func(record *Credential) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *Credential, id uuid.UUID) {
			if record != nil {
				record.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &credentials{
		Repository: repo,
		db:         db,
	}
}

func (r *credentials) GetByUsername(ctx context.Context, username string) (*Credential, error) {
	return r.GetByUsernameTx(ctx, r.db, username)
}

func (r *credentials) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*Credential, error) {
	record := &Credential{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", NormalizeEmail(username)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"username": username,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *credentials) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*Credential, error) {
	return r.GetAllByUserTx(ctx, r.db, userID)
}

func (r *credentials) GetAllByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) ([]*Credential, error) {
	var records []*Credential
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *credentials) Create(ctx context.Context, record *Credential, criteria ...repository.InsertCriteria) (*Credential, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *credentials) CreateTx(ctx context.Context, tx bun.IDB, record *Credential, criteria ...repository.InsertCriteria) (*Credential, error) {
	prepareCredentialDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (r *credentials) SetForgotKey(ctx context.Context, id uuid.UUID, key string, expire time.Time) error {
	return r.SetForgotKeyTx(ctx, r.db, id, key, expire)
}

func (r *credentials) SetForgotKeyTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key string, expire time.Time) error {
	record := &Credential{
		ID:           id,
		ForgotKey:    key,
		ForgotExpire: &expire,
	}

	_, err := r.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))

	return err
}

func (r *credentials) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.SetPasswordTx(ctx, r.db, id, passwordHash)
}

func (r *credentials) SetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := r.Repository.RawTx(ctx, tx, SetCredentialPasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (r *credentials) ConsumeForgotKey(ctx context.Context, id uuid.UUID, key, passwordHash string) error {
	return r.ConsumeForgotKeyTx(ctx, r.db, id, key, passwordHash)
}

func (r *credentials) ConsumeForgotKeyTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key, passwordHash string) error {
	res, err := r.Repository.RawTx(ctx, tx, ConsumeForgotKeySQL, passwordHash, id.String(), key)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return ErrParamNotExists("forgot key")
	}

	return nil
}

func prepareCredentialDefaults(record *Credential) {
	if record == nil {
		return
	}

	if record.Type == "" {
		record.Type = CredentialTypePersonalEmail
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
