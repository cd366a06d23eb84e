package accounts

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Identities() Identities
	Credentials() Credentials
	Roles() repository.Repository[*RoleEntry]
}

func NewRolesRepository(db *bun.DB) repository.Repository[*RoleEntry] {
	handlers := repository.ModelHandlers[*RoleEntry]{
		NewRecord: func() *RoleEntry {
			return &RoleEntry{}
		},
		GetID: func(record *RoleEntry) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *RoleEntry, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
	}
	return repository.NewRepository(db, handlers)
}

type mngr struct {
	db          *bun.DB
	identities  Identities
	credentials Credentials
	roles       repository.Repository[*RoleEntry]
}

func NewRepositoryManager(db *bun.DB, opts ...IdentitiesOption) RepositoryManager {
	return &mngr{
		db:          db,
		identities:  NewIdentitiesRepository(db, opts...),
		credentials: NewCredentialsRepository(db),
		roles:       NewRolesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.identities == nil {
		return errors.New("repository identities should be initialized")
	}

	if m.credentials == nil {
		return errors.New("repository credentials should be initialized")
	}

	if m.roles == nil {
		return errors.New("repository roles should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Identities() Identities {
	return m.identities
}

func (m mngr) Credentials() Credentials {
	return m.credentials
}

func (m mngr) Roles() repository.Repository[*RoleEntry] {
	return m.roles
}

// LoadRoleDirectory reads every persisted role entry into a directory for
// rank comparisons. Falls back to built-in levels when the table is empty.
func LoadRoleDirectory(ctx context.Context, db bun.IDB) (*RoleDirectory, error) {
	var entries []*RoleEntry
	if err := db.NewSelect().Model(&entries).Scan(ctx); err != nil {
		return nil, err
	}
	return NewRoleDirectory(entries), nil
}
