package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// provisionAccount is the shared core of both provisioning paths: duplicate
// checks run first and leave no trace on failure, then a single transaction
// scope writes the identity and its credential as one unit. The password is
// validated and hashed before the scope opens so a bad input never touches
// storage.
//
// The duplicate checks are check-then-act: two concurrent calls for the same
// email can both pass them. The unique constraints on identities.email and
// credentials.username are the storage backstop for that race.
func provisionAccount(ctx context.Context, repo RepositoryManager, identity *Identity, plaintext string) (*Identity, *Credential, error) {
	hash, err := HashPassword(plaintext)
	if err != nil {
		return nil, nil, err
	}

	exists, err := repo.Identities().EmailExists(ctx, identity.Email)
	if err != nil {
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing identity")
	}
	if exists {
		return nil, nil, ErrParamExisted("email")
	}

	// a credential with no surviving identity means a previously
	// half-provisioned account; refuse rather than overwrite
	if _, err := repo.Credentials().GetByUsername(ctx, identity.Email); err == nil {
		return nil, nil, ErrParamExisted("email")
	} else if !repository.IsRecordNotFound(err) {
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing credential")
	}

	var credential *Credential

	err = repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := repo.Identities().CreateTx(ctx, tx, identity)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create identity")
		}
		if created == nil || created.ID == uuid.Nil {
			return ErrDataCannotSave("identity")
		}
		identity = created

		record := &Credential{
			UserID:       created.ID,
			Type:         CredentialTypePersonalEmail,
			Username:     created.Email,
			PasswordHash: hash,
		}

		credential, err = repo.Credentials().CreateTx(ctx, tx, record)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create credential")
		}
		if credential == nil || credential.ID == uuid.Nil {
			return ErrDataCannotSave("credential")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, nil, richErr
		}
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account provisioning transaction failed")
	}

	return identity, credential, nil
}
