package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestCreateAccountHandlerRequiresTopAuthority(t *testing.T) {
	repo := &MockRepositoryManager{}
	handler := accounts.NewCreateAccountHandler(repo).WithLogger(testLogger{})

	for _, role := range []accounts.Role{accounts.RoleUser, accounts.RoleClient, accounts.RoleManager, ""} {
		err := handler.Execute(context.Background(), accounts.CreateAccountMessage{
			ActorRole: role,
			Role:      accounts.RoleClient,
			FirstName: "Carl",
			Email:     "carl@example.com",
			Password:  "securePassword123!",
		})
		require.Error(t, err, "role %q should be rejected", role)
		assert.True(t, accounts.IsAccessDenied(err))
	}

	repo.AssertNotCalled(t, "Identities")
	repo.AssertNotCalled(t, "RunInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAccountHandlerProvisionsActiveIdentity(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepositoryManager{}
	identities := &MockIdentities{}
	credentials := &MockCredentials{}
	sink := &MockActivitySink{}

	repo.On("Identities").Return(identities)
	repo.On("Credentials").Return(credentials)

	expectedID, err := hashid.NewUUID("carl@example.com")
	require.NoError(t, err)

	identities.On("EmailExists", mock.Anything, "carl@example.com").
		Return(false, nil).Once()
	credentials.On("GetByUsername", mock.Anything, "carl@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	identities.On("CreateTx", mock.Anything, mock.Anything, mock.MatchedBy(func(record *accounts.Identity) bool {
		return record.Status == accounts.StatusActive &&
			record.Role == accounts.RoleClient &&
			record.ActiveKey == "" &&
			record.ID == expectedID
	})).Return(&accounts.Identity{
		ID:     expectedID,
		Status: accounts.StatusActive,
		Role:   accounts.RoleClient,
		Email:  "carl@example.com",
	}, nil).Once()

	credentials.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(&accounts.Credential{ID: uuid.New(), UserID: expectedID}, nil).Once()

	repo.On("RunInTx", mock.Anything, (*sql.TxOptions)(nil), mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			fn := args.Get(2).(func(context.Context, bun.Tx) error)
			var tx bun.Tx
			require.NoError(t, fn(args.Get(0).(context.Context), tx))
		}).Once()

	sink.On("Record", mock.Anything, mock.MatchedBy(func(evt accounts.ActivityEvent) bool {
		return evt.EventType == accounts.ActivityEventAccountProvisioned &&
			evt.UserID == expectedID.String() &&
			evt.ToStatus == accounts.StatusActive &&
			evt.Actor.Type == accounts.RoleAdmin
	})).Return(nil).Once()

	handler := accounts.NewCreateAccountHandler(repo).
		WithActivitySink(sink).
		WithLogger(testLogger{})

	var resp *accounts.CreateAccountResponse
	err = handler.Execute(ctx, accounts.CreateAccountMessage{
		ActorRole: accounts.RoleAdmin,
		Role:      accounts.RoleClient,
		FirstName: "Carl",
		Email:     "carl@example.com",
		Password:  "securePassword123!",
		UseHashid: true,
		OnResponse: func(r *accounts.CreateAccountResponse) {
			resp = r
		},
	})
	require.NoError(t, err)

	require.NotNil(t, resp)
	assert.Equal(t, expectedID, resp.Identity.ID)

	repo.AssertExpectations(t)
	identities.AssertExpectations(t)
	credentials.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestCreateAccountHandlerRejectsUnknownRole(t *testing.T) {
	repo := &MockRepositoryManager{}
	handler := accounts.NewCreateAccountHandler(repo).WithLogger(testLogger{})

	err := handler.Execute(context.Background(), accounts.CreateAccountMessage{
		ActorRole: accounts.RoleAdmin,
		Role:      "owner",
		FirstName: "Carl",
		Email:     "carl@example.com",
		Password:  "securePassword123!",
	})
	require.Error(t, err)
	assert.True(t, accounts.IsParamEnum(err))
	assert.Equal(t, "role", accounts.ErrFieldValue(err))
}
