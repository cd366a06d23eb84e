package accounts_test

import (
	"context"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func unverifiedIdentity(key string, expire time.Time) *accounts.Identity {
	return &accounts.Identity{
		ID:           uuid.New(),
		Status:       accounts.StatusUnverified,
		Email:        "jane@example.com",
		ActiveKey:    key,
		ActiveExpire: &expire,
	}
}

func TestActivateAccountHandlerSuccess(t *testing.T) {
	repo := &MockRepositoryManager{}
	identities := &MockIdentities{}
	sink := &MockActivitySink{}

	identity := unverifiedIdentity("the-key", time.Now().Add(time.Hour))

	repo.On("Identities").Return(identities)
	identities.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(identity, nil).Once()
	identities.On("Activate", mock.Anything, identity.ID, "the-key").
		Return(nil).Once()

	sink.On("Record", mock.Anything, mock.MatchedBy(func(evt accounts.ActivityEvent) bool {
		return evt.EventType == accounts.ActivityEventAccountActivated &&
			evt.UserID == identity.ID.String() &&
			evt.FromStatus == accounts.StatusUnverified &&
			evt.ToStatus == accounts.StatusActive
	})).Return(nil).Once()

	handler := accounts.NewActivateAccountHandler(repo).
		WithActivitySink(sink).
		WithLogger(testLogger{})

	var resp *accounts.ActivateAccountResponse
	err := handler.Execute(context.Background(), accounts.ActivateAccountMessage{
		Email: "jane@example.com",
		Key:   "the-key",
		OnResponse: func(r *accounts.ActivateAccountResponse) {
			resp = r
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)

	repo.AssertExpectations(t)
	identities.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestActivateAccountHandlerUnknownEmail(t *testing.T) {
	repo := &MockRepositoryManager{}
	identities := &MockIdentities{}

	repo.On("Identities").Return(identities)
	identities.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	handler := accounts.NewActivateAccountHandler(repo).WithLogger(testLogger{})

	err := handler.Execute(context.Background(), accounts.ActivateAccountMessage{
		Email: "ghost@example.com",
		Key:   "any",
	})
	require.Error(t, err)
	assert.True(t, accounts.IsDataNotFound(err))
}

func TestActivateAccountHandlerKeyLadder(t *testing.T) {
	tests := []struct {
		name     string
		identity *accounts.Identity
		key      string
		check    func(error) bool
	}{
		{
			name: "no key on file",
			identity: &accounts.Identity{
				ID:     uuid.New(),
				Status: accounts.StatusUnverified,
				Email:  "jane@example.com",
			},
			key:   "any",
			check: accounts.IsParamNotExists,
		},
		{
			name:     "wrong key",
			identity: unverifiedIdentity("right-key", time.Now().Add(time.Hour)),
			key:      "wrong-key",
			check:    accounts.IsParamIncorrect,
		},
		{
			name:     "expired key",
			identity: unverifiedIdentity("the-key", time.Now().Add(-time.Hour)),
			key:      "the-key",
			check:    accounts.IsParamExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepositoryManager{}
			identities := &MockIdentities{}

			repo.On("Identities").Return(identities)
			identities.On("GetByEmail", mock.Anything, "jane@example.com").
				Return(tt.identity, nil).Once()

			handler := accounts.NewActivateAccountHandler(repo).WithLogger(testLogger{})

			err := handler.Execute(context.Background(), accounts.ActivateAccountMessage{
				Email: "jane@example.com",
				Key:   tt.key,
			})
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			identities.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestActivateAccountHandlerAlreadyActive(t *testing.T) {
	repo := &MockRepositoryManager{}
	identities := &MockIdentities{}

	identity := unverifiedIdentity("the-key", time.Now().Add(time.Hour))
	identity.Status = accounts.StatusActive

	repo.On("Identities").Return(identities)
	identities.On("GetByEmail", mock.Anything, "jane@example.com").
		Return(identity, nil).Once()

	handler := accounts.NewActivateAccountHandler(repo).WithLogger(testLogger{})

	err := handler.Execute(context.Background(), accounts.ActivateAccountMessage{
		Email: "jane@example.com",
		Key:   "the-key",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, accounts.ErrInvalidTransition)
	identities.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
}
