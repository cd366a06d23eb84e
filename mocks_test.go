package accounts_test

import (
	"context"
	"database/sql"
	"time"

	accounts "github.com/goliatone/go-accounts"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements accounts.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockRepositoryManager) MustValidate() {
	m.Called()
}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	return args.Error(0)
}

func (m *MockRepositoryManager) Identities() accounts.Identities {
	args := m.Called()
	return args.Get(0).(accounts.Identities)
}

func (m *MockRepositoryManager) Credentials() accounts.Credentials {
	args := m.Called()
	return args.Get(0).(accounts.Credentials)
}

func (m *MockRepositoryManager) Roles() repository.Repository[*accounts.RoleEntry] {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(repository.Repository[*accounts.RoleEntry])
	}
	return nil
}

// MockIdentities implements accounts.Identities. The embedded interface
// covers generic repository methods the tests never touch.
type MockIdentities struct {
	mock.Mock
	accounts.Identities
}

func (m *MockIdentities) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*accounts.Identity, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentities) GetByEmail(ctx context.Context, email string) (*accounts.Identity, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentities) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentities) Create(ctx context.Context, record *accounts.Identity, criteria ...repository.InsertCriteria) (*accounts.Identity, error) {
	args := m.Called(ctx, record)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentities) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Identity, criteria ...repository.InsertCriteria) (*accounts.Identity, error) {
	args := m.Called(ctx, tx, record)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentities) Update(ctx context.Context, record *accounts.Identity, criteria ...repository.UpdateCriteria) (*accounts.Identity, error) {
	args := m.Called(ctx, record)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentities) UpdateStatus(ctx context.Context, id uuid.UUID, status accounts.Status) (*accounts.Identity, error) {
	args := m.Called(ctx, id, status)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Identity), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdentities) Activate(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

// MockCredentials implements accounts.Credentials
type MockCredentials struct {
	mock.Mock
	accounts.Credentials
}

func (m *MockCredentials) GetByUsername(ctx context.Context, username string) (*accounts.Credential, error) {
	args := m.Called(ctx, username)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentials) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*accounts.Credential, error) {
	args := m.Called(ctx, tx, username)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentials) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*accounts.Credential, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*accounts.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentials) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Credential, criteria ...repository.InsertCriteria) (*accounts.Credential, error) {
	args := m.Called(ctx, tx, record)
	if v := args.Get(0); v != nil {
		return v.(*accounts.Credential), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentials) SetForgotKey(ctx context.Context, id uuid.UUID, key string, expire time.Time) error {
	args := m.Called(ctx, id, key, expire)
	return args.Error(0)
}

func (m *MockCredentials) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockCredentials) ConsumeForgotKeyTx(ctx context.Context, tx bun.IDB, id uuid.UUID, key, passwordHash string) error {
	args := m.Called(ctx, tx, id, key, passwordHash)
	return args.Error(0)
}

// MockActivitySink implements accounts.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event accounts.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendActivation(ctx context.Context, msg accounts.ActivationNotification) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockNotifier) SendForgotPassword(ctx context.Context, msg accounts.ForgotPasswordNotification) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockStorage implements accounts.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, path string, data []byte, info accounts.UploadInfo) error {
	args := m.Called(ctx, path, data, info)
	return args.Error(0)
}

func (m *MockStorage) MapURL(path string) string {
	args := m.Called(path)
	return args.String(0)
}

// testConfig implements accounts.TokenConfig
type testConfig struct {
	signingKey string
	expiration int
	issuer     string
	audience   []string
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.expiration }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-signing-key",
		expiration: 24,
		issuer:     "test-issuer",
		audience:   []string{"test:audience"},
	}
}
