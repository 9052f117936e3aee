package impl

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"smarttrack/internal/domain/entity"
	domainerrors "smarttrack/internal/domain/errors"
	"smarttrack/internal/domain/repository"
	"smarttrack/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memState is the committed content of the in-memory store.
type memState struct {
	accounts map[uuid.UUID]entity.Account
	tokens   map[uuid.UUID]entity.RefreshToken
}

func (s *memState) clone() *memState {
	return &memState{
		accounts: maps.Clone(s.accounts),
		tokens:   maps.Clone(s.tokens),
	}
}

// memDB is an in-memory store whose transactions work on a copy that is only
// written back on commit.
type memDB struct {
	mu    sync.Mutex
	state *memState

	failTokenCreate error
}

func newMemDB() *memDB {
	return &memDB{state: &memState{
		accounts: map[uuid.UUID]entity.Account{},
		tokens:   map[uuid.UUID]entity.RefreshToken{},
	}}
}

func (db *memDB) accountCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()

	return len(db.state.accounts)
}

func (db *memDB) tokens() []entity.RefreshToken {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]entity.RefreshToken, 0, len(db.state.tokens))
	for _, t := range db.state.tokens {
		out = append(out, t)
	}

	return out
}

func (db *memDB) accountByEmail(email string) (entity.Account, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.state.accounts {
		if a.Email == email {
			return a, true
		}
	}

	return entity.Account{}, false
}

// memTxManager implements repository.TransactionManager over memDB.
type memTxManager struct {
	db *memDB
}

func (m *memTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	tx := m.db.state.clone()
	if err := fn(&memFactory{db: m.db, state: tx}); err != nil {
		return err
	}

	m.db.state.accounts = tx.accounts
	m.db.state.tokens = tx.tokens

	return nil
}

type memFactory struct {
	db    *memDB
	state *memState
}

func (f *memFactory) AccountRepo() repository.AccountRepository {
	return &memAccountRepo{state: f.state}
}

func (f *memFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &memRefreshTokenRepo{state: f.state, failCreate: f.db.failTokenCreate}
}

// memAccountRepo enforces the same uniqueness rules as the accounts table.
type memAccountRepo struct {
	state *memState
}

func (r *memAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	a, ok := r.state.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return &a, nil
}

func (r *memAccountRepo) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	for _, a := range r.state.accounts {
		if a.Email == email {
			return &a, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *memAccountRepo) FindByGoogleID(_ context.Context, googleID string) (*entity.Account, error) {
	for _, a := range r.state.accounts {
		if a.GoogleID != "" && a.GoogleID == googleID {
			return &a, nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *memAccountRepo) conflicts(account *entity.Account) bool {
	for id, a := range r.state.accounts {
		if id == account.ID {
			continue
		}
		if a.Email == account.Email || (account.GoogleID != "" && a.GoogleID == account.GoogleID) {
			return true
		}
	}

	return false
}

func (r *memAccountRepo) Create(_ context.Context, account *entity.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if r.conflicts(account) {
		return domainerrors.ErrAccountAlreadyExists
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	r.state.accounts[account.ID] = *account

	return nil
}

func (r *memAccountRepo) Update(_ context.Context, account *entity.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if _, ok := r.state.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	if r.conflicts(account) {
		return domainerrors.ErrAccountAlreadyExists
	}
	r.state.accounts[account.ID] = *account

	return nil
}

func (r *memAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.state.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(r.state.accounts, id)

	return nil
}

// memRefreshTokenRepo mirrors the refresh_tokens table.
type memRefreshTokenRepo struct {
	state      *memState
	failCreate error
}

func (r *memRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if _, ok := r.state.accounts[token.AccountID]; !ok {
		return domainerrors.ErrAccountNotFound
	}
	for _, t := range r.state.tokens {
		if t.TokenHash == token.TokenHash {
			return domainerrors.ErrConflict
		}
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	r.state.tokens[token.ID] = *token

	return nil
}

func (r *memRefreshTokenRepo) FindByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	for _, t := range r.state.tokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *memRefreshTokenRepo) RevokeByHash(_ context.Context, tokenHash string) (bool, error) {
	for id, t := range r.state.tokens {
		if t.TokenHash == tokenHash {
			t.Revoked = true
			r.state.tokens[id] = t

			return true, nil
		}
	}

	return false, nil
}

func (r *memRefreshTokenRepo) RevokeAllByAccountID(_ context.Context, accountID uuid.UUID) (int64, error) {
	var revoked int64
	for id, t := range r.state.tokens {
		if t.AccountID == accountID && !t.Revoked {
			t.Revoked = true
			r.state.tokens[id] = t
			revoked++
		}
	}

	return revoked, nil
}

func (r *memRefreshTokenRepo) DeleteByAccountID(_ context.Context, accountID uuid.UUID) error {
	for id, t := range r.state.tokens {
		if t.AccountID == accountID {
			delete(r.state.tokens, id)
		}
	}

	return nil
}

// fakeFederatedProvider returns a fixed profile or error from Exchange.
type fakeFederatedProvider struct {
	profile *service.FederatedProfile
	err     error
	url     string
	urlErr  error
}

func (p *fakeFederatedProvider) AuthCodeURL(_, _ string) (string, error) {
	return p.url, p.urlErr
}

func (p *fakeFederatedProvider) Exchange(_ context.Context, _, _ string) (*service.FederatedProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	profile := *p.profile

	return &profile, nil
}

type fakeIDTokenVerifier struct {
	profile *service.FederatedProfile
	err     error
}

func (v *fakeIDTokenVerifier) VerifyIDToken(_ context.Context, _ string) (*service.FederatedProfile, error) {
	if v.err != nil {
		return nil, v.err
	}
	profile := *v.profile

	return &profile, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.AccountEvent
	err    error
}

func (p *recordingPublisher) PublishAccountEvent(_ context.Context, event *service.AccountEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return p.err
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []service.AccountEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]service.AccountEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}

	return out
}
