package tc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/railcheck/tc-api/internal/tc/entity"
	tcrepo "github.com/railcheck/tc-api/internal/tc/repo"
)

// CredentialStore is the persistence surface the service depends on.
// *repo.TCRepo is the production implementation.
type CredentialStore interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, t *entity.TC) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.TC, error)
	GetIDByAPIKey(ctx context.Context, apiKey string) (int64, error)
	APIKeyExists(ctx context.Context, apiKey string) (bool, error)
}

var (
	ErrAlreadyExists = errors.New("tc already exists")
	ErrCreateFailed  = errors.New("tc create failed")
	ErrNotFound      = errors.New("tc not found")
)

// Service orchestrates registration, login and api-key resolution.
type Service struct {
	store CredentialStore
}

func NewService(db *sqlx.DB, store CredentialStore) *Service {
	if store == nil {
		store = tcrepo.NewTCRepo(db)
	}
	return &Service{store: store}
}

// Register creates a tc account and mints its api key. A duplicate email
// reports ErrAlreadyExists whether it is caught by the existence check or
// by the store's unique constraint under a concurrent registration.
func (s *Service) Register(ctx context.Context, trainID, name, email, zone string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	if exists {
		return ErrAlreadyExists
	}

	key, err := issueAPIKey(ctx, s.store)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}

	t := &entity.TC{
		TrainID: trainID,
		TCID:    newTCID(),
		Name:    name,
		Email:   email,
		Zone:    zone,
		APIKey:  key,
	}
	if _, err := s.store.Insert(ctx, t); err != nil {
		if errors.Is(err, tcrepo.ErrDuplicateEmail) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	return nil
}

// CheckLogin reports whether a tc with the given email exists. The zone is
// read by the login surface but never compared against the stored value;
// that matches the shipped contract, so callers authenticate on email
// presence alone. Kept as-is until product intent says otherwise.
func (s *Service) CheckLogin(ctx context.Context, email, _ string) (bool, error) {
	exists, err := s.store.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetByEmail returns the login projection for an account.
func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.LoginView, error) {
	t, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if tcrepo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity.LoginView{Name: t.Name, Email: t.Email, APIKey: t.APIKey}, nil
}

// ValidateAPIKey reports whether the key has been issued.
func (s *Service) ValidateAPIKey(ctx context.Context, apiKey string) (bool, error) {
	return s.store.APIKeyExists(ctx, apiKey)
}

// ResolveAPIKey maps a previously validated key to its tc id.
func (s *Service) ResolveAPIKey(ctx context.Context, apiKey string) (int64, error) {
	id, err := s.store.GetIDByAPIKey(ctx, apiKey)
	if err != nil {
		if tcrepo.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// newTCID returns a random 10-digit numeric handle.
func newTCID() string {
	const lo, hi = 1111111111, 9999999999
	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		// crypto/rand failing means the process has bigger problems;
		// fall back to the low bound rather than abort registration.
		return fmt.Sprintf("%d", int64(lo))
	}
	return fmt.Sprintf("%d", n.Int64()+lo)
}
