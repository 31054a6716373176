package train

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/railcheck/tc-api/internal/train/entity"
	trainrepo "github.com/railcheck/tc-api/internal/train/repo"
)

// ResourceStore is the persistence surface the service depends on.
// *repo.TrainRepo is the production implementation.
type ResourceStore interface {
	Create(ctx context.Context, tcID int64, t *entity.Train) (int64, error)
	GetByID(ctx context.Context, trainID int64) (*entity.Train, error)
	ListAll(ctx context.Context) ([]*entity.Train, error)
	ListCoaches(ctx context.Context, trainID int64) ([]*entity.Coach, error)
	CreateCoach(ctx context.Context, trainID int64, coachID string, penalty int) (int64, error)
	Update(ctx context.Context, trainID int64, name, lastDate, lastTime string, penalty int) (bool, error)
}

var ErrNotFound = errors.New("train not found")

// Service wraps the resource store with not-found mapping. Trains are
// globally visible: the creating account is recorded but reads are not
// scoped to it.
type Service struct {
	store ResourceStore
}

func NewService(db *sqlx.DB, store ResourceStore) *Service {
	if store == nil {
		store = trainrepo.NewTrainRepo(db)
	}
	return &Service{store: store}
}

// Create stores a new train on behalf of tcID and returns the new id.
func (s *Service) Create(ctx context.Context, tcID int64, t *entity.Train) (int64, error) {
	return s.store.Create(ctx, tcID, t)
}

// Get returns a train by id or ErrNotFound.
func (s *Service) Get(ctx context.Context, trainID int64) (*entity.Train, error) {
	t, err := s.store.GetByID(ctx, trainID)
	if err != nil {
		if trainrepo.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns all trains.
func (s *Service) List(ctx context.Context) ([]*entity.Train, error) {
	return s.store.ListAll(ctx)
}

// ListCoaches returns a train's coaches.
func (s *Service) ListCoaches(ctx context.Context, trainID int64) ([]*entity.Coach, error) {
	return s.store.ListCoaches(ctx, trainID)
}

// AddCoach stores a coach row under a train.
func (s *Service) AddCoach(ctx context.Context, trainID int64, coachID string, penalty int) (int64, error) {
	return s.store.CreateCoach(ctx, trainID, coachID, penalty)
}

// Update replaces a train's fields. ErrNotFound when the id does not
// exist; a no-op update of an existing row still succeeds.
func (s *Service) Update(ctx context.Context, trainID int64, name, lastDate, lastTime string, penalty int) error {
	ok, err := s.store.Update(ctx, trainID, name, lastDate, lastTime, penalty)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
