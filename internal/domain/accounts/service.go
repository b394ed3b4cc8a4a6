package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Service manages admin accounts and verifies their credentials.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Get(ctx context.Context, id uint) (*User, error)
}

// CreateParams are the inputs for a new admin account.
type CreateParams struct {
	Username string `validate:"required,max=150"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

type service struct {
	repo      Repository
	cost      int
	validate  *validator.Validate
	dummyHash []byte
	now       func() time.Time
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the account service. A zero cost uses bcrypt.DefaultCost.
func NewService(repo Repository, cost int, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("accounts repository is required")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, eris.Errorf("bcrypt cost %d is out of range", cost)
	}

	dummyHash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, eris.Wrap(err, "preparing password comparison")
	}

	return &service{
		repo:      repo,
		cost:      cost,
		validate:  validator.New(),
		dummyHash: dummyHash,
		now:       time.Now,
		logger:    logger,
		sentryHub: hub,
	}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(params.Email)

	if err := s.validate.StructCtx(ctx, params); err != nil {
		return nil, eris.Wrap(err, "validating admin account")
	}

	existing, err := s.repo.GetByUsername(ctx, params.Username)
	if err != nil {
		s.recordError(logrus.Fields{"username": params.Username}, err, "looking up admin account")
		return nil, eris.Wrapf(err, "looking up user %s", params.Username)
	}
	if existing != nil {
		return nil, eris.Wrapf(ErrUserExists, "username %s", params.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return nil, eris.Wrap(err, "hashing password")
	}

	user := &User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if eris.Is(err, ErrUserExists) {
			return nil, err
		}
		s.recordError(logrus.Fields{"username": params.Username}, err, "creating admin account")
		return nil, eris.Wrapf(err, "creating user %s", params.Username)
	}

	return user, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.recordError(logrus.Fields{"username": username}, err, "looking up admin account")
		return nil, eris.Wrapf(err, "looking up user %s", username)
	}

	if user == nil {
		// Same cost as the wrong-password path.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLogin(ctx, user.ID, now); err != nil {
		s.recordError(logrus.Fields{"user_id": user.ID}, err, "recording last login")
	} else {
		user.LastLoginAt = &now
	}

	return user, nil
}

func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"user_id": id}, err, "loading admin account")
		return nil, eris.Wrapf(err, "loading user %d", id)
	}
	return user, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
