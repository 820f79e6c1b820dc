package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/bloom/internal/error_values"
	"github.com/limbo/bloom/internal/repository"
	"github.com/limbo/bloom/pkg/entity"
)

// DemoUserID is the fixed id of the canned demo account.
const DemoUserID = "demo-user-123"

// DemoCredentials is the one accepted sign-in. There is no credential
// database anywhere in this design; sign-up fabricates a fresh local
// profile and sign-in only admits the demo account.
type DemoCredentials struct {
	Email    string
	Password string
}

type UserService struct {
	repo repository.UserRecordRepositoryI
	demo DemoCredentials

	mu        sync.Mutex
	listeners map[int]IdentityListener
	nextID    int
}

func NewUserService(userRepo repository.UserRecordRepositoryI, demo DemoCredentials) *UserService {
	return &UserService{
		repo:      userRepo,
		demo:      demo,
		listeners: make(map[int]IdentityListener),
	}
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			return nil, validationError
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	user := &entity.User{
		ID:       fmt.Sprintf("user-%d", time.Now().UnixMilli()),
		Name:     req.Name,
		Email:    req.Email,
		JoinDate: time.Now().Format("Jan 2006"),
		Stats:    &entity.UserStats{Streak: 0, Entries: 0, Level: 1},
		Badges:   []string{},
	}
	if err := us.repo.SetCurrent(ctx, user); err != nil {
		return nil, errors.New("repository saving error: " + err.Error())
	}
	us.broadcast(user)
	return user, nil
}

func (us *UserService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	if email != us.demo.Email || password != us.demo.Password {
		return nil, errorvalues.ErrWrongCredentials
	}
	user := &entity.User{
		ID:     DemoUserID,
		Name:   "Test User",
		Email:  us.demo.Email,
		Avatar: "https://api.dicebear.com/7.x/adventurer/svg?seed=Felix",
		Stats:  &entity.UserStats{Streak: 5, Entries: 24, Level: 3},
		Badges: []string{"Early Bird", "Mindful"},
	}
	if err := us.repo.SetCurrent(ctx, user); err != nil {
		return nil, errors.New("repository saving error: " + err.Error())
	}
	us.broadcast(user)
	return user, nil
}

func (us *UserService) Current(ctx context.Context) (*entity.User, error) {
	user, err := us.repo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) SignOut(ctx context.Context) error {
	if err := us.repo.ClearCurrent(ctx); err != nil {
		return errors.New("repository clearing error: " + err.Error())
	}
	us.broadcast(nil)
	return nil
}

func (us *UserService) UpdateAvatar(ctx context.Context, avatar string) (*entity.User, error) {
	user, err := us.repo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	user.Avatar = avatar
	if err := us.repo.SetCurrent(ctx, user); err != nil {
		return nil, errors.New("repository saving error: " + err.Error())
	}
	us.broadcast(user)
	return user, nil
}

// Subscribe registers an identity listener and returns its unsubscribe.
// Listeners registered after a broadcast never see it: there is no replay.
func (us *UserService) Subscribe(fn IdentityListener) func() {
	us.mu.Lock()
	defer us.mu.Unlock()
	id := us.nextID
	us.nextID++
	us.listeners[id] = fn
	return func() {
		us.mu.Lock()
		defer us.mu.Unlock()
		delete(us.listeners, id)
	}
}

func (us *UserService) broadcast(user *entity.User) {
	us.mu.Lock()
	fns := make([]IdentityListener, 0, len(us.listeners))
	for _, fn := range us.listeners {
		fns = append(fns, fn)
	}
	us.mu.Unlock()
	for _, fn := range fns {
		fn(user)
	}
}
