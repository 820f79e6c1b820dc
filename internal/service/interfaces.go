package service

import (
	"context"

	"github.com/limbo/bloom/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

type NewEntryRequest struct {
	Mood        string   `validate:"required,mood_label"`
	MoodValue   int      `validate:"required,min=1,max=10"`
	StressLevel int      `validate:"required,min=1,max=10"`
	Note        string   `validate:"max=2000"`
	Tags        []string `validate:"max=10,dive,max=64"`
}

// IdentityListener observes sign-in, sign-out and profile changes. A nil
// user means signed out. Delivery is synchronous and best-effort to whoever
// is registered at broadcast time; nothing is queued or replayed.
type IdentityListener func(user *entity.User)

type UserServiceI interface {
	// Validates credentials and creates a fresh local profile with zeroed
	// stats and an empty badge list
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Checks the demo credentials and installs the canned demo profile
	Login(ctx context.Context, email, password string) (*entity.User, error)
	// Reads the live profile record
	Current(ctx context.Context) (*entity.User, error)
	// Clears the live profile record and notifies listeners
	SignOut(ctx context.Context) error
	// Mutates the live record's avatar in place and notifies listeners
	UpdateAvatar(ctx context.Context, avatar string) (*entity.User, error)
	// Registers an identity listener; the returned func removes it again.
	// Every Subscribe must be paired with a call to its unsubscribe.
	Subscribe(fn IdentityListener) (unsubscribe func())
}

type JournalServiceI interface {
	GetUserData(ctx context.Context, userID string) (*entity.UserData, error)
	// Validates and prepends a new entry, returning the updated collection
	AddEntry(ctx context.Context, userID string, req *NewEntryRequest) (*entity.UserData, error)
	// Writes an empty collection only if none exists yet (create-if-absent)
	InitializeUser(ctx context.Context, userID string) error
	// Fabricates a week of demo entries for a user with no history
	SeedDemoData(ctx context.Context, userID string) error
}

type DashboardServiceI interface {
	// Pure function of the entry collection; deterministic for a given input
	BuildStats(entries []entity.MoodEntry) *entity.DashboardStats
}

type ChatServiceI interface {
	// Forwards the conversation to the external companion service. Never
	// returns an error: failures collapse into a fixed reassuring reply.
	GenerateResponse(ctx context.Context, history []entity.ChatTurn, newMessage string) string
}
