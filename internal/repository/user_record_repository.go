package repository

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/bloom/internal/error_values"
	"github.com/limbo/bloom/pkg/entity"
)

// userKey is the fixed profile key. Exactly one profile record is live at a
// time: this is a single-tenant local session, not a multi-user datastore.
const userKey = "bloom_user"

type UserRecordRepository struct {
	kv KV
}

func NewUserRecordRepo(kv KV) *UserRecordRepository {
	return &UserRecordRepository{
		kv: kv,
	}
}

func (ur *UserRecordRepository) GetCurrent(ctx context.Context) (*entity.User, error) {
	raw, ok, err := ur.kv.Get(ctx, userKey)
	if err != nil {
		return nil, errors.New("reading user record error: " + err.Error())
	}
	if !ok {
		return nil, errorvalues.ErrUserNotFound
	}
	var user entity.User
	if err := sonic.UnmarshalString(raw, &user); err != nil {
		// Malformed payload is treated as absent, no partial recovery
		return nil, errorvalues.ErrUserNotFound
	}
	return &user, nil
}

func (ur *UserRecordRepository) SetCurrent(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	raw, err := sonic.MarshalString(user)
	if err != nil {
		return errors.New("serializing user record error: " + err.Error())
	}
	if err := ur.kv.Set(ctx, userKey, raw); err != nil {
		return errors.New("saving user record error: " + err.Error())
	}
	return nil
}

func (ur *UserRecordRepository) ClearCurrent(ctx context.Context) error {
	if err := ur.kv.Remove(ctx, userKey); err != nil {
		return errors.New("clearing user record error: " + err.Error())
	}
	return nil
}
