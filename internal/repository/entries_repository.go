package repository

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/limbo/bloom/pkg/entity"
)

// dataPrefix namespaces one collection key per user id so two users'
// histories never collide and a user's key is stable across sessions.
const dataPrefix = "bloom_data_"

func dataKey(userID string) string {
	return dataPrefix + userID
}

type EntriesRepository struct {
	kv KV
}

func NewEntriesRepo(kv KV) *EntriesRepository {
	return &EntriesRepository{
		kv: kv,
	}
}

// GetUserData never reports "not found": a missing or malformed blob is an
// empty collection. Only a broken underlying store produces an error.
func (er *EntriesRepository) GetUserData(ctx context.Context, userID string) (*entity.UserData, error) {
	empty := &entity.UserData{Entries: []entity.MoodEntry{}}
	raw, ok, err := er.kv.Get(ctx, dataKey(userID))
	if err != nil {
		return empty, errors.New("reading journal error: " + err.Error())
	}
	if !ok {
		return empty, nil
	}
	var data entity.UserData
	if err := sonic.UnmarshalString(raw, &data); err != nil {
		return empty, nil
	}
	if data.Entries == nil {
		data.Entries = []entity.MoodEntry{}
	}
	return &data, nil
}

func (er *EntriesRepository) SaveUserData(ctx context.Context, userID string, data *entity.UserData) error {
	if data == nil {
		return errors.New("data is nil")
	}
	raw, err := sonic.MarshalString(data)
	if err != nil {
		return errors.New("serializing journal error: " + err.Error())
	}
	if err := er.kv.Set(ctx, dataKey(userID), raw); err != nil {
		return errors.New("saving journal error: " + err.Error())
	}
	return nil
}

func (er *EntriesRepository) Exists(ctx context.Context, userID string) (bool, error) {
	_, ok, err := er.kv.Get(ctx, dataKey(userID))
	if err != nil {
		return false, errors.New("reading journal error: " + err.Error())
	}
	return ok, nil
}
