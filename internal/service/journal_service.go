package service

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/limbo/bloom/internal/repository"
	"github.com/limbo/bloom/pkg/entity"
)

const demoNote = "Demo entry generated for preview."

// demoMoods is the fixed table demo entries draw from. Two Amazing rows is
// deliberate: it skews the sample toward a pleasant first impression.
var demoMoods = []struct {
	label string
	val   int
}{
	{entity.MoodAmazing, 9},
	{entity.MoodGood, 7},
	{entity.MoodOkay, 5},
	{entity.MoodStressed, 3},
	{entity.MoodAmazing, 10},
}

var demoTags = []string{"#work", "#family", "#sleep", "#exercise", "#meditation"}

type JournalService struct {
	repo repository.EntriesRepositoryI
}

func NewJournalService(entriesRepo repository.EntriesRepositoryI) *JournalService {
	if entriesRepo == nil {
		log.Fatal("provided nil entriesRepo")
	}
	return &JournalService{
		repo: entriesRepo,
	}
}

func (js *JournalService) GetUserData(ctx context.Context, userID string) (*entity.UserData, error) {
	data, err := js.repo.GetUserData(ctx, userID)
	if err != nil {
		return data, errors.New("entries repository error: " + err.Error())
	}
	return data, nil
}

// AddEntry is a read-modify-write with no locking. Two interleaved writers
// can clobber each other; the design assumes a single writer per session
// and there is no cross-process signal to coordinate a lock with.
func (js *JournalService) AddEntry(ctx context.Context, userID string, req *NewEntryRequest) (*entity.UserData, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			return nil, validationError
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	tags := req.Tags
	if len(tags) == 0 {
		tags = []string{"#daily"}
	}
	entry := entity.MoodEntry{
		ID:          strconv.FormatInt(time.Now().UnixMilli(), 10),
		Mood:        req.Mood,
		MoodValue:   req.MoodValue,
		StressLevel: req.StressLevel,
		Note:        req.Note,
		Date:        time.Now(),
		Tags:        tags,
	}
	data, err := js.repo.GetUserData(ctx, userID)
	if err != nil {
		return nil, errors.New("entries repository error: " + err.Error())
	}
	// Newest first
	data.Entries = append([]entity.MoodEntry{entry}, data.Entries...)
	if err := js.repo.SaveUserData(ctx, userID, data); err != nil {
		return nil, errors.New("entries repository error: " + err.Error())
	}
	return data, nil
}

func (js *JournalService) InitializeUser(ctx context.Context, userID string) error {
	exists, err := js.repo.Exists(ctx, userID)
	if err != nil {
		return errors.New("entries repository error: " + err.Error())
	}
	if exists {
		return nil
	}
	if err := js.repo.SaveUserData(ctx, userID, &entity.UserData{Entries: []entity.MoodEntry{}}); err != nil {
		return errors.New("entries repository error: " + err.Error())
	}
	return nil
}

// SeedDemoData fabricates one entry per day for the trailing week ending
// today. The emptiness guard is the only duplication defense: the store
// never dedupes by id, so repeated seeding without it would stack weeks.
func (js *JournalService) SeedDemoData(ctx context.Context, userID string) error {
	data, err := js.repo.GetUserData(ctx, userID)
	if err != nil {
		return errors.New("entries repository error: " + err.Error())
	}
	if len(data.Entries) > 0 {
		return nil
	}
	now := time.Now()
	demoEntries := make([]entity.MoodEntry, 0, 7)
	for i := 0; i < 7; i++ {
		mood := demoMoods[rand.IntN(len(demoMoods))]
		demoEntries = append(demoEntries, entity.MoodEntry{
			ID:        "demo-" + strconv.Itoa(i),
			Date:      now.AddDate(0, 0, -i),
			Mood:      mood.label,
			MoodValue: mood.val,
			// Stress correlates inversely with mood on purpose
			StressLevel: rand.IntN(5) + 1 + (10-mood.val)/2,
			Note:        demoNote,
			Tags:        []string{demoTags[rand.IntN(len(demoTags))]},
		})
	}
	if err := js.repo.SaveUserData(ctx, userID, &entity.UserData{Entries: demoEntries}); err != nil {
		return errors.New("entries repository error: " + err.Error())
	}
	return nil
}
