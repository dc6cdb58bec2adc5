package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/keyboards"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/repository"
	"github.com/vladimiradmaev/nurture-diary/internal/services"
)

const (
	owner    int64 = 1001
	stranger int64 = 2002
	today          = "2024-05-10"
)

var clock = time.Date(2024, 5, 10, 8, 0, 0, 0, time.Local)

type fakeSender struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	fileURL string
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) GetFileDirectURL(fileID string) (string, error) {
	if s.fileURL == "" {
		return "", errors.New("no such file")
	}
	return s.fileURL + "/" + fileID, nil
}

func (s *fakeSender) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (s *fakeSender) last() string {
	t := s.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (s *fakeSender) anyContains(sub string) bool {
	for _, t := range s.texts() {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

// stubResolver answers with a fixed estimate. Inputs listed in hold block
// until release is closed.
type stubResolver struct {
	calls   atomic.Int32
	err     error
	mu      sync.Mutex
	input   domain.FoodInput
	hold    map[string]bool
	held    chan struct{}
	release chan struct{}
}

func (r *stubResolver) Resolve(_ context.Context, in domain.FoodInput) (*domain.FoodEstimate, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.input = in
	r.mu.Unlock()
	if r.hold[in.Text] {
		r.held <- struct{}{}
		<-r.release
	}
	if r.err != nil {
		return nil, r.err
	}
	return &domain.FoodEstimate{
		Name: "Ramen", Portion: "1 bowl",
		NutritionAmounts: domain.NutritionAmounts{Calories: 550, Protein: 22, Fat: 18, Carbs: 70},
	}, nil
}

func (r *stubResolver) lastInput() domain.FoodInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.input
}

type fixture struct {
	handler  *UpdateHandler
	sender   *fakeSender
	states   *state.Manager
	diary    *services.DiaryService
	users    *services.UserService
	resolver *stubResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewDiaryRepository(repository.NewMemoryBlobStore())
	users, err := services.NewUserService(ctx, repo)
	require.NoError(t, err)
	diary, err := services.NewDiaryService(ctx, repo, users)
	require.NoError(t, err)
	resolver := &stubResolver{}

	f := &fixture{
		sender:   &fakeSender{},
		states:   state.NewManager(),
		diary:    diary,
		users:    users,
		resolver: resolver,
	}
	deps := Dependencies{
		Diary:        diary,
		FoodAnalysis: services.NewFoodAnalysisService(resolver, diary),
		User:         users,
		Now:          func() time.Time { return clock },
	}
	f.handler = NewUpdateHandler(f.sender, owner, deps, f.states)
	return f
}

func message(from int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
	}
}

func textUpdate(from int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: message(from, text)}
}

func commandUpdate(from int64, text string) tgbotapi.Update {
	m := message(from, text)
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	return tgbotapi.Update{Message: m}
}

func callbackUpdate(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Message: message(from, ""),
		Data:    data,
	}}
}

func photoUpdate(from int64) tgbotapi.Update {
	m := message(from, "")
	m.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	return tgbotapi.Update{Message: m}
}

func (f *fixture) handle(t *testing.T, u tgbotapi.Update) {
	t.Helper()
	require.NoError(t, f.handler.Handle(context.Background(), u))
}

func TestStrangerIsRejected(t *testing.T) {
	f := newFixture(t)
	f.handle(t, commandUpdate(stranger, "/today"))
	f.handle(t, callbackUpdate(stranger, keyboards.AddData(today, domain.MealLunch)))

	assert.Equal(t, []string{"🔒 This diary is private."}, f.sender.texts())
	assert.Equal(t, state.None, f.states.GetUserState(stranger))
}

func TestTodayShowsSummary(t *testing.T) {
	f := newFixture(t)
	f.handle(t, commandUpdate(owner, "/today"))

	assert.Contains(t, f.sender.last(), "(today)")
	assert.Contains(t, f.sender.last(), "0 / 2281 kcal")
}

func TestDateCommand(t *testing.T) {
	f := newFixture(t)
	f.handle(t, commandUpdate(owner, "/date 2024-04-30"))
	assert.Contains(t, f.sender.last(), "Tuesday, April 30")
	v, _ := f.states.GetTempData(owner, state.KeyDate)
	assert.Equal(t, "2024-04-30", v)

	f.handle(t, commandUpdate(owner, "/date yesterday"))
	assert.Contains(t, f.sender.last(), "Usage: /date YYYY-MM-DD")
}

func TestAddFoodByText(t *testing.T) {
	f := newFixture(t)
	f.handle(t, callbackUpdate(owner, keyboards.AddData(today, domain.MealLunch)))
	assert.Equal(t, state.WaitingForFood, f.states.GetUserState(owner))

	f.handle(t, textUpdate(owner, "a bowl of tonkotsu ramen"))

	assert.Equal(t, "a bowl of tonkotsu ramen", f.resolver.lastInput().Text)
	assert.True(t, f.sender.anyContains("✅ Added Ramen (1 bowl), 550 kcal"))
	assert.Equal(t, state.None, f.states.GetUserState(owner))

	lookup, err := f.diary.GetLog(today)
	require.NoError(t, err)
	assert.Len(t, lookup.Log.Meals[domain.MealLunch], 1)
}

func TestAddToAnotherMealWhileOneIsAnalyzed(t *testing.T) {
	f := newFixture(t)
	f.resolver.hold = map[string]bool{"slow": true}
	f.resolver.held = make(chan struct{})
	f.resolver.release = make(chan struct{})

	f.handle(t, callbackUpdate(owner, keyboards.AddData(today, domain.MealBreakfast)))
	done := make(chan error, 1)
	go func() {
		done <- f.handler.Handle(context.Background(), textUpdate(owner, "slow"))
	}()
	<-f.resolver.held

	f.handle(t, callbackUpdate(owner, keyboards.AddData(today, domain.MealLunch)))
	close(f.resolver.release)
	require.NoError(t, <-done)

	assert.Equal(t, state.WaitingForFood, f.states.GetUserState(owner))
	meal, _ := f.states.GetTempData(owner, state.KeyMeal)
	assert.Equal(t, string(domain.MealLunch), meal)

	f.handle(t, textUpdate(owner, "salad"))
	assert.Equal(t, state.None, f.states.GetUserState(owner))

	lookup, err := f.diary.GetLog(today)
	require.NoError(t, err)
	assert.Len(t, lookup.Log.Meals[domain.MealBreakfast], 1)
	assert.Len(t, lookup.Log.Meals[domain.MealLunch], 1)
}

func TestProviderFailureNotice(t *testing.T) {
	f := newFixture(t)
	f.resolver.err = apperrors.NewProviderError(errors.New("503"), "gemini")

	f.handle(t, callbackUpdate(owner, keyboards.AddData(today, domain.MealDinner)))
	f.handle(t, textUpdate(owner, "curry"))

	assert.Equal(t, "❌ analysis failed, try again later", f.sender.last())
	assert.Equal(t, state.None, f.states.GetUserState(owner))
	assert.Empty(t, f.diary.Dates())
}

func TestAddToFullMealIsRefused(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < domain.MaxItemsPerMeal; i++ {
		require.NoError(t, f.diary.AddItem(context.Background(), today, domain.MealSnack,
			domain.FoodItem{ID: string(rune('a' + i)), Name: "Chips"}))
	}

	f.handle(t, callbackUpdate(owner, keyboards.AddData(today, domain.MealSnack)))

	assert.Equal(t, "⚠️ each meal may hold at most 6 entries", f.sender.last())
	assert.Equal(t, state.None, f.states.GetUserState(owner))
	assert.Zero(t, f.resolver.calls.Load())
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.diary.AddItem(context.Background(), today, domain.MealBreakfast,
		domain.FoodItem{ID: "egg", Name: "Boiled egg", Portion: "1", NutritionAmounts: domain.NutritionAmounts{Calories: 78}}))

	f.handle(t, callbackUpdate(owner, keyboards.DeleteData(today, domain.MealBreakfast, "egg")))

	lookup, _ := f.diary.GetLog(today)
	assert.Empty(t, lookup.Log.Meals[domain.MealBreakfast])
	assert.Contains(t, f.sender.last(), "Breakfast (0/6)")
}

func TestAddFoodByPhoto(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")
	requested := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested <- r.URL.Path
		w.Write(png)
	}))
	defer srv.Close()

	f := newFixture(t)
	f.sender.fileURL = srv.URL
	f.handle(t, callbackUpdate(owner, keyboards.AddData(today, domain.MealDinner)))
	f.handle(t, photoUpdate(owner))

	assert.Equal(t, "/large", <-requested)
	assert.Equal(t, "image/png", f.resolver.lastInput().MIMEType)
	assert.Equal(t, png, f.resolver.lastInput().Image)

	lookup, _ := f.diary.GetLog(today)
	require.Len(t, lookup.Log.Meals[domain.MealDinner], 1)
	assert.True(t, strings.HasPrefix(lookup.Log.Meals[domain.MealDinner][0].ImageURL, "data:image/png;base64,"))
}

func TestPhotoWithoutPendingMeal(t *testing.T) {
	f := newFixture(t)
	f.handle(t, photoUpdate(owner))

	assert.Contains(t, f.sender.last(), "Press ➕ under a meal first")
	assert.Zero(t, f.resolver.calls.Load())
}

func TestEditWeight(t *testing.T) {
	f := newFixture(t)
	f.handle(t, callbackUpdate(owner, "profile_edit:weight"))
	assert.Equal(t, state.WaitingForProfileValue, f.states.GetUserState(owner))

	f.handle(t, textUpdate(owner, "heavy"))
	assert.Equal(t, "⚠️ weight must be a positive number", f.sender.last())
	assert.Equal(t, state.WaitingForProfileValue, f.states.GetUserState(owner))

	for _, v := range []string{"NaN", "Inf", "-5"} {
		f.handle(t, textUpdate(owner, v))
		assert.Equal(t, "⚠️ weight must be a positive number", f.sender.last(), v)
	}
	assert.Equal(t, state.WaitingForProfileValue, f.states.GetUserState(owner))

	f.handle(t, textUpdate(owner, "80,5"))
	assert.Equal(t, 80.5, f.users.Profile().Weight)
	assert.Equal(t, state.None, f.states.GetUserState(owner))
	assert.Contains(t, f.sender.last(), "Weight: 80.5 kg")
}

func TestChooseActivityAndGender(t *testing.T) {
	f := newFixture(t)
	f.handle(t, callbackUpdate(owner, "activity:extra"))
	assert.Equal(t, domain.ActivityExtra, f.users.Profile().ActivityLevel)

	f.handle(t, callbackUpdate(owner, "gender:female"))
	assert.Equal(t, domain.GenderFemale, f.users.Profile().Gender)

	f.handle(t, callbackUpdate(owner, "gender:robot"))
	assert.Equal(t, domain.GenderFemale, f.users.Profile().Gender)
	assert.Contains(t, f.sender.last(), "unknown gender")
}

func TestGoalFollowsProfileInSummary(t *testing.T) {
	f := newFixture(t)
	f.handle(t, callbackUpdate(owner, "activity:sedentary"))
	f.handle(t, commandUpdate(owner, "/today"))

	// 1658.75 * 1.2 = 1990.5
	assert.Contains(t, f.sender.last(), "0 / 1991 kcal")
}

func TestNotice(t *testing.T) {
	assert.Equal(t, "⚠️ bad", Notice(apperrors.NewValidationError("bad")))
	assert.Equal(t, "💾 the diary could not be saved, the change was not applied",
		Notice(apperrors.NewPersistenceError(errors.New("io"), "save")))
	assert.Contains(t, Notice(apperrors.NewBusyError(today, "lunch")), "still being analyzed")
	assert.Contains(t, Notice(errors.New("boom")), "something went wrong")
}
