package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/menus"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	"github.com/vladimiradmaev/nurture-diary/internal/domain"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/interfaces"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
	"github.com/vladimiradmaev/nurture-diary/internal/utils"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Diary        interfaces.DiaryServiceInterface
	FoodAnalysis interfaces.FoodAnalysisServiceInterface
	User         interfaces.UserServiceInterface
	HTTPClient   *http.Client
	Now          func() time.Time
}

// base carries what every handler needs to answer a chat.
type base struct {
	api          menus.Sender
	deps         Dependencies
	stateManager state.StateManager
	errHandler   *apperrors.Handler
}

func newBase(api menus.Sender, deps Dependencies, stateManager state.StateManager) base {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return base{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		errHandler:   apperrors.NewHandler(logger.GetLogger()),
	}
}

// selectedDate is the day the user is looking at, today by default.
func (b base) selectedDate(userID int64) string {
	if d, ok := b.stateManager.GetTempData(userID, state.KeyDate); ok {
		if _, err := utils.ParseDate(d); err == nil {
			return d
		}
	}
	return utils.DateKey(b.deps.Now())
}

func (b base) showDay(chatID int64, messageID int, date string) error {
	sum, err := b.deps.Diary.Summary(date)
	if err != nil {
		return b.notify(context.Background(), chatID, err)
	}
	busy := func(meal domain.MealType) bool {
		return b.deps.FoodAnalysis.IsBusy(date, meal)
	}
	return menus.SendDay(b.api, chatID, messageID, sum, b.deps.Now(), busy)
}

func (b base) showProfile(chatID int64) error {
	bmi, category := b.deps.User.BMI()
	text := menus.ProfileText(b.deps.User.Profile(), bmi, category, b.deps.User.CurrentGoal())
	return menus.SendProfile(b.api, chatID, text)
}

// notify logs err and tells the user what happened.
func (b base) notify(ctx context.Context, chatID int64, err error) error {
	b.errHandler.Handle(ctx, err)
	return menus.SendText(b.api, chatID, Notice(err), nil)
}

// Notice is the user-facing text for an error.
func Notice(err error) string {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return "⚠️ " + appErr.Message
		}
		return "⚠️ invalid input"
	case apperrors.ErrorTypeCapacity:
		return fmt.Sprintf("⚠️ each meal may hold at most %d entries", domain.MaxItemsPerMeal)
	case apperrors.ErrorTypeBusy:
		return "⏳ the previous entry for this meal is still being analyzed, please wait"
	case apperrors.ErrorTypeExternal:
		return "❌ analysis failed, try again later"
	case apperrors.ErrorTypePersistence:
		return "💾 the diary could not be saved, the change was not applied"
	default:
		return "❌ something went wrong, try again later"
	}
}
