package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/nurture-diary/internal/bot/menus"
	"github.com/vladimiradmaev/nurture-diary/internal/bot/state"
	apperrors "github.com/vladimiradmaev/nurture-diary/internal/errors"
	"github.com/vladimiradmaev/nurture-diary/internal/logger"
)

// maxPhotoBytes caps a single photo download.
const maxPhotoBytes = 20 << 20

// PhotoHandler handles photo messages
type PhotoHandler struct {
	base
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	if h.stateManager.GetUserState(userID) != state.WaitingForFood {
		return menus.SendText(h.api, chatID, "Press ➕ under a meal first, then send the photo.", nil)
	}
	date, meal, ok := h.pendingSlot(userID)
	if !ok {
		h.stateManager.SetUserState(userID, state.None)
		return h.showDay(chatID, 0, h.selectedDate(userID))
	}

	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	data, err := h.download(ctx, photo.FileID)
	if err != nil {
		h.leaveFood(userID, date, meal)
		return h.notify(ctx, chatID, apperrors.NewInternalError(err))
	}
	mimeType := http.DetectContentType(data)
	logger.Info("Photo received", "user_id", userID, "bytes", len(data), "mime", mimeType)

	if err := menus.SendText(h.api, chatID, "🔎 Analyzing the photo…", nil); err != nil {
		logger.Warn("Failed to send progress message", "error", err)
	}

	item, err := h.deps.FoodAnalysis.AddFromImage(ctx, date, meal, data, mimeType)
	return h.finishFood(ctx, userID, chatID, date, meal, item, err)
}

func (h *PhotoHandler) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := h.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.deps.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}
