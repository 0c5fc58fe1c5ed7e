package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/internal/config"
	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// TelegramSender delivers order confirmations through the Telegram bot API.
type TelegramSender struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewTelegramSender(cfg config.Telegram, logger *logrus.Logger) *TelegramSender {
	return &TelegramSender{
		baseURL:  cfg.APIBaseURL,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type telegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (s *TelegramSender) Send(ctx context.Context, order *models.Order) error {
	if s.botToken == "" || s.chatID == "" {
		return fmt.Errorf("telegram transport not configured")
	}

	payload, err := json.Marshal(telegramMessage{
		ChatID: s.chatID,
		Text:   FormatOrderMessage(order),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram request: %w", err)
	}
	defer resp.Body.Close()

	var tgResp telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&tgResp); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !tgResp.OK {
		return fmt.Errorf("telegram API returned error status %d: %s", resp.StatusCode, tgResp.Description)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"chat_id":      s.chatID,
	}).Info("Order confirmation sent to Telegram")

	return nil
}
