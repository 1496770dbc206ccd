package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"daily-meal-planner/internal/app"
	"daily-meal-planner/internal/config"
	"daily-meal-planner/internal/food"
	"daily-meal-planner/internal/metrics"
	"daily-meal-planner/internal/report"
)

var errMissingKcal = errors.New("missing kcal")

// Planner is the part of app.App the bot needs.
type Planner interface {
	Plan(ctx context.Context, req app.Request) (app.Outcome, error)
}

// RunSummarizer reports recent search activity for /metrics.
type RunSummarizer interface {
	DailySummary(ctx context.Context, days int) ([]metrics.DailySummary, error)
}

// Bot wraps the Telegram API and the planner.
type Bot struct {
	api          *tgbotapi.BotAPI
	planner      Planner
	metricsStore RunSummarizer
	cfg          *config.Config
	labels       report.Labels
	logger       zerolog.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, planner Planner, metricsStore RunSummarizer, logger zerolog.Logger) (*Bot, error) {
	labels, err := report.LabelsFor(cfg.Locale)
	if err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info().Str("account", bot.Self.UserName).Msg("telegram bot authorized")

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info().Str("description", resp.Description).Msg("webhook set")

	return newBot(bot, cfg, planner, metricsStore, labels, logger), nil
}

func newBot(api *tgbotapi.BotAPI, cfg *config.Config, planner Planner, metricsStore RunSummarizer, labels report.Labels, logger zerolog.Logger) *Bot {
	return &Bot{
		api:          api,
		planner:      planner,
		metricsStore: metricsStore,
		cfg:          cfg,
		labels:       labels,
		logger:       logger,
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn().Err(err).Msg("failed to parse update")
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !b.cfg.IsAllowedUser(msg.From.ID) {
		b.logger.Warn().Int64("user_id", msg.From.ID).Str("username", msg.From.UserName).Msg("unauthorized access attempt")
		return
	}

	go b.processMessage(msg)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply := b.reply(ctx, msg.From.ID, msg.Command(), msg.CommandArguments(), msg.Text)
	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to send reply")
	}
}

// reply computes the answer to one message. command is empty for plain
// text, which is read as "<kcal> [allergens]".
func (b *Bot) reply(ctx context.Context, userID int64, command, args, text string) string {
	switch command {
	case "start", "help":
		return helpText
	case "allergens":
		return allergensText()
	case "metrics":
		if b.cfg.AdminTelegramID == 0 || userID != b.cfg.AdminTelegramID {
			return "⛔ Access denied: admin only."
		}
		return b.metricsText(ctx)
	case "plan":
		return b.plan(ctx, args)
	case "":
		return b.plan(ctx, text)
	}
	return helpText
}

func (b *Bot) plan(ctx context.Context, args string) string {
	kcal, allergens, err := parsePlanCommand(args)
	if errors.Is(err, errMissingKcal) {
		return b.labels.MissingKcal
	}
	if err != nil {
		return "❌ " + err.Error()
	}

	out, err := b.planner.Plan(ctx, app.Request{Kcal: kcal, Allergens: allergens, Channel: "telegram"})
	if err != nil {
		if errors.Is(err, app.ErrInvalidRequest) {
			return "❌ " + err.Error()
		}
		b.logger.Error().Err(err).Msg("failed to plan")
		return "❌ Error generating plan."
	}
	return out.Report
}

// parsePlanCommand reads "<kcal> [allergen[,allergen...]]". Allergens may be
// separated by commas or spaces.
func parsePlanCommand(args string) (float64, []string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return 0, nil, errMissingKcal
	}

	kcal, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(fields[0]), "kcal"), 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid kcal %q", fields[0])
	}

	var allergens []string
	for _, f := range fields[1:] {
		for _, a := range strings.Split(f, ",") {
			if a = strings.TrimSpace(a); a != "" {
				allergens = append(allergens, a)
			}
		}
	}
	return kcal, allergens, nil
}

const helpText = `🍚 Daily meal planner

/plan <kcal> [allergens] - plan a day, e.g. /plan 1800 egg,콩
/allergens - list allergen tags
/help - show this message`

func allergensText() string {
	var sb strings.Builder
	sb.WriteString("Allergen tags:\n")
	for _, a := range food.KnownAllergens {
		sb.WriteString(fmt.Sprintf("• %s\n", a))
	}
	return sb.String()
}

func (b *Bot) metricsText(ctx context.Context) string {
	summary, err := b.metricsStore.DailySummary(ctx, 7)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to fetch metrics")
		return "❌ Error fetching metrics."
	}

	health := metrics.GetSysHealth(filepath.Dir(b.cfg.DBPath))

	var sb strings.Builder
	sb.WriteString("📊 Usage & Health Report\n\n")

	sb.WriteString("🗓 Recent searches\n")
	if len(summary) == 0 {
		sb.WriteString("No data yet\n")
	}
	for _, d := range summary {
		sb.WriteString(fmt.Sprintf("• %s: %d runs (%d planned, %d failed), avg %.0f ms\n", d.Date, d.Runs, d.Planned, d.Failed, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 System Health\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataSize()))
	return sb.String()
}
