package telegram

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/service"
)

// BinReconciler retries the virtual bin step of past redemptions
type BinReconciler interface {
	DepletePendingBins(ctx context.Context) (int, error)
}

// Bot posts redemption summaries to the operations chat and answers a few
// commands from it.
type Bot struct {
	bot        *tele.Bot
	cfg        *config.Config
	reconciler BinReconciler
}

func NewBot(cfg *config.Config, reconciler BinReconciler) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Telegram.BotToken,
		Poller: &tele.LongPoller{Timeout: 60 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:        bot,
		cfg:        cfg,
		reconciler: reconciler,
	}

	b.registerHandlers()

	return b, nil
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/chatid", b.handleStart)
	b.bot.Handle("/reconciliar", b.handleReconcile)
}

func (b *Bot) StartPolling(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.bot.Start()
}

func (b *Bot) handleStart(c tele.Context) error {
	text := fmt.Sprintf(`♻️ <b>verdeScan operaciones</b>

ID de este chat: <code>%d</code>
Configuralo como TELEGRAM_OPS_CHAT_ID para recibir las validaciones de tokens.`, c.Chat().ID)
	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) handleReconcile(c tele.Context) error {
	if c.Chat().ID != b.cfg.Telegram.OpsChatID {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := b.reconciler.DepletePendingBins(ctx)
	if err != nil {
		zap.L().Warn("reconcile from telegram failed", zap.Error(err))
		return c.Send("Error al conciliar los tachos virtuales.")
	}
	return c.Send(fmt.Sprintf("Tachos conciliados: %d", n))
}

// NotifyRedemption posts a validated token to the operations chat
func (b *Bot) NotifyRedemption(ctx context.Context, r *service.Redemption) error {
	if b.cfg.Telegram.OpsChatID == 0 {
		return nil
	}
	_, err := b.bot.Send(tele.ChatID(b.cfg.Telegram.OpsChatID), FormatRedemption(r), tele.ModeHTML)
	return err
}

// FormatRedemption renders the operations chat message for a redemption
func FormatRedemption(r *service.Redemption) string {
	return fmt.Sprintf(`✅ <b>Token validado</b>

👤 %s (%s)
♻️ %d × %s
⭐ +%d puntos (%d → %d)
🧾 Validó: %s
🕒 %s`,
		html.EscapeString(r.UserName),
		html.EscapeString(r.UserEmail),
		r.Quantity,
		html.EscapeString(r.MaterialType.DisplayName()),
		r.PointsCredited,
		r.PreviousPoints,
		r.NewPoints,
		html.EscapeString(r.ValidatedBy),
		r.ValidatedAt.Format("02/01/2006 15:04"),
	)
}
