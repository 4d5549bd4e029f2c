package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/semaphore"

	"prompt-studio/internal/catalog"
	"prompt-studio/internal/credential"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/session"
	"prompt-studio/internal/telegram"
	"prompt-studio/internal/view"
)

// Messenger is the subset of the Telegram client the handler drives.
type Messenger interface {
	SendTyping(chatID int64)
	SendText(chatID int64, text string) error
	SendTextWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) (int, error)
	EditTextWithKeyboard(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(callbackID, text string, alert bool) error
	DeleteMessage(chatID int64, messageID int) error
	SendPhoto(chatID int64, img gemini.Image, caption string) error
}

var _ Messenger = (*telegram.Client)(nil)

type Options struct {
	Telegram  Messenger
	Generator view.Generator
	// Backend persists one credential slot per Telegram user.
	Backend credential.Backend
	// SharedKey is offered to users who have not saved their own key.
	SharedKey  string
	SessionTTL time.Duration
	// MaxGenerations bounds concurrent image calls across all users.
	MaxGenerations int
	Logger         *slog.Logger
}

type Handler struct {
	tg        Messenger
	gen       view.Generator
	backend   credential.Backend
	sharedKey string
	sessions  *session.Store[*botSession]
	genSlots  *semaphore.Weighted
	logger    *slog.Logger

	credMu sync.Mutex
	creds  map[int64]*credential.Store
}

// botSession is the per-user menu state on top of the shared controller.
type botSession struct {
	ctrl *view.Controller

	mu          sync.Mutex
	focus       catalog.Key
	hasFocus    bool
	messageID   int
	awaitingKey bool
}

func newBotSession() *botSession {
	return &botSession{ctrl: view.New()}
}

func (s *botSession) menu() (focus catalog.Key, hasFocus bool, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus, s.hasFocus, s.messageID
}

func (s *botSession) update(fn func(s *botSession)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func New(opts Options) (*Handler, error) {
	switch {
	case opts.Telegram == nil:
		return nil, errors.New("telegram client is nil")
	case opts.Generator == nil:
		return nil, errors.New("generator is nil")
	case opts.Backend == nil:
		return nil, errors.New("credential backend is nil")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxGen := opts.MaxGenerations
	if maxGen < 1 {
		maxGen = 1
	}

	return &Handler{
		tg:        opts.Telegram,
		gen:       opts.Generator,
		backend:   opts.Backend,
		sharedKey: strings.TrimSpace(opts.SharedKey),
		sessions: session.NewStore(session.Options[*botSession]{
			TTL: opts.SessionTTL,
			New: newBotSession,
		}),
		genSlots: semaphore.NewWeighted(int64(maxGen)),
		logger:   logger,
		creds:    make(map[int64]*credential.Store),
	}, nil
}

func (h *Handler) session(userID int64) *botSession {
	return h.sessions.Get(strconv.FormatInt(userID, 10))
}

// credentials returns the user's key slot, loading it on first use.
func (h *Handler) credentials(ctx context.Context, userID int64) (*credential.Store, error) {
	h.credMu.Lock()
	defer h.credMu.Unlock()

	if s, ok := h.creds[userID]; ok {
		return s, nil
	}

	s, err := credential.New(credential.Options{
		Backend:  h.backend,
		Key:      fmt.Sprintf("%s:%d", credential.DefaultKey, userID),
		Fallback: h.sharedKey,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	h.creds[userID] = s
	return s, nil
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	if msg.IsCommand() {
		return h.handleCommand(ctx, msg)
	}
	if msg.Text != "" {
		return h.handleText(ctx, msg)
	}
	return nil
}

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	sess := h.session(userID)

	switch msg.Command() {
	case "start":
		sess.update(func(s *botSession) {
			s.hasFocus = false
			s.awaitingKey = false
		})
		return h.renderMenu(chatID, userID, sess, false)
	case "help":
		return h.tg.SendText(chatID,
			"🎨 Prompt Studio\n\n"+
				"Build an image prompt from five categories, or start from a preset.\n\n"+
				"Commands:\n"+
				"/start - Open the menu\n"+
				"/prompt - Send the current prompt\n"+
				"/reset - Clear all selections\n"+
				"/key <value> - Save your Gemini API key (/key clear removes it)\n"+
				"/cancel - Stop waiting for a key\n"+
				"/help - This message",
		)
	case "key":
		value := strings.TrimSpace(msg.CommandArguments())
		if value == "" {
			return h.sendKeyStatus(ctx, chatID, userID)
		}
		if strings.EqualFold(value, "clear") {
			value = ""
		}
		return h.saveKey(ctx, chatID, userID, msg.MessageID, value)
	case "cancel":
		sess.update(func(s *botSession) { s.awaitingKey = false })
		return h.tg.SendText(chatID, "Cancelled.")
	case "reset":
		sess.ctrl.Reset()
		return h.renderMenu(chatID, userID, sess, false)
	case "prompt":
		snap := sess.ctrl.Snapshot()
		if snap.Empty() {
			return h.tg.SendText(chatID, view.ErrorMessage(gemini.ErrEmptyPrompt))
		}
		return h.tg.SendText(chatID, snap.DisplayPrompt)
	default:
		return h.tg.SendText(chatID, "❌ Unknown command. Use /help.")
	}
}

func (h *Handler) handleText(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	sess := h.session(userID)

	var awaiting bool
	sess.update(func(s *botSession) {
		awaiting = s.awaitingKey
		s.awaitingKey = false
	})
	if awaiting {
		return h.saveKey(ctx, chatID, userID, msg.MessageID, msg.Text)
	}

	return h.tg.SendText(chatID, "Use /start to open the menu.")
}

// saveKey stores value and removes the message that carried it.
func (h *Handler) saveKey(ctx context.Context, chatID, userID int64, messageID int, value string) error {
	if err := h.tg.DeleteMessage(chatID, messageID); err != nil {
		h.logger.Warn("delete key message failed", "chat_id", chatID, "err", err)
	}

	store, err := h.credentials(ctx, userID)
	if err != nil {
		h.logger.Error("load credential failed", "user_id", userID, "err", err)
		return h.tg.SendText(chatID, "❌ Failed to save API key.")
	}
	if err := store.Save(ctx, value); err != nil {
		h.logger.Error("save credential failed", "user_id", userID, "err", err)
		return h.tg.SendText(chatID, "❌ Failed to save API key.")
	}

	if store.Value() == "" {
		return h.tg.SendText(chatID, "✅ API key cleared.")
	}
	return h.tg.SendText(chatID, "✅ API key saved: "+store.Masked())
}

func (h *Handler) sendKeyStatus(ctx context.Context, chatID, userID int64) error {
	store, err := h.credentials(ctx, userID)
	if err != nil {
		h.logger.Error("load credential failed", "user_id", userID, "err", err)
		return h.tg.SendText(chatID, "❌ Failed to read API key.")
	}
	return h.tg.SendText(chatID, keyStatusText(store))
}

func keyStatusText(store *credential.Store) string {
	var b strings.Builder
	switch {
	case store.Value() != "":
		b.WriteString("🔑 Saved key: " + store.Masked() + "\n")
	case store.HasFallback():
		b.WriteString("🔑 No personal key saved. The shared server key is used.\n")
	default:
		b.WriteString("🔑 No API key saved.\n")
	}
	b.WriteString("\nSend /key <value> to save a key. The message is deleted right away.")
	return b.String()
}
