package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"prompt-studio/internal/catalog"
	"prompt-studio/internal/gemini"
	"prompt-studio/internal/prompt"
	"prompt-studio/internal/view"
)

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil || q.From == nil {
		return nil
	}
	c, ok := parseCallback(q.Data)
	if !ok {
		return nil
	}
	if c.Owner != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "This menu is not yours.", true)
		return nil
	}

	chatID := q.Message.Chat.ID
	sess := h.session(c.Owner)
	sess.update(func(s *botSession) { s.messageID = q.Message.MessageID })

	answer := ""
	switch c.Action {
	case actionTab:
		mode, err := view.ParseMode(c.arg(0))
		if err != nil {
			answer = "Unknown tab."
			break
		}
		_ = sess.ctrl.SwitchTab(mode)
		sess.update(func(s *botSession) { s.hasFocus = false })
	case actionPreset:
		if err := sess.ctrl.ChoosePreset(c.arg(0)); err != nil {
			answer = "Unknown preset."
			break
		}
		sess.update(func(s *botSession) { s.hasFocus = false })
	case actionCategory:
		key, ok := catalog.ParseKey(c.arg(0))
		if !ok {
			answer = "Unknown category."
			break
		}
		_ = sess.ctrl.SwitchTab(view.ModeBuilder)
		sess.update(func(s *botSession) {
			s.focus = key
			s.hasFocus = true
		})
	case actionOption:
		key, ok := catalog.ParseKey(c.arg(0))
		if !ok {
			answer = "Unknown category."
			break
		}
		if err := sess.ctrl.Select(key, c.arg(1)); err != nil {
			answer = "Unknown option."
		}
	case actionBack:
		sess.update(func(s *botSession) { s.hasFocus = false })
	case actionProceed:
		sess.ctrl.Proceed()
		sess.update(func(s *botSession) { s.hasFocus = false })
	case actionReset:
		sess.ctrl.Reset()
		answer = "Selections cleared."
	case actionCopy:
		snap := sess.ctrl.Snapshot()
		if snap.Empty() {
			_ = h.tg.AnswerCallback(q.ID, view.ErrorMessage(gemini.ErrEmptyPrompt), false)
			return nil
		}
		_ = h.tg.AnswerCallback(q.ID, "Prompt sent.", false)
		return h.tg.SendText(chatID, snap.DisplayPrompt)
	case actionGenerate:
		return h.generate(ctx, q, c.Owner, sess)
	case actionSettings:
		sess.update(func(s *botSession) { s.awaitingKey = true })
		_ = h.tg.AnswerCallback(q.ID, "Send your API key.", false)
		store, err := h.credentials(ctx, c.Owner)
		if err != nil {
			h.logger.Error("load credential failed", "user_id", c.Owner, "err", err)
			return h.tg.SendText(chatID, "❌ Failed to read API key.")
		}
		return h.tg.SendText(chatID, keyStatusText(store)+"\n\n📝 Or send the key as the next message (cancel: /cancel).")
	case actionNoop:
		snap := sess.ctrl.Snapshot()
		if snap.Generating {
			answer = "Generating…"
		}
	default:
		return nil
	}

	_ = h.tg.AnswerCallback(q.ID, answer, false)
	return h.renderMenu(chatID, c.Owner, sess, true)
}

func (h *Handler) generate(ctx context.Context, q *tgbotapi.CallbackQuery, userID int64, sess *botSession) error {
	chatID := q.Message.Chat.ID

	snap := sess.ctrl.Snapshot()
	if snap.Generating {
		_ = h.tg.AnswerCallback(q.ID, "Generating…", false)
		return nil
	}
	_ = h.tg.AnswerCallback(q.ID, "Generating…", false)

	store, err := h.credentials(ctx, userID)
	if err != nil {
		h.logger.Error("load credential failed", "user_id", userID, "err", err)
		return h.tg.SendText(chatID, "❌ Failed to read API key.")
	}

	if err := h.genSlots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.genSlots.Release(1)

	pending := snap
	pending.Generating = true
	pending.Error = ""
	h.editMenu(chatID, userID, sess, pending)
	h.tg.SendTyping(chatID)

	snap, err = sess.ctrl.Generate(ctx, h.gen, store.Resolve())
	switch {
	case err == nil:
		if snap.Image != nil {
			if err := h.tg.SendPhoto(chatID, *snap.Image, "✅ Preview generated"); err != nil {
				h.logger.Error("send preview failed", "user_id", userID, "err", err)
			}
		}
		return h.renderMenu(chatID, userID, sess, false)
	case errors.Is(err, view.ErrGenerationInProgress):
		return nil
	case errors.Is(err, view.ErrStaleResult):
		h.logger.Info("generation result discarded", "user_id", userID)
		return nil
	default:
		h.logger.Warn("generation failed", "user_id", userID, "err", err)
		return h.renderMenu(chatID, userID, sess, true)
	}
}

// renderMenu draws the current state, editing the last menu when possible.
func (h *Handler) renderMenu(chatID, userID int64, sess *botSession, edit bool) error {
	snap := sess.ctrl.Snapshot()
	focus, hasFocus, messageID := sess.menu()

	text := menuText(snap, focus, hasFocus)
	kb := menuKeyboard(userID, snap, focus, hasFocus)

	if edit && messageID != 0 {
		if err := h.tg.EditTextWithKeyboard(chatID, messageID, text, kb); err == nil {
			return nil
		}
	}

	msgID, err := h.tg.SendTextWithKeyboard(chatID, text, kb)
	if err != nil {
		return err
	}
	sess.update(func(s *botSession) { s.messageID = msgID })
	return nil
}

func (h *Handler) editMenu(chatID, userID int64, sess *botSession, snap view.Snapshot) {
	focus, hasFocus, messageID := sess.menu()
	if messageID == 0 {
		return
	}
	text := menuText(snap, focus, hasFocus)
	kb := menuKeyboard(userID, snap, focus, hasFocus)
	if err := h.tg.EditTextWithKeyboard(chatID, messageID, text, kb); err != nil {
		h.logger.Debug("edit menu failed", "chat_id", chatID, "err", err)
	}
}

func menuText(snap view.Snapshot, focus catalog.Key, hasFocus bool) string {
	var b strings.Builder
	b.WriteString("🎨 Prompt Studio · " + snap.Mode.Title() + "\n")
	if snap.Ready() {
		b.WriteString(fmt.Sprintf("Progress: %d/%d, ready to preview\n\n", snap.Completed, snap.Total))
	} else {
		b.WriteString(fmt.Sprintf("Progress: %d/%d\n\n", snap.Completed, snap.Total))
	}

	switch snap.Mode {
	case view.ModeCatalog:
		b.WriteString("Pick a preset to fill every category at once:\n")
		for _, p := range catalog.Presets() {
			b.WriteString("• " + p.Name + ": " + p.Description + "\n")
		}
	case view.ModeBuilder:
		if cat, ok := catalog.CategoryFor(focus); hasFocus && ok {
			b.WriteString(fmt.Sprintf("%d. %s: %s\n", int(cat.Key)+1, cat.Title, cat.Description))
			b.WriteString("Tap an option to select it, tap it again to clear.\n\n")
			current := snap.Slots[cat.Key].ID()
			for _, o := range cat.Options {
				mark := "▫️"
				if o.ID == current {
					mark = "✅"
				}
				b.WriteString(mark + " " + o.Label + ": " + o.Description + "\n")
			}
			break
		}
		for _, cat := range catalog.Categories() {
			b.WriteString(fmt.Sprintf("%d. %s: %s\n", int(cat.Key)+1, cat.Title, slotLabel(snap, cat.Key)))
		}
	case view.ModePreview:
		if snap.Empty() {
			b.WriteString(prompt.Placeholder + "\n")
		} else {
			b.WriteString(snap.DisplayPrompt + "\n")
		}
		switch {
		case snap.Generating:
			b.WriteString("\n⏳ Generating…\n")
		case snap.Error != "":
			b.WriteString("\n❌ " + snap.Error + "\n")
		case snap.Image != nil:
			b.WriteString("\n✅ Preview generated.\n")
		}
	}

	return strings.TrimSpace(b.String())
}

func menuKeyboard(ownerID int64, snap view.Snapshot, focus catalog.Key, hasFocus bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{tabsRow(ownerID, snap.Mode)}

	switch snap.Mode {
	case view.ModeCatalog:
		rows = append(rows, presetRows(ownerID)...)
	case view.ModeBuilder:
		if hasFocus && focus.Valid() {
			rows = append(rows, optionRows(ownerID, snap, focus)...)
		} else {
			rows = append(rows, categoryRows(ownerID, snap)...)
		}
	case view.ModePreview:
		rows = append(rows, previewRows(ownerID, snap)...)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func tabsRow(ownerID int64, active view.Mode) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range view.Modes() {
		label := m.Title()
		if m == active {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, actionTab, m.String())))
	}
	return row
}

func presetRows(ownerID int64) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, p := range catalog.Presets() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(p.Name, cb(ownerID, actionPreset, p.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func categoryRows(ownerID int64, snap view.Snapshot) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, cat := range catalog.Categories() {
		label := fmt.Sprintf("%d. %s: %s", int(cat.Key)+1, cat.Title, slotLabel(snap, cat.Key))
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, actionCategory, cat.Key.String())),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Proceed to Preview ▶", cb(ownerID, actionProceed)),
	})
	return rows
}

func optionRows(ownerID int64, snap view.Snapshot, focus catalog.Key) [][]tgbotapi.InlineKeyboardButton {
	cat, _ := catalog.CategoryFor(focus)
	current := snap.Slots[focus].ID()

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range cat.Options {
		label := o.Label
		if o.ID == current {
			label = "✅ " + label
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label, cb(ownerID, actionOption, focus.String(), o.ID)),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ Back", cb(ownerID, actionBack)),
	})
	return rows
}

func previewRows(ownerID int64, snap view.Snapshot) [][]tgbotapi.InlineKeyboardButton {
	generate := tgbotapi.NewInlineKeyboardButtonData("🎨 Generate Preview", cb(ownerID, actionGenerate))
	if snap.Generating {
		generate = tgbotapi.NewInlineKeyboardButtonData("⏳ Generating…", cb(ownerID, actionNoop))
	}

	return [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📋 Copy", cb(ownerID, actionCopy)),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Reset", cb(ownerID, actionReset)),
		},
		{generate},
		{tgbotapi.NewInlineKeyboardButtonData("⚙ Settings", cb(ownerID, actionSettings))},
	}
}

func slotLabel(snap view.Snapshot, k catalog.Key) string {
	if o, ok := snap.Slots[k].Option(); ok {
		return o.Label
	}
	return "(none)"
}
