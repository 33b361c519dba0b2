package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"restaurant-menu/lang"
	"restaurant-menu/models"
	"restaurant-menu/services"
)

// isAdmin reports whether userID may edit the board. The configured owner
// is always an admin; a failing store leaves only the owner.
func (b *Bot) isAdmin(ctx context.Context, userID int64) bool {
	if userID == 0 {
		return false
	}
	if b.owner != 0 && userID == b.owner {
		return true
	}
	ok, err := b.src.IsAdmin(ctx, userID)
	if err != nil {
		b.log.Warn("check admin", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return ok
}

func (b *Bot) expectSheet(userID int64, t models.SheetType) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	p := b.pending[userID]
	p.sheet = t
	b.pending[userID] = p
}

func (b *Bot) expectSchedule(userID int64) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	p := b.pending[userID]
	p.schedule = true
	b.pending[userID] = p
}

// takeSheet returns and clears the sheet the user is editing.
func (b *Bot) takeSheet(userID int64) (models.SheetType, bool) {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	p, ok := b.pending[userID]
	if !ok || p.sheet == "" {
		return "", false
	}
	t := p.sheet
	p.sheet = ""
	b.storePending(userID, p)
	return t, true
}

func (b *Bot) takeSchedule(userID int64) bool {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	p, ok := b.pending[userID]
	if !ok || !p.schedule {
		return false
	}
	p.schedule = false
	b.storePending(userID, p)
	return true
}

// storePending must be called with pendingMu held.
func (b *Bot) storePending(userID int64, p pendingInput) {
	if p == (pendingInput{}) {
		delete(b.pending, userID)
		return
	}
	b.pending[userID] = p
}

func (b *Bot) showSheet(ctx context.Context, chatID int64, msgID int, t models.SheetType) {
	sheet, err := b.src.Sheet(ctx, t)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			b.log.Error("load sheet", zap.String("sheet", string(t)), zap.Error(err))
		}
		b.edit(chatID, msgID, lang.T(b.lang, "sheet_not_found"), tgbotapi.InlineKeyboardMarkup{}, "")
		return
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(b.lang, "btn_back"), "sheet"),
	))
	b.edit(chatID, msgID, sheetText(b.lang, sheet), kb, tgbotapi.ModeHTML)
}

// sendBoardPhoto posts the schedule or seating photo as a new message.
func (b *Bot) sendBoardPhoto(ctx context.Context, chatID int64, msgID int, t models.FileType) {
	prefix := string(t)
	f, err := b.src.File(ctx, t)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		b.log.Error("load file", zap.String("file", prefix), zap.Error(err))
	}
	if err != nil || strings.TrimSpace(f.FileID) == "" {
		b.edit(chatID, msgID, lang.T(b.lang, prefix+"_missing"), tgbotapi.InlineKeyboardMarkup{}, "")
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(strings.TrimSpace(f.FileID)))
	photo.Caption = lang.T(b.lang, prefix+"_caption")
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error("send board photo", zap.String("file", prefix), zap.Error(err))
		b.reply(chatID, 0, lang.T(b.lang, prefix+"_send_error"), nil)
	}
}

// handleText takes the new content of a sheet an admin chose to update.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	t, ok := b.takeSheet(msg.From.ID)
	if !ok {
		return
	}
	chatID := msg.Chat.ID
	if err := b.src.UpdateSheet(ctx, t, msg.Text, msg.From.ID); err != nil {
		b.log.Error("update sheet", zap.String("sheet", string(t)), zap.Error(err))
		b.reply(chatID, 0, lang.T(b.lang, "sheet_update_error"), nil)
		return
	}
	b.reply(chatID, 0, lang.T(b.lang, "sheet_updated", sheetShortName(t)), nil)
	b.sendWithInline(chatID, lang.T(b.lang, "choose_option"), mainKeyboard(b.lang, b.webApp))
}

// handlePhoto stores a photo from an admin: the schedule when one was
// requested, the seating plan otherwise.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	admin := b.isAdmin(ctx, userID)

	if b.takeSchedule(userID) {
		if !admin {
			b.reply(chatID, 0, lang.T(b.lang, "no_rights_schedule"), nil)
			return
		}
		if !b.saveFile(ctx, chatID, userID, models.FileSchedule, fileID) {
			return
		}
		b.sendWithInline(chatID, lang.T(b.lang, "choose_option"), mainKeyboard(b.lang, b.webApp))
		return
	}

	if !admin {
		b.reply(chatID, 0, lang.T(b.lang, "photo_not_admin"), nil)
		return
	}
	b.saveFile(ctx, chatID, userID, models.FileSeating, fileID)
}

func (b *Bot) saveFile(ctx context.Context, chatID, userID int64, t models.FileType, fileID string) bool {
	prefix := string(t)
	err := b.src.SaveFile(ctx, models.File{
		Type:      t,
		FileID:    fileID,
		FileName:  lang.T(b.lang, "file_name_"+prefix),
		UpdatedBy: userID,
	})
	if err != nil {
		b.log.Error("save file", zap.String("file", prefix), zap.Error(err))
		b.reply(chatID, 0, lang.T(b.lang, prefix+"_update_error"), nil)
		return false
	}
	b.log.Info("file updated", zap.String("file", prefix), zap.Int64("user_id", userID))
	b.reply(chatID, 0, lang.T(b.lang, prefix+"_updated"), nil)
	return true
}

func (b *Bot) addAdmin(ctx context.Context, msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID
	if msg.From == nil || !b.isAdmin(ctx, msg.From.ID) {
		b.reply(chatID, 0, lang.T(b.lang, "no_rights"), nil)
		return
	}
	if len(args) == 0 {
		b.reply(chatID, 0, lang.T(b.lang, "add_admin_usage"), nil)
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, 0, lang.T(b.lang, "bad_user_id"), nil)
		return
	}
	if err := b.src.AddAdmin(ctx, models.Admin{UserID: id}); err != nil {
		b.log.Error("add admin", zap.Int64("user_id", id), zap.Error(err))
		b.reply(chatID, 0, lang.T(b.lang, "admin_add_error"), nil)
		return
	}
	b.log.Info("admin added", zap.Int64("user_id", id), zap.Int64("by", msg.From.ID))
	b.reply(chatID, 0, lang.T(b.lang, "admin_added", id), nil)
}

func (b *Bot) listAdmins(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.From == nil || !b.isAdmin(ctx, msg.From.ID) {
		b.reply(chatID, 0, lang.T(b.lang, "no_rights"), nil)
		return
	}
	admins, err := b.src.Admins(ctx)
	if err != nil {
		b.log.Error("list admins", zap.Error(err))
		b.reply(chatID, 0, lang.T(b.lang, "load_error"), nil)
		return
	}
	if len(admins) == 0 {
		b.reply(chatID, 0, lang.T(b.lang, "admins_empty"), nil)
		return
	}
	b.reply(chatID, 0, formatAdmins(b.lang, admins), nil)
}

func (b *Bot) removeAdmin(ctx context.Context, msg *tgbotapi.Message, args []string) {
	chatID := msg.Chat.ID
	if msg.From == nil || !b.isAdmin(ctx, msg.From.ID) {
		b.reply(chatID, 0, lang.T(b.lang, "no_rights"), nil)
		return
	}
	if len(args) == 0 {
		b.reply(chatID, 0, lang.T(b.lang, "remove_admin_usage"), nil)
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(chatID, 0, lang.T(b.lang, "bad_user_id"), nil)
		return
	}
	if id == msg.From.ID {
		b.reply(chatID, 0, lang.T(b.lang, "admin_remove_self"), nil)
		return
	}
	err = b.src.RemoveAdmin(ctx, id)
	switch {
	case errors.Is(err, services.ErrNotFound):
		b.reply(chatID, 0, lang.T(b.lang, "admin_not_found", id), nil)
	case err != nil:
		b.log.Error("remove admin", zap.Int64("user_id", id), zap.Error(err))
		b.reply(chatID, 0, lang.T(b.lang, "admin_remove_error"), nil)
	default:
		b.log.Info("admin removed", zap.Int64("user_id", id), zap.Int64("by", msg.From.ID))
		b.reply(chatID, 0, lang.T(b.lang, "admin_removed", id), nil)
	}
}

func sheetShortName(t models.SheetType) string {
	if t == models.SheetStart {
		return "Start"
	}
	return "Go"
}

// sheetText renders a sheet for HTML parse mode; the content is escaped.
func sheetText(l string, s *models.Sheet) string {
	name := lang.T(l, "sheet_"+string(s.Type))
	return fmt.Sprintf("<b>%s:</b>\n\n%s", html.EscapeString(name), html.EscapeString(s.Content))
}

func formatAdmins(l string, admins []models.Admin) string {
	var sb strings.Builder
	sb.WriteString(lang.T(l, "admins_header"))
	sb.WriteString("\n\n")
	for _, a := range admins {
		name := a.FullName
		if name == "" {
			name = lang.T(l, "not_set_name")
		}
		username := strings.TrimPrefix(a.Username, "@")
		if username == "" {
			username = lang.T(l, "not_set_username")
		}
		added := lang.T(l, "unknown_date")
		if a.CreatedAt != nil {
			added = a.CreatedAt.Format("2006-01-02")
		}
		sb.WriteString(lang.T(l, "admin_id", a.UserID) + "\n")
		sb.WriteString(lang.T(l, "admin_name", name) + "\n")
		sb.WriteString(lang.T(l, "admin_username", username) + "\n")
		sb.WriteString(lang.T(l, "admin_added_at", added) + "\n")
		sb.WriteString(strings.Repeat("─", 20) + "\n")
	}
	return sb.String()
}

func sheetKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_view_go"), "view_go")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_view_start"), "view_start")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_update_sheet"), "update_sheet")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_back"), "back_main")),
	)
}

func chooseSheetKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "sheet_go"), "set_go")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "sheet_start"), "set_start")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_back"), "sheet")),
	)
}

func scheduleKeyboard(l string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_view_schedule"), "view_schedule")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_update_schedule"), "update_schedule")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_back"), "back_main")),
	)
}
