package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"restaurant-menu/config"
	"restaurant-menu/lang"
	"restaurant-menu/menu"
	"restaurant-menu/models"
	"restaurant-menu/services"
)

const maxButtonName = 30

// MenuSource is the menu data the bot browses.
type MenuSource interface {
	menu.Source
	Dish(ctx context.Context, id models.ID) (*models.Dish, error)
}

// Store holds the staff board: text sheets, schedule and seating photos,
// and the admins allowed to change them.
type Store interface {
	Sheet(ctx context.Context, t models.SheetType) (*models.Sheet, error)
	UpdateSheet(ctx context.Context, t models.SheetType, content string, by int64) error
	File(ctx context.Context, t models.FileType) (*models.File, error)
	SaveFile(ctx context.Context, f models.File) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	AddAdmin(ctx context.Context, a models.Admin) error
	RemoveAdmin(ctx context.Context, userID int64) error
	Admins(ctx context.Context) ([]models.Admin, error)
}

type Source interface {
	MenuSource
	Store
}

// pendingInput is what the bot expects next from an admin.
type pendingInput struct {
	sheet    models.SheetType
	schedule bool
}

type Bot struct {
	api          *tgbotapi.BotAPI
	src          Source
	lang         string
	currency     string
	webApp       string
	owner        int64
	fileEndpoint string
	log          *zap.Logger

	pending   map[int64]pendingInput
	pendingMu sync.Mutex
}

func New(cfg *config.Config, src Source) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return newBot(api, cfg, src), nil
}

func newBot(api *tgbotapi.BotAPI, cfg *config.Config, src Source) *Bot {
	return &Bot{
		api:          api,
		src:          src,
		lang:         cfg.Web.Lang,
		currency:     cfg.Web.Currency,
		webApp:       cfg.Telegram.WebAppURL,
		owner:        cfg.Telegram.AdminID,
		fileEndpoint: tgbotapi.FileEndpoint,
		log:          zap.L().Named("bot"),
		pending:      make(map[int64]pendingInput),
	}
}

// GetAPI returns the underlying bot API.
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: lang.T(b.lang, "choose_option")},
			{Command: "menu", Description: lang.T(b.lang, "btn_menu")},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set commands", zap.Error(err))
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}
	cmd, args := splitCommand(msg.Text)
	switch cmd {
	case "start":
		b.sendWithInline(msg.Chat.ID, lang.T(b.lang, "choose_option"), mainKeyboard(b.lang, b.webApp))
	case "menu":
		b.showCategories(ctx, msg.Chat.ID, 0)
	case "add_admin":
		b.addAdmin(ctx, msg, args)
	case "list_admins":
		b.listAdmins(ctx, msg)
	case "remove_admin":
		b.removeAdmin(ctx, msg, args)
	case "":
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	var userID int64
	if cq.From != nil {
		userID = cq.From.ID
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}

	action, arg := parseCallback(cq.Data)
	switch action {
	case "menu":
		b.showCategories(ctx, chatID, msgID)
	case "back_main":
		b.edit(chatID, msgID, lang.T(b.lang, "choose_option"), mainKeyboard(b.lang, b.webApp), "")
	case "category":
		b.showDishes(ctx, chatID, msgID, models.ID(arg))
	case "dish":
		b.showDishDetail(ctx, chatID, msgID, models.ID(arg))
	case "sheet":
		b.edit(chatID, msgID, lang.T(b.lang, "sheet_options"), sheetKeyboard(b.lang), "")
	case "view_go":
		b.showSheet(ctx, chatID, msgID, models.SheetGo)
	case "view_start":
		b.showSheet(ctx, chatID, msgID, models.SheetStart)
	case "update_sheet":
		if !b.isAdmin(ctx, userID) {
			b.edit(chatID, msgID, lang.T(b.lang, "no_rights_sheet"), tgbotapi.InlineKeyboardMarkup{}, "")
			return
		}
		b.edit(chatID, msgID, lang.T(b.lang, "sheet_choose"), chooseSheetKeyboard(b.lang), "")
	case "set_go", "set_start":
		if !b.isAdmin(ctx, userID) {
			b.edit(chatID, msgID, lang.T(b.lang, "no_rights_sheet"), tgbotapi.InlineKeyboardMarkup{}, "")
			return
		}
		t := models.SheetGo
		if action == "set_start" {
			t = models.SheetStart
		}
		b.expectSheet(userID, t)
		b.edit(chatID, msgID, lang.T(b.lang, "sheet_prompt", string(t)), tgbotapi.InlineKeyboardMarkup{}, "")
	case "schedule":
		b.edit(chatID, msgID, lang.T(b.lang, "schedule_options"), scheduleKeyboard(b.lang), "")
	case "view_schedule":
		b.sendBoardPhoto(ctx, chatID, msgID, models.FileSchedule)
	case "update_schedule":
		if !b.isAdmin(ctx, userID) {
			b.edit(chatID, msgID, lang.T(b.lang, "no_rights_schedule"), tgbotapi.InlineKeyboardMarkup{}, "")
			return
		}
		b.expectSchedule(userID)
		b.edit(chatID, msgID, lang.T(b.lang, "schedule_prompt"), tgbotapi.InlineKeyboardMarkup{}, "")
	case "seating":
		b.sendBoardPhoto(ctx, chatID, msgID, models.FileSeating)
	}
}

// showCategories edits msgID in place, or sends a new message when msgID is 0.
func (b *Bot) showCategories(ctx context.Context, chatID int64, msgID int) {
	cats, err := b.src.Categories(ctx)
	if err != nil {
		b.log.Error("load categories", zap.Error(err))
		b.reply(chatID, msgID, lang.T(b.lang, "load_error"), nil)
		return
	}
	if len(cats) == 0 {
		b.reply(chatID, msgID, lang.T(b.lang, "categories_missing"), nil)
		return
	}
	kb := categoriesKeyboard(b.lang, cats)
	b.reply(chatID, msgID, lang.T(b.lang, "choose_category"), &kb)
}

func (b *Bot) showDishes(ctx context.Context, chatID int64, msgID int, categoryID models.ID) {
	dishes, err := b.src.Dishes(ctx, categoryID)
	if err != nil {
		b.log.Error("load dishes", zap.Stringer("category_id", categoryID), zap.Error(err))
		b.reply(chatID, msgID, lang.T(b.lang, "load_error"), nil)
		return
	}

	name := lang.T(b.lang, "category_fallback")
	if cats, err := b.src.Categories(ctx); err == nil {
		for _, c := range cats {
			if c.ID == categoryID {
				name = c.Name
				break
			}
		}
	}

	text := lang.T(b.lang, "dishes_in", name)
	if len(dishes) == 0 {
		text = lang.T(b.lang, "dishes_empty_in", name)
	}
	kb := dishesKeyboard(b.lang, dishes)
	b.reply(chatID, msgID, text, &kb)
}

func (b *Bot) showDishDetail(ctx context.Context, chatID int64, msgID int, dishID models.ID) {
	d, err := b.src.Dish(ctx, dishID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			b.log.Error("load dish", zap.Stringer("dish_id", dishID), zap.Error(err))
		}
		b.edit(chatID, msgID, lang.T(b.lang, "dish_not_found"), tgbotapi.InlineKeyboardMarkup{}, "")
		return
	}

	text := dishCaption(b.lang, b.currency, *d)
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(b.lang, "btn_back_dishes"), "category:"+d.CategoryID.String()),
	))

	if ref := strings.TrimSpace(d.PhotoFileID); ref != "" {
		photo := tgbotapi.NewPhoto(chatID, photoFile(ref))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeHTML
		photo.ReplyMarkup = kb
		_, err := b.api.Send(photo)
		if err == nil {
			return
		}
		b.log.Warn("send dish photo", zap.Stringer("dish_id", dishID), zap.Error(err))
	}
	b.edit(chatID, msgID, text, kb, tgbotapi.ModeHTML)
}

func (b *Bot) reply(chatID int64, msgID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if msgID != 0 {
		markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		if kb != nil {
			markup = *kb
		}
		b.edit(chatID, msgID, text, markup, "")
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup, parseMode string) {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = parseMode
	if kb.InlineKeyboard != nil {
		edit.ReplyMarkup = &kb
	}
	if _, err := b.api.Send(edit); err != nil {
		if strings.Contains(err.Error(), "not modified") {
			return
		}
		b.log.Error("edit", zap.Int64("chat_id", chatID), zap.Int("message_id", msgID), zap.Error(err))
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// splitCommand returns the command name without the slash or @bot suffix
// and its arguments. Plain text gives an empty command.
func splitCommand(text string) (cmd string, args []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd, _, _ = strings.Cut(strings.TrimPrefix(fields[0], "/"), "@")
	return cmd, fields[1:]
}

func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

func photoFile(ref string) tgbotapi.RequestFileData {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref)
	}
	return tgbotapi.FileID(ref)
}

func mainKeyboard(l, webAppURL string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_menu"), "menu")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_sheet"), "sheet")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_schedule"), "schedule")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_seating"), "seating")),
	}
	if webAppURL != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(lang.T(l, "btn_webapp"), webAppURL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func categoriesKeyboard(l string, cats []models.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range cats {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "category:"+c.ID.String()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_back"), "back_main"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dishesKeyboard(l string, dishes []models.Dish) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, d := range dishes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncateName(d.Name), "dish:"+d.ID.String()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "btn_back_categories"), "menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func truncateName(name string) string {
	if utf8.RuneCountInString(name) <= maxButtonName {
		return name
	}
	return string([]rune(name)[:maxButtonName]) + "..."
}

// dishCaption renders a dish for Telegram's HTML parse mode. All dish text
// is escaped.
func dishCaption(l, currency string, d models.Dish) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n\n", html.EscapeString(d.Name))

	section := func(key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&sb, "<i>%s:</i>\n%s\n\n", lang.T(l, key), html.EscapeString(value))
	}
	section("composition", d.Composition)
	section("description", d.Description)
	section("allergens", d.Allergens)
	section("features", strings.Join(menu.Features(d), ", "))

	price := menu.View{Lang: l, Currency: currency}.Price(d.Price)
	fmt.Fprintf(&sb, "<i>%s:</i> %s", lang.T(l, "price"), html.EscapeString(price))
	return sb.String()
}
