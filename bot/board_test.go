package bot

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-menu/models"
)

func TestMainKeyboardHasBoardButtons(t *testing.T) {
	kb := mainKeyboard("ru", "")
	var data []string
	for _, row := range kb.InlineKeyboard {
		data = append(data, callbackData(t, row[0]))
	}
	assert.Equal(t, []string{"menu", "sheet", "schedule", "seating"}, data)
}

func TestSheetViewEscapesContent(t *testing.T) {
	store := newMemStore()
	store.sheets[models.SheetGo] = "<b>9:00</b> & coffee"
	b, tg := newTestBot(t, store)

	b.handleUpdate(context.Background(), callback(1, "view_go"))

	calls := tg.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "editMessageText", calls[0].Method)
	assert.Equal(t, "<b>Go Лист:</b>\n\n&lt;b&gt;9:00&lt;/b&gt; &amp; coffee", calls[0].Params.Get("text"))
	assert.Equal(t, "HTML", calls[0].Params.Get("parse_mode"))
	assert.Contains(t, calls[0].Params.Get("reply_markup"), `"callback_data":"sheet"`)
}

func TestSheetMissing(t *testing.T) {
	store := newMemStore()
	delete(store.sheets, models.SheetStart)
	b, tg := newTestBot(t, store)

	b.handleUpdate(context.Background(), callback(1, "view_start"))

	calls := tg.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "Лист не найден.", calls[0].Params.Get("text"))
}

func TestSheetUpdateRequiresAdmin(t *testing.T) {
	store := newMemStore()
	b, tg := newTestBot(t, store)

	b.handleUpdate(context.Background(), callback(42, "update_sheet"))
	b.handleUpdate(context.Background(), callback(42, "set_go"))
	b.handleUpdate(context.Background(), textMessage(42, "hijacked"))

	calls := tg.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, "❌ У вас нет прав для обновления листа.", calls[0].Params.Get("text"))
	assert.Equal(t, "❌ У вас нет прав для обновления листа.", calls[1].Params.Get("text"))
	assert.Equal(t, "", store.sheets[models.SheetGo])
}

func TestSheetUpdateFlow(t *testing.T) {
	store := newMemStore()
	store.admins[42] = models.Admin{UserID: 42}
	b, tg := newTestBot(t, store)
	ctx := context.Background()

	b.handleUpdate(ctx, callback(42, "update_sheet"))
	b.handleUpdate(ctx, callback(42, "set_start"))
	b.handleUpdate(ctx, textMessage(42, "Smena s 10:00"))

	calls := tg.sent()
	require.Len(t, calls, 4)
	assert.Equal(t, "Какой лист обновляем?", calls[0].Params.Get("text"))
	assert.Equal(t, "Введите новый текст для start листа:", calls[1].Params.Get("text"))
	assert.Equal(t, "✅ Start лист обновлен!", calls[2].Params.Get("text"))
	assert.Equal(t, "Выберите опцию:", calls[3].Params.Get("text"))
	assert.Equal(t, "Smena s 10:00", store.sheets[models.SheetStart])

	// The pending edit is consumed; later text is ignored.
	tg.reset()
	b.handleUpdate(ctx, textMessage(42, "again"))
	assert.Empty(t, tg.sent())
	assert.Equal(t, "Smena s 10:00", store.sheets[models.SheetStart])
}

func TestBoardPhotoViews(t *testing.T) {
	store := newMemStore()
	b, tg := newTestBot(t, store)
	ctx := context.Background()

	b.handleUpdate(ctx, callback(1, "view_schedule"))
	b.handleUpdate(ctx, callback(1, "seating"))
	calls := tg.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, "📅 График еще не загружен.", calls[0].Params.Get("text"))
	assert.Equal(t, "🪑 Схема посадки еще не загружена.", calls[1].Params.Get("text"))

	store.files[models.FileSchedule] = models.File{Type: models.FileSchedule, FileID: "AgAC-schedule"}
	tg.reset()
	b.handleUpdate(ctx, callback(1, "view_schedule"))
	calls = tg.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "sendPhoto", calls[0].Method)
	assert.Equal(t, "AgAC-schedule", calls[0].Params.Get("photo"))
	assert.Contains(t, calls[0].Params.Get("caption"), "📅 График работы")
}

func TestSchedulePhotoUpload(t *testing.T) {
	store := newMemStore()
	b, tg := newTestBot(t, store)
	ctx := context.Background()

	b.handleUpdate(ctx, callback(ownerID, "update_schedule"))
	b.handleUpdate(ctx, photoMessage(ownerID, "small", "large"))

	require.Contains(t, store.files, models.FileSchedule)
	f := store.files[models.FileSchedule]
	assert.Equal(t, "large", f.FileID)
	assert.Equal(t, "График", f.FileName)
	assert.Equal(t, int64(ownerID), f.UpdatedBy)
	assert.NotContains(t, store.files, models.FileSeating)

	calls := tg.sent()
	require.Len(t, calls, 3)
	assert.Equal(t, "Отправьте новое фото графика:", calls[0].Params.Get("text"))
	assert.Equal(t, "✅ График обновлен!", calls[1].Params.Get("text"))
	assert.Equal(t, "Выберите опцию:", calls[2].Params.Get("text"))

	// Without a pending schedule request the photo becomes the seating plan.
	tg.reset()
	b.handleUpdate(ctx, photoMessage(ownerID, "seat"))
	assert.Equal(t, "seat", store.files[models.FileSeating].FileID)
	assert.Equal(t, "large", store.files[models.FileSchedule].FileID)
	calls = tg.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "✅ Схема посадки обновлена!", calls[0].Params.Get("text"))
}

func TestPhotoFromNonAdmin(t *testing.T) {
	store := newMemStore()
	b, tg := newTestBot(t, store)
	ctx := context.Background()

	b.handleUpdate(ctx, callback(42, "update_schedule"))
	b.handleUpdate(ctx, photoMessage(42, "p"))

	assert.Empty(t, store.files)
	calls := tg.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, "❌ У вас нет прав для обновления графика.", calls[0].Params.Get("text"))
	assert.Equal(t, "ℹ️ Фото получено. Для обновления графиков обратитесь к администратору.", calls[1].Params.Get("text"))
}

func TestAdminCommands(t *testing.T) {
	store := newMemStore()
	b, tg := newTestBot(t, store)
	ctx := context.Background()

	tests := []struct {
		name string
		from int64
		text string
		want string
	}{
		{"not admin", 42, "/add_admin 7", "❌ У вас нет прав для выполнения этой команды."},
		{"usage", ownerID, "/add_admin", "ℹ️ Использование: /add_admin <user_id>\n\nЧтобы узнать user_id пользователя, попросите его написать @userinfobot"},
		{"bad id", ownerID, "/add_admin abc", "❌ Неверный формат user_id. user_id должен быть числом."},
		{"added", ownerID, "/add_admin@menu_bot 42", "✅ Пользователь 42 добавлен как администратор!"},
		{"new admin can list", 42, "/list_admins", ""},
		{"remove self", 42, "/remove_admin 42", "❌ Вы не можете удалить сами себя."},
		{"remove unknown", 42, "/remove_admin 9", "❌ Пользователь 9 не является администратором."},
		{"remove usage", 42, "/remove_admin", "ℹ️ Использование: /remove_admin <user_id>"},
		{"removed", ownerID, "/remove_admin 42", "✅ Пользователь 42 удален из администраторов!"},
		{"removed admin loses rights", 42, "/list_admins", "❌ У вас нет прав для выполнения этой команды."},
		{"empty list", ownerID, "/list_admins", "📋 Список администраторов пуст."},
	}
	for _, tt := range tests {
		tg.reset()
		b.handleUpdate(ctx, textMessage(tt.from, tt.text))
		calls := tg.sent()
		require.Len(t, calls, 1, tt.name)
		if tt.want != "" {
			assert.Equal(t, tt.want, calls[0].Params.Get("text"), tt.name)
		} else {
			assert.Contains(t, calls[0].Params.Get("text"), "🆔 ID: 42", tt.name)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	store := newMemStore()
	store.admins[42] = models.Admin{UserID: 42}
	b, _ := newTestBot(t, store)
	ctx := context.Background()

	assert.True(t, b.isAdmin(ctx, ownerID))
	assert.True(t, b.isAdmin(ctx, 42))
	assert.False(t, b.isAdmin(ctx, 43))
	assert.False(t, b.isAdmin(ctx, 0))

	store.err = errors.New("db down")
	assert.True(t, b.isAdmin(ctx, ownerID))
	assert.False(t, b.isAdmin(ctx, 42))
}

func TestFormatAdmins(t *testing.T) {
	added := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	got := formatAdmins("ru", []models.Admin{
		{UserID: 1, Username: "chef", FullName: "Anna", CreatedAt: &added},
		{UserID: 2},
	})

	want := "📋 Список администраторов:\n\n" +
		"🆔 ID: 1\n👤 Имя: Anna\n📱 Username: @chef\n📅 Добавлен: 2024-03-01\n" +
		"────────────────────\n" +
		"🆔 ID: 2\n👤 Имя: Не указано\n📱 Username: @Не указан\n📅 Добавлен: Неизвестно\n" +
		"────────────────────\n"
	assert.Equal(t, want, got)
}

func TestSplitCommand(t *testing.T) {
	cmd, args := splitCommand("/add_admin@menu_bot 42 extra")
	assert.Equal(t, "add_admin", cmd)
	assert.Equal(t, []string{"42", "extra"}, args)

	cmd, args = splitCommand("just text")
	assert.Equal(t, "", cmd)
	assert.Nil(t, args)

	cmd, _ = splitCommand("  /start ")
	assert.Equal(t, "start", cmd)
}

func TestCategoriesErrorIsNotEmpty(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("401")
	b, tg := newTestBot(t, store)

	b.handleUpdate(context.Background(), callback(1, "menu"))
	calls := tg.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "Ошибка загрузки данных", calls[0].Params.Get("text"))

	store.err = nil
	tg.reset()
	b.handleUpdate(context.Background(), callback(1, "menu"))
	calls = tg.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, "❌ Категории не найдены в базе данных", calls[0].Params.Get("text"))
}

func TestOpenPhotoStreamsBytes(t *testing.T) {
	b, tg := newTestBot(t, newMemStore())
	tg.files["photos/AgACfile.jpg"] = "JPEGDATA"

	body, contentType, err := b.OpenPhoto(context.Background(), "AgACfile")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "JPEGDATA", string(data))
	assert.Equal(t, "image/jpeg", contentType)
}

func TestOpenPhotoErrorsHideToken(t *testing.T) {
	b, _ := newTestBot(t, newMemStore())
	ctx := context.Background()

	_, _, err := b.OpenPhoto(ctx, "missing")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET")

	_, _, err = b.OpenPhoto(ctx, "nofile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.NotContains(t, err.Error(), "SECRET")

	b.fileEndpoint = "http://127.0.0.1:1/file/bot%s/%s"
	_, _, err = b.OpenPhoto(ctx, "AgACfile")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET")
	assert.Contains(t, err.Error(), "<token>")
}
