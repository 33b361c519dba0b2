package bot

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-menu/models"
)

func callbackData(t *testing.T, b tgbotapi.InlineKeyboardButton) string {
	t.Helper()
	require.NotNil(t, b.CallbackData)
	return *b.CallbackData
}

func TestMainKeyboard(t *testing.T) {
	kb := mainKeyboard("ru", "")
	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, "menu", callbackData(t, kb.InlineKeyboard[0][0]))

	kb = mainKeyboard("ru", "https://menu.example.com")
	require.Len(t, kb.InlineKeyboard, 5)
	btn := kb.InlineKeyboard[4][0]
	require.NotNil(t, btn.URL)
	assert.Equal(t, "https://menu.example.com", *btn.URL)
	assert.Equal(t, "📱 Открыть меню", btn.Text)
}

func TestCategoriesKeyboard(t *testing.T) {
	kb := categoriesKeyboard("ru", []models.Category{
		{ID: "1", Name: "Супы"},
		{ID: "2", Name: "Горячее"},
	})
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "Супы", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "category:1", callbackData(t, kb.InlineKeyboard[0][0]))
	assert.Equal(t, "category:2", callbackData(t, kb.InlineKeyboard[1][0]))
	assert.Equal(t, "back_main", callbackData(t, kb.InlineKeyboard[2][0]))
}

func TestDishesKeyboard(t *testing.T) {
	long := strings.Repeat("щ", 40)
	kb := dishesKeyboard("ru", []models.Dish{
		{ID: "10", Name: "Борщ"},
		{ID: "11", Name: long},
	})
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "dish:10", callbackData(t, kb.InlineKeyboard[0][0]))
	assert.Equal(t, strings.Repeat("щ", 30)+"...", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "menu", callbackData(t, kb.InlineKeyboard[2][0]))

	empty := dishesKeyboard("ru", nil)
	require.Len(t, empty.InlineKeyboard, 1)
	assert.Equal(t, "⬅️ Назад к категориям", empty.InlineKeyboard[0][0].Text)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Борщ", truncateName("Борщ"))
	exact := strings.Repeat("a", 30)
	assert.Equal(t, exact, truncateName(exact))
	assert.Equal(t, exact+"...", truncateName(exact+"b"))
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		in, action, arg string
	}{
		{"menu", "menu", ""},
		{"back_main", "back_main", ""},
		{"category:7", "category", "7"},
		{"dish:a:b", "dish", "a:b"},
	}
	for _, tt := range tests {
		action, arg := parseCallback(tt.in)
		assert.Equal(t, tt.action, action, tt.in)
		assert.Equal(t, tt.arg, arg, tt.in)
	}
}

func TestPhotoFile(t *testing.T) {
	assert.Equal(t, tgbotapi.FileURL("https://x/y.jpg"), photoFile("https://x/y.jpg"))
	assert.Equal(t, tgbotapi.FileID("AgACAgIAAxk"), photoFile("AgACAgIAAxk"))
}

func TestDishCaption(t *testing.T) {
	price := decimal.NewFromInt(450)
	got := dishCaption("ru", "₽", models.Dish{
		Name:        `<script>x</script>`,
		Composition: "свёкла & капуста",
		Features:    "острое",
		Spiciness:   "2",
		Price:       &price,
	})

	assert.True(t, strings.HasPrefix(got, "<b>&lt;script&gt;x&lt;/script&gt;</b>\n\n"))
	assert.Contains(t, got, "<i>Состав:</i>\nсвёкла &amp; капуста\n\n")
	assert.Contains(t, got, "<i>Особенности:</i>\n🌶 2, острое\n\n")
	assert.NotContains(t, got, "Описание")
	assert.NotContains(t, got, "Аллергены")
	assert.True(t, strings.HasSuffix(got, "<i>Цена:</i> 450 ₽"))
}

func TestDishCaptionWithoutPrice(t *testing.T) {
	got := dishCaption("ru", "₽", models.Dish{Name: "Чай"})
	assert.Equal(t, "<b>Чай</b>\n\n<i>Цена:</i> Цена не указана", got)

	zero := decimal.Zero
	got = dishCaption("ru", "₽", models.Dish{Name: "Чай", Price: &zero})
	assert.True(t, strings.HasSuffix(got, "Цена не указана"))
}
