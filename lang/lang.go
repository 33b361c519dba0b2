// Package lang holds user-facing strings for the mini-app and the bot.
package lang

import "fmt"

const (
	Ru = "ru"
	En = "en"
)

var texts = map[string]map[string]string{
	Ru: {
		"title":                 "Меню ресторана",
		"loading_categories":    "Загрузка категорий...",
		"loading_dishes":        "Загрузка блюд...",
		"no_categories":         "Категории не найдены",
		"no_dishes":             "В этой категории пока нет блюд",
		"load_error":            "Ошибка загрузки данных",
		"price_not_set":         "Цена не указана",
		"no_image":              "Изображение отсутствует",
		"composition":           "Состав",
		"description":           "Описание",
		"allergens":             "Аллергены",
		"features":              "Особенности",
		"price":                 "Цена",
		"choose_option":         "Выберите опцию:",
		"choose_category":       "Выберите категорию:",
		"btn_menu":              "🍽 Меню",
		"btn_webapp":            "📱 Открыть меню",
		"btn_back":              "⬅️ Назад",
		"btn_back_categories":   "⬅️ Назад к категориям",
		"btn_back_dishes":       "⬅️ Назад к блюдам",
		"dishes_in":             "Блюда в категории '%s':",
		"dishes_empty_in":       "В категории '%s' пока нет блюд.",
		"category_fallback":     "Категория",
		"dish_not_found":        "Блюдо не найдено.",
		"categories_missing":    "❌ Категории не найдены в базе данных",
		"btn_sheet":             "📋 Лист",
		"btn_schedule":          "📅 График",
		"btn_seating":           "🪑 Посадка",
		"btn_view_go":           "👁‍🗨 Go Лист",
		"btn_view_start":        "👁‍🗨 Start Лист",
		"btn_update_sheet":      "✏️ Обновить лист",
		"btn_view_schedule":     "👁‍🗨 Посмотреть график",
		"btn_update_schedule":   "✏️ Обновить график",
		"sheet_go":              "Go Лист",
		"sheet_start":           "Start Лист",
		"sheet_options":         "Выберите опцию для листа:",
		"sheet_not_found":       "Лист не найден.",
		"sheet_choose":          "Какой лист обновляем?",
		"sheet_prompt":          "Введите новый текст для %s листа:",
		"sheet_updated":         "✅ %s лист обновлен!",
		"sheet_update_error":    "❌ Ошибка при обновлении листа.",
		"no_rights_sheet":       "❌ У вас нет прав для обновления листа.",
		"schedule_options":      "Выберите опцию для графика:",
		"schedule_caption":      "📅 График работы\n\n⬅️ Используйте кнопку 'Назад' в основном меню",
		"schedule_missing":      "📅 График еще не загружен.",
		"schedule_send_error":   "❌ Ошибка при загрузке графика. Попробуйте обновить его.",
		"schedule_prompt":       "Отправьте новое фото графика:",
		"schedule_updated":      "✅ График обновлен!",
		"schedule_update_error": "❌ Ошибка при обновлении графика.",
		"no_rights_schedule":    "❌ У вас нет прав для обновления графика.",
		"seating_caption":       "🪑 Схема посадки\n\n⬅️ Используйте кнопку 'Назад' в основном меню",
		"seating_missing":       "🪑 Схема посадки еще не загружена.",
		"seating_send_error":    "❌ Ошибка при загрузке схемы посадки. Попробуйте обновить её.",
		"seating_updated":       "✅ Схема посадки обновлена!",
		"seating_update_error":  "❌ Ошибка при обновлении схемы посадки.",
		"photo_not_admin":       "ℹ️ Фото получено. Для обновления графиков обратитесь к администратору.",
		"file_name_schedule":    "График",
		"file_name_seating":     "Схема посадки",
		"no_rights":             "❌ У вас нет прав для выполнения этой команды.",
		"add_admin_usage":       "ℹ️ Использование: /add_admin <user_id>\n\nЧтобы узнать user_id пользователя, попросите его написать @userinfobot",
		"remove_admin_usage":    "ℹ️ Использование: /remove_admin <user_id>",
		"bad_user_id":           "❌ Неверный формат user_id. user_id должен быть числом.",
		"admin_added":           "✅ Пользователь %d добавлен как администратор!",
		"admin_add_error":       "❌ Ошибка при добавлении администратора.",
		"admin_removed":         "✅ Пользователь %d удален из администраторов!",
		"admin_remove_error":    "❌ Ошибка при удалении администратора.",
		"admin_not_found":       "❌ Пользователь %d не является администратором.",
		"admin_remove_self":     "❌ Вы не можете удалить сами себя.",
		"admins_empty":          "📋 Список администраторов пуст.",
		"admins_header":         "📋 Список администраторов:",
		"admin_id":              "🆔 ID: %d",
		"admin_name":            "👤 Имя: %s",
		"admin_username":        "📱 Username: @%s",
		"admin_added_at":        "📅 Добавлен: %s",
		"not_set_name":          "Не указано",
		"not_set_username":      "Не указан",
		"unknown_date":          "Неизвестно",
	},
	En: {
		"title":                 "Restaurant menu",
		"loading_categories":    "Loading categories...",
		"loading_dishes":        "Loading dishes...",
		"no_categories":         "No categories found",
		"no_dishes":             "No dishes in this category yet",
		"load_error":            "Failed to load data",
		"price_not_set":         "Price not specified",
		"no_image":              "No image",
		"composition":           "Composition",
		"description":           "Description",
		"allergens":             "Allergens",
		"features":              "Features",
		"price":                 "Price",
		"choose_option":         "Choose an option:",
		"choose_category":       "Choose a category:",
		"btn_menu":              "🍽 Menu",
		"btn_webapp":            "📱 Open menu",
		"btn_back":              "⬅️ Back",
		"btn_back_categories":   "⬅️ Back to categories",
		"btn_back_dishes":       "⬅️ Back to dishes",
		"dishes_in":             "Dishes in '%s':",
		"dishes_empty_in":       "No dishes in '%s' yet.",
		"category_fallback":     "Category",
		"dish_not_found":        "Dish not found.",
		"categories_missing":    "❌ No categories in the database",
		"btn_sheet":             "📋 Sheet",
		"btn_schedule":          "📅 Schedule",
		"btn_seating":           "🪑 Seating",
		"btn_view_go":           "👁‍🗨 Go sheet",
		"btn_view_start":        "👁‍🗨 Start sheet",
		"btn_update_sheet":      "✏️ Update sheet",
		"btn_view_schedule":     "👁‍🗨 View schedule",
		"btn_update_schedule":   "✏️ Update schedule",
		"sheet_go":              "Go sheet",
		"sheet_start":           "Start sheet",
		"sheet_options":         "Choose a sheet option:",
		"sheet_not_found":       "Sheet not found.",
		"sheet_choose":          "Which sheet should be updated?",
		"sheet_prompt":          "Send the new text for the %s sheet:",
		"sheet_updated":         "✅ %s sheet updated!",
		"sheet_update_error":    "❌ Failed to update the sheet.",
		"no_rights_sheet":       "❌ You are not allowed to update the sheet.",
		"schedule_options":      "Choose a schedule option:",
		"schedule_caption":      "📅 Work schedule\n\n⬅️ Use the 'Back' button in the main menu",
		"schedule_missing":      "📅 The schedule has not been uploaded yet.",
		"schedule_send_error":   "❌ Failed to load the schedule. Try updating it.",
		"schedule_prompt":       "Send the new schedule photo:",
		"schedule_updated":      "✅ Schedule updated!",
		"schedule_update_error": "❌ Failed to update the schedule.",
		"no_rights_schedule":    "❌ You are not allowed to update the schedule.",
		"seating_caption":       "🪑 Seating plan\n\n⬅️ Use the 'Back' button in the main menu",
		"seating_missing":       "🪑 The seating plan has not been uploaded yet.",
		"seating_send_error":    "❌ Failed to load the seating plan. Try updating it.",
		"seating_updated":       "✅ Seating plan updated!",
		"seating_update_error":  "❌ Failed to update the seating plan.",
		"photo_not_admin":       "ℹ️ Photo received. Ask an administrator to update the schedules.",
		"file_name_schedule":    "Schedule",
		"file_name_seating":     "Seating plan",
		"no_rights":             "❌ You are not allowed to run this command.",
		"add_admin_usage":       "ℹ️ Usage: /add_admin <user_id>\n\nTo find a user_id, ask the user to message @userinfobot",
		"remove_admin_usage":    "ℹ️ Usage: /remove_admin <user_id>",
		"bad_user_id":           "❌ Invalid user_id. It must be a number.",
		"admin_added":           "✅ User %d added as an administrator!",
		"admin_add_error":       "❌ Failed to add the administrator.",
		"admin_removed":         "✅ User %d removed from administrators!",
		"admin_remove_error":    "❌ Failed to remove the administrator.",
		"admin_not_found":       "❌ User %d is not an administrator.",
		"admin_remove_self":     "❌ You cannot remove yourself.",
		"admins_empty":          "📋 The administrator list is empty.",
		"admins_header":         "📋 Administrators:",
		"admin_id":              "🆔 ID: %d",
		"admin_name":            "👤 Name: %s",
		"admin_username":        "📱 Username: @%s",
		"admin_added_at":        "📅 Added: %s",
		"not_set_name":          "Not specified",
		"not_set_username":      "Not specified",
		"unknown_date":          "Unknown",
	},
}

// T returns the text for key in the given language, falling back to Russian
// and then to the key itself.
func T(code, key string, args ...interface{}) string {
	s, ok := texts[code][key]
	if !ok {
		s, ok = texts[Ru][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}
