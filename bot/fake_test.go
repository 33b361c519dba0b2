package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"restaurant-menu/config"
	"restaurant-menu/models"
	"restaurant-menu/services"
)

const testToken = "123456:SECRET-BOT-TOKEN"

type apiCall struct {
	Method string
	Params url.Values
}

// fakeTelegram answers Bot API calls and serves files, recording every
// API call it receives.
type fakeTelegram struct {
	srv   *httptest.Server
	mu    sync.Mutex
	calls []apiCall
	files map[string]string // file path -> body
}

func newFakeTelegram(t *testing.T) *fakeTelegram {
	t.Helper()
	f := &fakeTelegram{files: map[string]string{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTelegram) serve(w http.ResponseWriter, r *http.Request) {
	if path, ok := strings.CutPrefix(r.URL.Path, "/file/bot"+testToken+"/"); ok {
		body, found := f.files[path]
		if !found {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte(body))
		return
	}

	_ = r.ParseForm()
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Params: r.Form})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"menu","username":"menu_bot"}}`))
	case "getFile":
		fileID := r.Form.Get("file_id")
		if fileID == "missing" {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: invalid file_id"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"file_id":"` + fileID + `","file_path":"photos/` + fileID + `.jpg"}}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":2,"date":0,"chat":{"id":100,"type":"private"}}}`))
	}
}

// sent returns the recorded calls other than getMe and answerCallbackQuery.
func (f *fakeTelegram) sent() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == "getMe" || c.Method == "answerCallbackQuery" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (f *fakeTelegram) reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

// memStore is an in-memory Source.
type memStore struct {
	mu         sync.Mutex
	categories []models.Category
	dishes     map[models.ID][]models.Dish
	sheets     map[models.SheetType]string
	files      map[models.FileType]models.File
	admins     map[int64]models.Admin
	err        error
}

func newMemStore() *memStore {
	return &memStore{
		dishes: map[models.ID][]models.Dish{},
		sheets: map[models.SheetType]string{models.SheetGo: "", models.SheetStart: ""},
		files:  map[models.FileType]models.File{},
		admins: map[int64]models.Admin{},
	}
}

func (m *memStore) Categories(ctx context.Context) ([]models.Category, error) {
	return m.categories, m.err
}

func (m *memStore) Dishes(ctx context.Context, id models.ID) ([]models.Dish, error) {
	return m.dishes[id], m.err
}

func (m *memStore) Dish(ctx context.Context, id models.ID) (*models.Dish, error) {
	for _, list := range m.dishes {
		for _, d := range list {
			if d.ID == id {
				return &d, nil
			}
		}
	}
	return nil, services.ErrNotFound
}

func (m *memStore) Sheet(ctx context.Context, t models.SheetType) (*models.Sheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sheets[t]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &models.Sheet{Type: t, Content: c}, nil
}

func (m *memStore) UpdateSheet(ctx context.Context, t models.SheetType, content string, by int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[t]; !ok {
		return services.ErrNotFound
	}
	m.sheets[t] = content
	return nil
}

func (m *memStore) File(ctx context.Context, t models.FileType) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[t]
	if !ok {
		return nil, services.ErrNotFound
	}
	return &f, nil
}

func (m *memStore) SaveFile(ctx context.Context, f models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[f.Type] = f
	return nil
}

func (m *memStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.admins[userID]
	return ok, nil
}

func (m *memStore) AddAdmin(ctx context.Context, a models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[a.UserID] = a
	return nil
}

func (m *memStore) RemoveAdmin(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[userID]; !ok {
		return services.ErrNotFound
	}
	delete(m.admins, userID)
	return nil
}

func (m *memStore) Admins(ctx context.Context) ([]models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Admin
	for _, a := range m.admins {
		out = append(out, a)
	}
	return out, nil
}

const ownerID = 500

func newTestBot(t *testing.T, store *memStore) (*Bot, *fakeTelegram) {
	t.Helper()
	tg := newFakeTelegram(t)
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(testToken, tg.srv.URL+"/bot%s/%s")
	require.NoError(t, err)

	cfg := &config.Config{
		Web:      config.WebConfig{Lang: "ru", Currency: "₽"},
		Telegram: config.TelegramConfig{AdminID: ownerID},
	}
	b := newBot(api, cfg, store)
	b.fileEndpoint = tg.srv.URL + "/file/bot%s/%s"
	tg.reset()
	return b, tg
}

func textMessage(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: 100},
		Text:      text,
	}}
}

func photoMessage(userID int64, fileIDs ...string) tgbotapi.Update {
	u := textMessage(userID, "")
	for _, id := range fileIDs {
		u.Message.Photo = append(u.Message.Photo, tgbotapi.PhotoSize{FileID: id})
	}
	return u
}

func callback(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: 100}},
		Data:    data,
	}}
}
