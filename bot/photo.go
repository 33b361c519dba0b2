package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OpenPhoto downloads a Telegram photo by file id. The caller must close the
// returned body. Download URLs embed the bot token, so they never leave this
// package and are scrubbed from returned errors.
func (b *Bot) OpenPhoto(ctx context.Context, fileID string) (io.ReadCloser, string, error) {
	f, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("get file %s: %w", fileID, b.redact(err))
	}
	if f.FilePath == "" {
		return nil, "", fmt.Errorf("get file %s: no file path", fileID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(b.fileEndpoint, b.api.Token, f.FilePath), nil)
	if err != nil {
		return nil, "", fmt.Errorf("download file %s: %w", fileID, b.redact(err))
	}
	resp, err := b.api.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file %s: %w", fileID, b.redact(err))
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("download file %s: status %d", fileID, resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// redact strips the bot token from errors that carry a request URL.
func (b *Bot) redact(err error) error {
	if b.api.Token == "" || !strings.Contains(err.Error(), b.api.Token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), b.api.Token, "<token>"))
}
