package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"restaurant-menu/models"
)

func (c *SupabaseClient) Sheet(ctx context.Context, t models.SheetType) (*models.Sheet, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("sheet_type", "eq."+string(t))

	var out []models.Sheet
	if err := c.get(ctx, "sheet", "/rest/v1/sheets", q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// UpdateSheet replaces the content of an existing sheet. Sheets are never
// created here; a missing row is ErrNotFound.
func (c *SupabaseClient) UpdateSheet(ctx context.Context, t models.SheetType, content string, by int64) error {
	q := url.Values{}
	q.Set("sheet_type", "eq."+string(t))
	body := map[string]interface{}{"content": content, "updated_by": by}

	var out []models.Sheet
	if err := c.do(ctx, "update_sheet", http.MethodPatch, "/rest/v1/sheets", q, body, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *SupabaseClient) File(ctx context.Context, t models.FileType) (*models.File, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("file_type", "eq."+string(t))

	var out []models.File
	if err := c.get(ctx, "file", "/rest/v1/files", q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// SaveFile updates the row of f.Type, inserting it when there is none yet.
func (c *SupabaseClient) SaveFile(ctx context.Context, f models.File) error {
	if f.FileID == "" {
		return ErrEmptyFileID
	}
	_, err := c.File(ctx, f.Type)
	switch {
	case err == nil:
		q := url.Values{}
		q.Set("file_type", "eq."+string(f.Type))
		body := map[string]interface{}{
			"file_id":    f.FileID,
			"file_name":  f.FileName,
			"updated_by": f.UpdatedBy,
		}
		return c.do(ctx, "save_file", http.MethodPatch, "/rest/v1/files", q, body, nil)
	case errors.Is(err, ErrNotFound):
		return c.do(ctx, "save_file", http.MethodPost, "/rest/v1/files", nil, f, nil)
	default:
		return err
	}
}

func (c *SupabaseClient) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	q := url.Values{}
	q.Set("select", "user_id")
	q.Set("user_id", "eq."+strconv.FormatInt(userID, 10))

	var out []models.Admin
	if err := c.get(ctx, "is_admin", "/rest/v1/admins", q, &out); err != nil {
		return false, err
	}
	return len(out) > 0, nil
}

func (c *SupabaseClient) AddAdmin(ctx context.Context, a models.Admin) error {
	a.CreatedAt = nil
	return c.do(ctx, "add_admin", http.MethodPost, "/rest/v1/admins", nil, a, nil)
}

// RemoveAdmin deletes the admin row; ErrNotFound when nothing was deleted.
func (c *SupabaseClient) RemoveAdmin(ctx context.Context, userID int64) error {
	q := url.Values{}
	q.Set("user_id", "eq."+strconv.FormatInt(userID, 10))

	var out []models.Admin
	if err := c.do(ctx, "remove_admin", http.MethodDelete, "/rest/v1/admins", q, nil, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *SupabaseClient) Admins(ctx context.Context) ([]models.Admin, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at")

	var out []models.Admin
	if err := c.get(ctx, "admins", "/rest/v1/admins", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
