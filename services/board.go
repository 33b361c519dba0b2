package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"restaurant-menu/db"
	"restaurant-menu/models"
)

// EnsureBoardTables makes sure the sheet, file and admin tables exist.
// This is a safety net for databases where migrations were not applied.
func EnsureBoardTables(ctx context.Context) error {
	var regclass *string
	if err := db.Pool.QueryRow(ctx, `SELECT to_regclass('public.admins')`).Scan(&regclass); err != nil {
		return fmt.Errorf("check admins table existence: %w", err)
	}
	if regclass != nil {
		return nil
	}
	if _, err := db.Pool.Exec(ctx, boardSchema); err != nil {
		return fmt.Errorf("create board tables: %w", err)
	}
	return nil
}

const boardSchema = `
	CREATE TABLE IF NOT EXISTS sheets (
		sheet_type  TEXT PRIMARY KEY,
		content     TEXT NOT NULL DEFAULT '',
		updated_by  BIGINT,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	INSERT INTO sheets (sheet_type) VALUES ('go'), ('start') ON CONFLICT DO NOTHING;

	CREATE TABLE IF NOT EXISTS files (
		file_type   TEXT PRIMARY KEY,
		file_id     TEXT NOT NULL,
		file_name   TEXT NOT NULL DEFAULT '',
		updated_by  BIGINT,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS admins (
		user_id     BIGINT PRIMARY KEY,
		username    TEXT NOT NULL DEFAULT '',
		full_name   TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);`

func GetSheet(ctx context.Context, t models.SheetType) (*models.Sheet, error) {
	s := models.Sheet{Type: t}
	var by *int64
	err := db.Pool.QueryRow(ctx,
		`SELECT content, updated_by FROM sheets WHERE sheet_type = $1`, string(t),
	).Scan(&s.Content, &by)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &ServiceError{Op: "sheet", Err: err}
	}
	if by != nil {
		s.UpdatedBy = *by
	}
	return &s, nil
}

func UpdateSheet(ctx context.Context, t models.SheetType, content string, by int64) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE sheets SET content = $2, updated_by = $3, updated_at = now()
		WHERE sheet_type = $1`,
		string(t), content, by,
	)
	if err != nil {
		return &ServiceError{Op: "update_sheet", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func GetFile(ctx context.Context, t models.FileType) (*models.File, error) {
	f := models.File{Type: t}
	var by *int64
	err := db.Pool.QueryRow(ctx,
		`SELECT file_id, file_name, updated_by FROM files WHERE file_type = $1`, string(t),
	).Scan(&f.FileID, &f.FileName, &by)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &ServiceError{Op: "file", Err: err}
	}
	if by != nil {
		f.UpdatedBy = *by
	}
	return &f, nil
}

func SaveFile(ctx context.Context, f models.File) error {
	if f.FileID == "" {
		return ErrEmptyFileID
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO files (file_type, file_id, file_name, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (file_type) DO UPDATE
		SET file_id = EXCLUDED.file_id, file_name = EXCLUDED.file_name,
			updated_by = EXCLUDED.updated_by, updated_at = now()`,
		string(f.Type), f.FileID, f.FileName, f.UpdatedBy,
	)
	if err != nil {
		return &ServiceError{Op: "save_file", Err: err}
	}
	return nil
}

func IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, &ServiceError{Op: "is_admin", Err: err}
	}
	return exists, nil
}

// AddAdmin inserts the admin or refreshes the name of an existing one.
func AddAdmin(ctx context.Context, a models.Admin) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO admins (user_id, username, full_name) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username, full_name = EXCLUDED.full_name`,
		a.UserID, a.Username, a.FullName,
	)
	if err != nil {
		return &ServiceError{Op: "add_admin", Err: err}
	}
	return nil
}

func RemoveAdmin(ctx context.Context, userID int64) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
	if err != nil {
		return &ServiceError{Op: "remove_admin", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func ListAdmins(ctx context.Context) ([]models.Admin, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT user_id, username, full_name, created_at FROM admins
		ORDER BY created_at, user_id`,
	)
	if err != nil {
		return nil, &ServiceError{Op: "admins", Err: err}
	}
	defer rows.Close()

	var items []models.Admin
	for rows.Next() {
		var a models.Admin
		var created time.Time
		if err := rows.Scan(&a.UserID, &a.Username, &a.FullName, &created); err != nil {
			return nil, &ServiceError{Op: "admins", Err: err}
		}
		a.CreatedAt = &created
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &ServiceError{Op: "admins", Err: err}
	}
	return items, nil
}

func (PgSource) Sheet(ctx context.Context, t models.SheetType) (*models.Sheet, error) {
	return GetSheet(ctx, t)
}

func (PgSource) UpdateSheet(ctx context.Context, t models.SheetType, content string, by int64) error {
	return UpdateSheet(ctx, t, content, by)
}

func (PgSource) File(ctx context.Context, t models.FileType) (*models.File, error) {
	return GetFile(ctx, t)
}

func (PgSource) SaveFile(ctx context.Context, f models.File) error {
	return SaveFile(ctx, f)
}

func (PgSource) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return IsAdmin(ctx, userID)
}

func (PgSource) AddAdmin(ctx context.Context, a models.Admin) error {
	return AddAdmin(ctx, a)
}

func (PgSource) RemoveAdmin(ctx context.Context, userID int64) error {
	return RemoveAdmin(ctx, userID)
}

func (PgSource) Admins(ctx context.Context) ([]models.Admin, error) {
	return ListAdmins(ctx)
}
