package models

import "time"

// SheetType names one of the staff text sheets.
type SheetType string

const (
	SheetGo    SheetType = "go"
	SheetStart SheetType = "start"
)

// Sheet is a free-form text sheet edited by admins from the bot.
type Sheet struct {
	Type      SheetType `json:"sheet_type"`
	Content   string    `json:"content"`
	UpdatedBy int64     `json:"updated_by,omitempty"`
}

// FileType names a photo kept by the bot.
type FileType string

const (
	FileSchedule FileType = "schedule"
	FileSeating  FileType = "seating"
)

// File points at a Telegram photo by its file id.
type File struct {
	Type      FileType `json:"file_type"`
	FileID    string   `json:"file_id"`
	FileName  string   `json:"file_name"`
	UpdatedBy int64    `json:"updated_by,omitempty"`
}

type Admin struct {
	UserID    int64      `json:"user_id"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
