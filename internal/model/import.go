package model

import "time"

// ImportLog 导入日志
type ImportLog struct {
	ID             int64      `json:"id"`
	Filename       string     `json:"filename"`
	FilePath       string     `json:"filePath"`
	FileSize       int64      `json:"fileSize"`
	Kind           RosterKind `json:"kind"`
	UploadID       string     `json:"uploadId,omitempty"`
	TotalSheets    int        `json:"totalSheets"`
	ImportedSheets int        `json:"importedSheets"`
	SkippedSheets  int        `json:"skippedSheets"`
	ImportedRows   int        `json:"importedRows"`
	Status         string     `json:"status"` // processing/imported/not_recognized/error
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}
