package models

import (
	"path/filepath"
	"strings"
)

// FileItem is an uploaded document as listed by the backend.
type FileItem struct {
	ID               string   `json:"_id"`
	Filename         string   `json:"filename"`
	OriginalFilename string   `json:"original_filename"`
	CloudinaryURL    string   `json:"cloudinary_url"`
	FileType         string   `json:"file_type"`
	FileSize         int64    `json:"file_size"`
	UploadDate       string   `json:"upload_date"`
	KnowledgeIDs     []string `json:"knowledge_ids"`
}

func (f FileItem) GetID() string { return f.ID }

// IsPDF reports whether the backend serves the file through its PDF route.
func (f FileItem) IsPDF() bool {
	return strings.EqualFold(f.FileType, "pdf")
}

// DisplayName prefers the name the user uploaded.
func (f FileItem) DisplayName() string {
	if f.OriginalFilename != "" {
		return f.OriginalFilename
	}
	return f.Filename
}

type FileUploadResponse struct {
	Message      string   `json:"message"`
	IDs          []string `json:"ids"`
	ItemsCreated int      `json:"items_created"`
}

// ColumnMapping names the spreadsheet columns that become a record's title
// and content.
type ColumnMapping struct {
	TitleColumn   string
	ContentColumn string
}

// FileKind groups the upload formats the backend accepts.
type FileKind int

const (
	FileUnsupported FileKind = iota
	FileDocument
	FileCSV
	FileExcel
)

// KindOf classifies a file by extension, case-insensitively.
func KindOf(name string) FileKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt":
		return FileDocument
	case ".csv":
		return FileCSV
	case ".xlsx", ".xls":
		return FileExcel
	default:
		return FileUnsupported
	}
}
