package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
	"github.com/dmitrijs2005/knowledgekeeper/internal/filex"
)

type FilesAPI interface {
	UploadFile(ctx context.Context, filename string, r io.Reader) (*models.FileUploadResponse, error)
	UploadCSVCustom(ctx context.Context, filename string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error)
	UploadExcelCustom(ctx context.Context, filename string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error)
	ListFiles(ctx context.Context) ([]models.FileItem, error)
	DeleteFile(ctx context.Context, id string) error
	DownloadFile(ctx context.Context, id string, w io.Writer) (int64, error)
	FilePDF(ctx context.Context, id string, w io.Writer) (int64, error)
}

// FileService uploads local documents into the knowledge base and manages
// the uploaded originals.
type FileService interface {
	Upload(ctx context.Context, path string) (*models.FileUploadResponse, error)
	UploadMapped(ctx context.Context, path string, m models.ColumnMapping) (*models.FileUploadResponse, error)
	List(ctx context.Context) ([]models.FileItem, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, f models.FileItem, dir string) (string, int64, error)
}

type fileService struct {
	api FilesAPI
}

func NewFileService(a FilesAPI) FileService {
	return &fileService{api: a}
}

// Upload sends any supported file through the generic upload route.
func (s *fileService) Upload(ctx context.Context, path string) (*models.FileUploadResponse, error) {
	if models.KindOf(path) == models.FileUnsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return s.api.UploadFile(ctx, filepath.Base(path), f)
}

// UploadMapped uploads a spreadsheet whose rows become records, using the
// named columns for title and content.
func (s *fileService) UploadMapped(ctx context.Context, path string, m models.ColumnMapping) (*models.FileUploadResponse, error) {
	m.TitleColumn = strings.TrimSpace(m.TitleColumn)
	m.ContentColumn = strings.TrimSpace(m.ContentColumn)
	if m.TitleColumn == "" || m.ContentColumn == "" {
		return nil, fmt.Errorf("%w: title and content columns are required", common.ErrValidation)
	}

	var upload func(context.Context, string, io.Reader, models.ColumnMapping) (*models.FileUploadResponse, error)
	switch models.KindOf(path) {
	case models.FileCSV:
		upload = s.api.UploadCSVCustom
	case models.FileExcel:
		upload = s.api.UploadExcelCustom
	default:
		return nil, fmt.Errorf("%w: column mapping needs a csv or excel file", ErrUnsupportedFile)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return upload(ctx, filepath.Base(path), f, m)
}

func (s *fileService) List(ctx context.Context) ([]models.FileItem, error) {
	return s.api.ListFiles(ctx)
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	return s.api.DeleteFile(ctx, id)
}

// Download stores the original of f in dir and returns the written path.
// PDFs are fetched through the PDF route. A failed transfer leaves no
// partial file behind.
func (s *fileService) Download(ctx context.Context, f models.FileItem, dir string) (string, int64, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return "", 0, err
	}
	path := filepath.Join(dir, filex.SafeFileName(f.DisplayName(), f.ID))

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", path, err)
	}

	fetch := s.api.DownloadFile
	if f.IsPDF() {
		fetch = s.api.FilePDF
	}
	n, err := fetch(ctx, f.ID, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("download %s: %w", f.ID, err)
	}
	return path, n, nil
}
