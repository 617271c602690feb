package api

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

const (
	fieldTitleColumn   = "title_column"
	fieldContentColumn = "content_column"
)

func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) (*models.FileUploadResponse, error) {
	return c.upload(ctx, "/files/upload-file", filename, r, nil)
}

func (c *Client) UploadCSVCustom(ctx context.Context, filename string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error) {
	return c.upload(ctx, "/files/upload-csv-custom", filename, r, mappingFields(m))
}

func (c *Client) UploadExcelCustom(ctx context.Context, filename string, r io.Reader, m models.ColumnMapping) (*models.FileUploadResponse, error) {
	return c.upload(ctx, "/files/upload-excel-custom", filename, r, mappingFields(m))
}

func mappingFields(m models.ColumnMapping) map[string]string {
	return map[string]string{
		fieldTitleColumn:   m.TitleColumn,
		fieldContentColumn: m.ContentColumn,
	}
}

func (c *Client) upload(ctx context.Context, path, filename string, r io.Reader, fields map[string]string) (*models.FileUploadResponse, error) {
	var resp models.FileUploadResponse
	if err := c.Upload(ctx, path, filename, r, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListFiles(ctx context.Context) ([]models.FileItem, error) {
	var files []models.FileItem
	if err := c.Do(ctx, http.MethodGet, "/files/", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, "/files/"+escape(id), nil, nil)
}

// DownloadFile streams the stored original into w.
func (c *Client) DownloadFile(ctx context.Context, id string, w io.Writer) (int64, error) {
	return c.download(ctx, "/files/"+escape(id)+"/download", w)
}

// FilePDF streams a PDF through the backend's dedicated PDF route.
func (c *Client) FilePDF(ctx context.Context, id string, w io.Writer) (int64, error) {
	return c.download(ctx, "/files/"+escape(id)+"/pdf", w)
}
