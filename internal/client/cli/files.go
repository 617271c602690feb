package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

// upload takes a path and, for spreadsheets, optionally the title and
// content column names.
func (a *App) upload(ctx context.Context, args []string) error {
	var (
		resp *models.FileUploadResponse
		err  error
	)
	switch len(args) {
	case 1:
		resp, err = a.files.Upload(ctx, args[0])
	case 3:
		resp, err = a.files.UploadMapped(ctx, args[0], models.ColumnMapping{TitleColumn: args[1], ContentColumn: args[2]})
	default:
		return fmt.Errorf("%w: give both column names or neither", common.ErrValidation)
	}
	if err != nil {
		return err
	}

	a.listLoaded = false
	a.out.Success("%s (%d records created)", resp.Message, resp.ItemsCreated)
	return nil
}

func (a *App) listFiles(ctx context.Context, _ []string) error {
	files, err := a.files.List(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		a.out.Println("No files uploaded.")
		return nil
	}
	for _, f := range files {
		a.out.Printf("%-24s %-5s %8d  %s\n", f.ID, f.FileType, f.FileSize, f.DisplayName())
	}
	return nil
}

func (a *App) removeFile(ctx context.Context, args []string) error {
	if err := a.files.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.out.Success("File %s deleted", args[0])
	return nil
}

func (a *App) download(ctx context.Context, args []string) error {
	files, err := a.files.List(ctx)
	if err != nil {
		return err
	}

	dir := a.config.DownloadDir()
	if len(args) > 1 {
		dir = args[1]
	}
	for _, f := range files {
		if f.ID != args[0] {
			continue
		}
		path, n, err := a.files.Download(ctx, f, dir)
		if err != nil {
			return err
		}
		a.out.Success("Saved %s (%d bytes)", path, n)
		return nil
	}
	return fmt.Errorf("file %s: %w", args[0], common.ErrNotFound)
}
