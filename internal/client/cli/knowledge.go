package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/client/services"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

// ensureList loads the first page once per process so that paging and
// selection commands have something to work on in one-shot mode.
func (a *App) ensureList(ctx context.Context) error {
	if a.listLoaded {
		return nil
	}
	if err := a.list.Refresh(ctx); err != nil {
		return err
	}
	a.listLoaded = true
	return nil
}

func (a *App) showList() {
	st := a.list.Snapshot()
	if st.Err != nil {
		return
	}

	order := "newest first"
	if st.SortOrder == models.SortOldest {
		order = "oldest first"
	}
	a.out.Heading("Page %d/%d (%d records, %s)", st.Page, max(st.TotalPages, 1), st.Total, order)
	if len(st.Items) == 0 {
		a.out.Println("No knowledge yet. Use 'add' or 'upload'.")
		return
	}

	selected := make(map[string]bool, len(st.Selected))
	for _, id := range st.Selected {
		selected[id] = true
	}
	for _, k := range st.Items {
		mark := " "
		if selected[k.ID] {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s", mark, k.ID, k.Title)
		if k.Source != "" {
			line += "  (" + k.Source + ")"
		}
		a.out.Println(line)
	}
	if len(st.Selected) > 0 {
		a.out.Printf("%d selected\n", len(st.Selected))
	}
}

// afterList refreshes the listing on screen, whatever the command result.
func (a *App) afterList(err error) error {
	a.showList()
	return err
}

func (a *App) listKnowledge(ctx context.Context, _ []string) error {
	err := a.list.Refresh(ctx)
	if err == nil {
		a.listLoaded = true
	}
	return a.afterList(err)
}

func (a *App) nextPage(ctx context.Context, _ []string) error {
	if err := a.ensureList(ctx); err != nil {
		return err
	}
	if !a.list.Snapshot().HasNext {
		a.out.Warn("Already on the last page")
		return nil
	}
	return a.afterList(a.list.Next(ctx))
}

func (a *App) prevPage(ctx context.Context, _ []string) error {
	if err := a.ensureList(ctx); err != nil {
		return err
	}
	if !a.list.Snapshot().HasPrev {
		a.out.Warn("Already on the first page")
		return nil
	}
	return a.afterList(a.list.Prev(ctx))
}

func (a *App) gotoPage(ctx context.Context, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: page must be a number", common.ErrValidation)
	}
	if err := a.ensureList(ctx); err != nil {
		return err
	}
	if total := a.list.Snapshot().TotalPages; n < 1 || n > total {
		a.out.Warn("No page %d (there are %d)", n, total)
		return nil
	}
	return a.afterList(a.list.SetPage(ctx, n))
}

func (a *App) sortKnowledge(ctx context.Context, args []string) error {
	order, err := models.ParseSortOrder(args[0])
	if err != nil {
		return err
	}
	a.listLoaded = true
	return a.afterList(a.list.SetSortOrder(ctx, order))
}

func (a *App) selectKnowledge(ctx context.Context, args []string) error {
	if err := a.ensureList(ctx); err != nil {
		return err
	}
	if err := a.list.Select(args...); err != nil {
		return err
	}
	a.out.Printf("%d selected\n", len(a.list.Selected()))
	return nil
}

func (a *App) unselectKnowledge(_ context.Context, args []string) error {
	a.list.Deselect(args...)
	a.out.Printf("%d selected\n", len(a.list.Selected()))
	return nil
}

func (a *App) selectAllKnowledge(ctx context.Context, _ []string) error {
	if err := a.ensureList(ctx); err != nil {
		return err
	}
	a.list.SelectAll()
	a.out.Printf("%d selected\n", len(a.list.Selected()))
	return nil
}

func (a *App) removeKnowledge(ctx context.Context, args []string) error {
	if err := a.ensureList(ctx); err != nil {
		return err
	}
	if err := a.list.Delete(ctx, args[0]); err != nil {
		return a.afterList(err)
	}
	a.out.Success("Deleted %s", args[0])
	return a.afterList(nil)
}

func (a *App) removeSelected(ctx context.Context, _ []string) error {
	ids := a.list.Selected()
	if len(ids) == 0 {
		a.out.Warn("Nothing selected")
		return nil
	}
	if err := a.list.BulkDelete(ctx, ids); err != nil {
		return a.afterList(err)
	}
	a.out.Success("Deleted %d records", len(ids))
	return a.afterList(nil)
}

func (a *App) removeAll(ctx context.Context, _ []string) error {
	if !confirm(a.reader, "Delete ALL knowledge records?", a.out.w) {
		a.out.Println("Cancelled")
		return nil
	}
	a.listLoaded = true
	if err := a.list.DeleteAll(ctx); err != nil {
		return err
	}
	a.out.Success("All knowledge deleted")
	return a.afterList(nil)
}

func (a *App) addKnowledge(ctx context.Context, _ []string) error {
	var in services.KnowledgeInput
	var err error
	if in.Title, err = GetSimpleText(a.reader, "Title", a.out.w); err != nil {
		return err
	}
	if in.Content, err = GetMultiline(a.reader, "Content", a.out.w); err != nil {
		return err
	}
	if in.Source, err = GetSimpleText(a.reader, "Source (optional)", a.out.w); err != nil {
		return err
	}
	if in.Metadata, err = GetSimpleText(a.reader, "Metadata as key:value,key2:value2 (optional)", a.out.w); err != nil {
		return err
	}

	var resp *models.AddKnowledgeResponse
	err = a.list.Mutate(ctx, func(ctx context.Context) error {
		var err error
		resp, err = a.knowledge.Add(ctx, in)
		return err
	})
	if resp != nil {
		a.out.Success("Added %s: %s", resp.ID, resp.Message)
		a.listLoaded = true
	}
	return err
}

// editKnowledge prompts for each field; an empty answer keeps the value.
func (a *App) editKnowledge(ctx context.Context, args []string) error {
	var upd models.UpdateKnowledgeRequest
	ask := func(prompt string, multiline bool) (*string, error) {
		read := GetSimpleText
		if multiline {
			read = GetMultiline
		}
		v, err := read(a.reader, prompt+" (empty keeps the current value)", a.out.w)
		if err != nil || strings.TrimSpace(v) == "" {
			return nil, err
		}
		return &v, nil
	}

	var err error
	if upd.Title, err = ask("New title", false); err != nil {
		return err
	}
	if upd.Content, err = ask("New content", true); err != nil {
		return err
	}
	if upd.Source, err = ask("New source", false); err != nil {
		return err
	}

	if err := a.list.Mutate(ctx, func(ctx context.Context) error {
		return a.knowledge.Update(ctx, args[0], upd)
	}); err != nil {
		return err
	}
	a.listLoaded = true
	a.out.Success("Updated %s", args[0])
	return nil
}
