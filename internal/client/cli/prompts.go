package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

func (a *App) listPrompts(ctx context.Context, _ []string) error {
	ps, err := a.prompts.List(ctx)
	if err != nil {
		return err
	}
	if len(ps) == 0 {
		a.out.Println("No system prompts.")
		return nil
	}
	for _, p := range ps {
		tags := ""
		if p.IsActive {
			tags += " [active]"
		}
		if p.IsDefault {
			tags += " [default]"
		}
		a.out.Printf("%-24s %s%s\n", p.ID, p.Name, tags)
		if p.Description != "" {
			a.out.Printf("%-24s %s\n", "", p.Description)
		}
	}
	return nil
}

func (a *App) readPrompt(cur models.SystemPrompt) (models.SystemPromptInput, error) {
	in := models.SystemPromptInput{
		Name:        cur.Name,
		Prompt:      cur.Prompt,
		Description: cur.Description,
		IsActive:    cur.IsActive,
		IsDefault:   cur.IsDefault,
	}
	keep := ""
	if cur.ID != "" {
		keep = " (empty keeps the current value)"
	}

	v, err := GetSimpleText(a.reader, "Name"+keep, a.out.w)
	if err != nil {
		return in, err
	}
	if v != "" {
		in.Name = v
	}
	if v, err = GetMultiline(a.reader, "Prompt"+keep, a.out.w); err != nil {
		return in, err
	}
	if v != "" {
		in.Prompt = v
	}
	if v, err = GetSimpleText(a.reader, "Description"+keep, a.out.w); err != nil {
		return in, err
	}
	if v != "" {
		in.Description = v
	}
	return in, nil
}

func (a *App) addPrompt(ctx context.Context, _ []string) error {
	in, err := a.readPrompt(models.SystemPrompt{})
	if err != nil {
		return err
	}
	if err := a.prompts.Create(ctx, in); err != nil {
		return err
	}
	a.out.Success("Prompt %q created", in.Name)
	return nil
}

func (a *App) findPrompt(ctx context.Context, id string) (models.SystemPrompt, error) {
	ps, err := a.prompts.List(ctx)
	if err != nil {
		return models.SystemPrompt{}, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return models.SystemPrompt{}, fmt.Errorf("prompt %s: %w", id, common.ErrNotFound)
}

func (a *App) editPrompt(ctx context.Context, args []string) error {
	cur, err := a.findPrompt(ctx, args[0])
	if err != nil {
		return err
	}
	in, err := a.readPrompt(cur)
	if err != nil {
		return err
	}
	if err := a.prompts.Update(ctx, cur.ID, in); err != nil {
		return err
	}
	a.out.Success("Prompt %q updated", in.Name)
	return nil
}

func (a *App) removePrompt(ctx context.Context, args []string) error {
	if err := a.prompts.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.out.Success("Prompt %s deleted", args[0])
	return nil
}

func (a *App) activatePrompt(ctx context.Context, args []string) error {
	if err := a.prompts.Activate(ctx, args[0]); err != nil {
		return err
	}
	a.out.Success("Prompt %s is now active", args[0])
	return nil
}

func (a *App) resetPrompts(ctx context.Context, _ []string) error {
	if !confirm(a.reader, "Replace all system prompts with the defaults?", a.out.w) {
		a.out.Println("Cancelled")
		return nil
	}
	if err := a.prompts.Reset(ctx); err != nil {
		return err
	}
	a.out.Success("System prompts reset")
	return nil
}
