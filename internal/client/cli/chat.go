package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/knowledgekeeper/internal/client/models"
)

func (a *App) sendChat(ctx context.Context, args []string) error {
	text := joinArgs(args)
	if text == "" {
		var err error
		if text, err = GetMultiline(a.reader, "Your question", a.out.w); err != nil {
			return err
		}
	}

	reply, err := a.chat.Send(ctx, text)
	if reply != nil {
		a.printMessage(*reply)
	}
	return err
}

func (a *App) printMessage(m models.ChatMessage) {
	who := "you"
	if m.Role == models.RoleAssistant {
		who = "assistant"
	}
	a.out.Heading("%s  %s", who, m.Timestamp.Local().Format("2006-01-02 15:04"))
	a.out.Println(m.Content)
	for i, s := range m.Sources {
		line := fmt.Sprintf("  [%d] %s", i+1, s.Title)
		if s.SimilarityScore != nil {
			line += fmt.Sprintf(" (%.0f%%)", *s.SimilarityScore*100)
		}
		if s.Source != "" {
			line += " - " + s.Source
		}
		a.out.Println(line)
	}
}

func (a *App) chatHistory(ctx context.Context, _ []string) error {
	msgs, err := a.chat.Transcript(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		a.out.Println("No messages yet.")
		return nil
	}
	for _, m := range msgs {
		a.printMessage(m)
	}
	return nil
}

func (a *App) clearChat(ctx context.Context, _ []string) error {
	if err := a.chat.Clear(ctx); err != nil {
		return err
	}
	a.out.Success("Chat history cleared")
	return nil
}
