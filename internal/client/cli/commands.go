package cli

import (
	"context"
	"sort"
	"strings"
)

type command struct {
	name    string
	args    string
	short   string
	minArgs int
	// protected commands only run for an authenticated session.
	protected bool
	run       func(a *App, ctx context.Context, args []string) error
}

func (c command) usageLine() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

// commandTable is shared by the cobra tree and the REPL.
var commandTable = []command{
	{name: "login", args: "[username]", short: "log in", run: (*App).login},
	{name: "logout", short: "log out and forget the saved session", run: (*App).logout},
	{name: "whoami", short: "show the current user", protected: true, run: (*App).whoami},

	{name: "users", short: "list accounts", protected: true, run: (*App).users},
	{name: "useradd", args: "<username>", short: "create an account", minArgs: 1, protected: true, run: (*App).userAdd},
	{name: "usermod", args: "<id> [username=NAME] [active=true|false] [password]", short: "change an account", minArgs: 2, protected: true, run: (*App).userMod},
	{name: "userdel", args: "<id>", short: "delete an account", minArgs: 1, protected: true, run: (*App).userDel},

	{name: "list", short: "show the current page of knowledge", protected: true, run: (*App).listKnowledge},
	{name: "next", short: "next page", protected: true, run: (*App).nextPage},
	{name: "prev", short: "previous page", protected: true, run: (*App).prevPage},
	{name: "page", args: "<n>", short: "jump to page n", minArgs: 1, protected: true, run: (*App).gotoPage},
	{name: "sort", args: "<newest|oldest>", short: "change the sort order", minArgs: 1, protected: true, run: (*App).sortKnowledge},
	{name: "select", args: "<id>...", short: "select records on this page", minArgs: 1, protected: true, run: (*App).selectKnowledge},
	{name: "unselect", args: "<id>...", short: "unselect records", minArgs: 1, protected: true, run: (*App).unselectKnowledge},
	{name: "selectall", short: "select every record on this page", protected: true, run: (*App).selectAllKnowledge},
	{name: "rm", args: "<id>", short: "delete a record", minArgs: 1, protected: true, run: (*App).removeKnowledge},
	{name: "rmsel", short: "delete the selected records", protected: true, run: (*App).removeSelected},
	{name: "rmall", short: "delete every record", protected: true, run: (*App).removeAll},
	{name: "add", short: "add a record", protected: true, run: (*App).addKnowledge},
	{name: "edit", args: "<id>", short: "edit a record", minArgs: 1, protected: true, run: (*App).editKnowledge},

	{name: "chat", args: "[message]", short: "ask the assistant", protected: true, run: (*App).sendChat},
	{name: "history", short: "show the chat transcript", protected: true, run: (*App).chatHistory},
	{name: "clearchat", short: "clear the chat transcript", protected: true, run: (*App).clearChat},

	{name: "upload", args: "<path> [title-column content-column]", short: "upload a document or spreadsheet", minArgs: 1, protected: true, run: (*App).upload},
	{name: "files", short: "list uploaded files", protected: true, run: (*App).listFiles},
	{name: "rmfile", args: "<id>", short: "delete an uploaded file", minArgs: 1, protected: true, run: (*App).removeFile},
	{name: "download", args: "<id> [dir]", short: "download an uploaded file", minArgs: 1, protected: true, run: (*App).download},

	{name: "prompts", short: "list system prompts", protected: true, run: (*App).listPrompts},
	{name: "promptadd", short: "create a system prompt", protected: true, run: (*App).addPrompt},
	{name: "promptedit", args: "<id>", short: "edit a system prompt", minArgs: 1, protected: true, run: (*App).editPrompt},
	{name: "promptrm", args: "<id>", short: "delete a system prompt", minArgs: 1, protected: true, run: (*App).removePrompt},
	{name: "activate", args: "<id>", short: "make a system prompt active", minArgs: 1, protected: true, run: (*App).activatePrompt},
	{name: "resetprompts", short: "restore the default system prompts", protected: true, run: (*App).resetPrompts},
}

func lookup(name string) (command, bool) {
	for _, c := range commandTable {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *App) help() {
	loggedIn := a.store.Snapshot().IsAuthenticated

	cmds := make([]command, 0, len(commandTable))
	for _, c := range commandTable {
		if loggedIn || !c.protected {
			cmds = append(cmds, c)
		}
	}
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].name < cmds[j].name })

	width := 0
	for _, c := range cmds {
		width = max(width, len(c.usageLine()))
	}
	a.out.Heading("Available commands:")
	for _, c := range cmds {
		a.out.Printf("  %-*s  %s\n", width, c.usageLine(), c.short)
	}
	a.out.Printf("  %-*s  %s\n", width, "exit", "leave the program")
	if !loggedIn {
		a.out.Println("Log in to see the rest.")
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
