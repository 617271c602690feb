// Package cli provides the interactive KnowledgeKeeper command-line client.
//
// It wires configuration, local storage, the API client, the session store
// and the route guard, and exposes one command table twice: as cobra
// subcommands for one-shot use and as the REPL started when kkcli runs
// without a subcommand.
//
// Every command except login, logout, help and version runs behind the
// guard, which restores a saved session and verifies an unconfirmed token
// before the command body is allowed to run.
package cli
