// Package commands implements the povertyline CLI commands.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"syscall"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/auth"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/client"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/session"
	"github.com/Jeremy-Bosire/PovertyLine/internal/cli/userconfig"
	"github.com/Jeremy-Bosire/PovertyLine/internal/models"
)

// newSession builds a session store against the configured server, backed by
// the OS keyring.
func newSession() (*session.Store, error) {
	serverURL, err := userconfig.GetServerURL()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	return session.New(serverURL, nil, auth.Default), nil
}

// requireSession resolves the stored credential and applies the route guard
// before a protected command runs. A nil required role admits any
// authenticated account.
func requireSession(ctx context.Context, store *session.Store, required *models.Role) (*client.User, error) {
	user, _ := store.CheckStatus(ctx)

	switch session.Evaluate(store.Snapshot(), required) {
	case session.DecisionAllow:
		return user, nil
	case session.DecisionHome:
		return nil, fmt.Errorf("this command requires %s access", *required)
	default:
		// DecisionLogin. DecisionWait cannot surface here: CheckStatus has
		// already resolved by the time the guard runs.
		return nil, fmt.Errorf("not authenticated. Please run 'povertyline login' first")
	}
}

func adminRole() *models.Role {
	role := models.RoleAdmin
	return &role
}

func providerRole() *models.Role {
	role := models.RoleProvider
	return &role
}

// promptPassword reads a password without echoing it. Outside a terminal it
// fails instead of blocking on a prompt nobody can answer.
func promptPassword() (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or POVERTYLINE_PASSWORD env var)")
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	return string(bytePassword), nil
}

// promptChoice runs an interactive single-choice select.
func promptChoice(label string, items []string) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
	}

	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return choice, nil
}

// printJSONSection pretty-prints a nested JSON payload the CLI does not
// flatten into columns, such as analytics trends.
func printJSONSection(out io.Writer, label string, raw json.RawMessage) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "  ", "  "); err != nil {
		fmt.Fprintf(out, "%s: %s\n", label, string(raw))
		return
	}
	fmt.Fprintf(out, "%s:\n  %s\n", label, buf.String())
}

// orDash substitutes a placeholder for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
