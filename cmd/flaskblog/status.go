// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/thomasdurkin/Flask-Blog/internal/config"
	"github.com/thomasdurkin/Flask-Blog/internal/store"
)

// Status reports a running server's health and the database schema state.
type Status struct {
	Server ServerStatus  `json:"server"`
	Schema *SchemaStatus `json:"schema,omitempty"`
}

// ServerStatus holds the health probe results for a running instance.
type ServerStatus struct {
	Addr    string `json:"addr"`
	Running bool   `json:"running"`
	Ready   bool   `json:"ready"`
	Error   string `json:"error,omitempty"`
}

// SchemaStatus reports the state of the database schema.
type SchemaStatus struct {
	Version uint     `json:"version"`
	Dirty   bool     `json:"dirty"`
	Applied []string `json:"applied"`
	Pending []string `json:"pending"`
	Error   string   `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// newStatusCmd creates the status subcommand with all flags configured.
func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server health and database schema status",
		Long: `Probe a running server's health endpoints and show the current schema
version with applied and pending migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *statusConfig) error {
	appCfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	status := &Status{
		Server: probeServer(appCfg.MetricsAddr),
		Schema: collectSchemaStatus(cmd, appCfg.DatabaseURL),
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(formatStatus(status))
	return nil
}

// probeServer queries the observability endpoints of a running instance.
func probeServer(addr string) ServerStatus {
	status := ServerStatus{Addr: addr}
	if addr == "" {
		status.Error = "metrics address not configured"
		return status
	}

	client := &http.Client{Timeout: 2 * time.Second}

	live, err := client.Get("http://" + addr + "/healthz/liveness")
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = live.Body.Close() }()
	status.Running = live.StatusCode == http.StatusOK

	ready, err := client.Get("http://" + addr + "/healthz/readiness")
	if err != nil {
		return status
	}
	defer func() { _ = ready.Body.Close() }()
	status.Ready = ready.StatusCode == http.StatusOK

	return status
}

// collectSchemaStatus gathers version and migration state. Failures are
// reported inside the result so a down database doesn't hide server health.
func collectSchemaStatus(cmd *cobra.Command, databaseURL string) *SchemaStatus {
	status := &SchemaStatus{}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	defer closeMigrator(cmd, migrator)

	version, dirty, err := migrator.Version()
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Version = version
	status.Dirty = dirty

	if applied, appliedErr := migrator.AppliedMigrations(); appliedErr == nil {
		status.Applied = migrationNames(applied)
	}
	if pending, pendingErr := migrator.PendingMigrations(); pendingErr == nil {
		status.Pending = migrationNames(pending)
	}

	return status
}

func migrationNames(versions []uint) []string {
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		names = append(names, migrationLabel(v))
	}
	return names
}

// formatStatus renders the status as human-readable text.
func formatStatus(status *Status) string {
	out := "Server: "
	switch {
	case status.Server.Error != "":
		out += "unreachable (" + status.Server.Error + ")"
	case status.Server.Running && status.Server.Ready:
		out += "running, ready"
	case status.Server.Running:
		out += "running, not ready"
	default:
		out += "not running"
	}
	out += "\n"

	out += formatSchemaStatus(status.Schema)
	return out
}

// formatSchemaStatus renders the schema part as human-readable text.
func formatSchemaStatus(status *SchemaStatus) string {
	if status.Error != "" {
		return "Schema: unavailable (" + status.Error + ")"
	}

	out := fmt.Sprintf("Schema version: %d", status.Version)
	if status.Dirty {
		out += " (dirty)"
	}
	out += "\n"

	if len(status.Applied) == 0 {
		out += "Applied: none\n"
	} else {
		out += "Applied:\n"
		for _, name := range status.Applied {
			out += "  " + name + "\n"
		}
	}

	if len(status.Pending) == 0 {
		out += "Pending: none"
	} else {
		out += "Pending:\n"
		for _, name := range status.Pending {
			out += "  " + name
		}
	}

	return out
}
