// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the blog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flaskblog",
		Short: "Flask-Blog - a small multi-user blog server",
		Long: `Flask-Blog is a multi-user blog server with account registration,
sessions, post publishing, profile pictures, and email password resets.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}
