package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sharelist/core/cmd/api/commands"
)

// @title ShareList API
// @version 1.0
// @description Collaborative to-do lists with shared folders, reminders and realtime updates

// @contact.name ShareList Support
// @contact.url https://github.com/sharelist/core

// @license.name MIT
// @license.url https://github.com/sharelist/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "sharelist",
		Short: "ShareList API Server",
		Long:  `ShareList is a multi-user to-do list service with categorized tasks, folder sharing between users, reminders and realtime updates over WebSocket.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
