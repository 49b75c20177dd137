package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docflow/docflow/internal/cli"
	"github.com/docflow/docflow/pkg/log"
)

func main() {
	logger := log.InitLog(log.Level(os.Getenv("DOCFLOW_LOG_LEVEL")))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := NewDocflowCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewDocflowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docflow [flags] [options]",
		Short: "docflow controls the docflow document review service.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdCreate())
	cmd.AddCommand(cli.NewCmdProcess())

	return cmd
}
