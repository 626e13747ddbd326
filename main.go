package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	mcpMode      bool
	outputFormat string
	nullValue    bool
	verifyWith   string

	cfg    *Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dbrestrict",
	Short: "Derive column restrictions from SQL DDL scripts",
	Long: `dbrestrict parses a SQL DDL script, or a directory of migration files,
into the restrictions its tables put on string values: maximal varchar
lengths, not null constraints and check constraints listing the allowed
values. Values can then be checked against them before they reach the
database.

Use --mcp to run as Model Context Protocol server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		l, err := newLogger(os.Stderr, loaded)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		slog.SetDefault(logger)
		return nil
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !mcpMode {
			return cmd.Help()
		}
		logger.Info("starting mcp server")
		return StartMCPServer(cfg, logger)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <path>",
	Short: "Print the restrictions of a DDL script, migration directory or snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := outputFormat
		if format == "" {
			format = cfg.Output.Format
		}
		output, err := describeCore(cmd.Context(), args[0], format, NewFileScriptReader(), logger)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <path> <table> <column> [value]",
	Short: "Check a value against the restrictions of a column",
	Args: func(cmd *cobra.Command, args []string) error {
		if nullValue {
			return cobra.ExactArgs(3)(cmd, args)
		}
		return cobra.ExactArgs(4)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var value *string
		if !nullValue {
			value = &args[3]
		}
		output, err := checkCore(cmd.Context(), args[0], args[1], args[2], value, NewFileScriptReader(), logger)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Compare the parsed restrictions with those of a PostgreSQL database running the DDL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbManager := NewPostgreSQLManager(postgresSettings(cfg))
		output, err := verifyCore(cmd.Context(), args[0], verifyWith, NewFileScriptReader(), dbManager, logger)
		fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <path> <out.db>",
	Short: "Save the restrictions of a DDL script as SQLite snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := snapshotCore(cmd.Context(), args[0], args[1], NewFileScriptReader(), logger)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	registerFlags()
	rootCmd.AddCommand(describeCmd, checkCmd, verifyCmd, snapshotCmd)
}

func registerFlags() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.Flags().BoolVar(&mcpMode, "mcp", false, "Run as Model Context Protocol server")
	describeCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format: info, json or sql (default from config)")
	checkCmd.Flags().BoolVar(&nullValue, "null", false, "Check SQL NULL instead of a value")
	verifyCmd.Flags().StringVar(&verifyWith, "provider", "postgres", "Restriction provider reading the database: postgres or pg_dump")
}

func main() {
	if err := run(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	return rootCmd.ExecuteContext(context.Background())
}
