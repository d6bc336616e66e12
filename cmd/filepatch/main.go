// MCP file-editing server.
//
// Serves patch_file and the supporting file tools over stdio. Stdout
// carries the protocol, so all diagnostics go to stderr or the log file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/filepatch/filepatch/internal/backup"
	"github.com/filepatch/filepatch/internal/config"
	"github.com/filepatch/filepatch/internal/logging"
	"github.com/filepatch/filepatch/internal/patch"
	"github.com/filepatch/filepatch/internal/pathguard"
	"github.com/filepatch/filepatch/internal/server"
	"github.com/filepatch/filepatch/internal/tools"
	"github.com/filepatch/filepatch/internal/tools/handlers"
	"github.com/filepatch/filepatch/internal/version"
)

func main() {
	var (
		rootFlag    = pflag.String("root", "", "base directory served to clients (default: working directory)")
		backupFlag  = pflag.String("backup-dir", "", "directory for backup snapshots (default: next to each file)")
		keepFlag    = pflag.Int("backup-keep", 0, "retain at most N snapshots per file (default: keep all)")
		configFlag  = pflag.String("config", "", "path to a JSON config file")
		logFlag     = pflag.String("log-file", "", "append JSON logs to this file")
		debugFlag   = pflag.Bool("debug", false, "enable debug logging")
		versionFlag = pflag.Bool("version", false, "print version and exit")
	)
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("filepatch %s (%s)\n", version.Version, version.GitCommit)
		return
	}

	if err := run(*configFlag, *rootFlag, *backupFlag, *keepFlag, *logFlag, *debugFlag); err != nil {
		fmt.Fprintf(os.Stderr, "filepatch: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, root, backupDir string, backupKeep int, logFile string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// Flags override the config file.
	if root != "" {
		cfg.Root = root
	}
	if backupDir != "" {
		cfg.BackupDir = backupDir
	}
	if backupKeep > 0 {
		cfg.BackupKeep = backupKeep
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if debug {
		cfg.Debug = true
	}
	if cfg.Root == "" {
		cfg.Root, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
	}

	logger, err := logging.NewFileLogger(cfg.LogFile, cfg.Debug)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logger.Close()
	log := logger.Logger

	guard, err := pathguard.New(cfg.Root)
	if err != nil {
		return fmt.Errorf("resolving root %s: %w", cfg.Root, err)
	}

	backups := backup.NewManager(cfg.BackupDir)
	backups.Keep = cfg.BackupKeep
	engine := patch.NewEngine(patch.EngineConfig{
		Backups:       backups,
		Normalization: cfg.Normalization,
		BusyFailFast:  cfg.BusyFailFast,
		Logger:        log,
	})

	registry := tools.NewToolRegistry()
	registry.Register(handlers.NewPatchFileTool(engine, guard))
	registry.Register(handlers.NewReadFileTool(guard))
	registry.Register(handlers.NewWriteFileTool(guard))
	registry.Register(handlers.NewCreateFileTool(guard))
	registry.Register(handlers.NewDeleteFileTool(guard))
	registry.Register(handlers.NewMoveFileTool(guard))
	registry.Register(handlers.NewCopyFileTool(guard))
	registry.Register(handlers.NewListFilesTool(guard))
	registry.Register(handlers.NewSearchFilesTool(guard))
	registry.Register(handlers.NewReplaceInFilesTool(guard))
	registry.Register(handlers.NewFileInfoTool(guard))

	specs := tools.BuildSpecs(tools.RegisteredNames())
	router := tools.NewToolRouter(registry, specs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		"version", version.Version,
		"root", guard.Root(),
		"tools", registry.ToolCount())

	srv := server.New(router, log)
	return srv.Run(ctx)
}
