package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ficchat/internal/adapters/source"
	"ficchat/internal/cache"
	"ficchat/internal/core/services"
	applog "ficchat/internal/log"
	"ficchat/internal/pkg/config"
	"ficchat/internal/pkg/term"
	"ficchat/internal/ports"
	"ficchat/internal/store"
	"ficchat/internal/usecase"

	"github.com/google/uuid"
)

// flags содержит параметры командной строки. Непустые значения перекрывают конфигурацию.
type flags struct {
	configPath string
	outputDir  string
	formats    string
	title      string
	demo       bool
	images     imageFlags
}

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	var f flags
	flag.StringVar(&f.configPath, "config", "config.yml", "Path to YAML config")
	flag.StringVar(&f.outputDir, "out", "", "Output directory")
	flag.StringVar(&f.formats, "format", "", "Comma-separated export formats: html,console,xlsx,png,pdf")
	flag.StringVar(&f.title, "title", "", "Conversation title")
	flag.BoolVar(&f.demo, "demo", false, "Start from the demo conversation")
	flag.Var(&f.images, "image", "Append an image message as author=path (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: ficchat [flags] [script files...]\n\nWithout files the script is read from stdin.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg, f)

	// 2. Инициализация логгера. Логи идут в stderr, stdout остается для стенограммы.
	logger, closer := applog.Setup(cfg.Logging, os.Stderr)
	defer closer.Close()
	slog.SetDefault(logger)

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Стартовый состав и хранилище
	cast := services.DefaultCast()
	if len(cfg.Chat.Cast) > 0 && !f.demo {
		cast, err = buildCast(cfg.Chat.Cast, uuid.NewString)
		if err != nil {
			return fmt.Errorf("failed to build cast: %w", err)
		}
	}

	st, err := store.NewConversationStore(cast,
		store.WithTitle(cfg.Chat.Title),
		store.WithFooter(cfg.Chat.Footer),
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation store: %w", err)
	}

	if f.demo {
		for _, msg := range services.DemoMessages(uuid.NewString) {
			if _, err := st.AddMessage(msg); err != nil {
				return fmt.Errorf("failed to add demo message: %w", err)
			}
		}
	}

	// 5. Импорт сценариев
	sources, err := scriptSources(flag.Args(), f.demo, len(f.images) > 0, term.NewTerminal(os.Stdin).IsTerminal())
	if err != nil {
		flag.Usage()
		return err
	}

	importer := usecase.NewImportScriptUseCase(services.NewScriptParser(), st, cache.NewScriptCache(), logger)
	if _, err := importer.ImportAll(ctx, sources); err != nil {
		return fmt.Errorf("failed to import script: %w", err)
	}
	if err := addImageMessages(st, f.images); err != nil {
		return fmt.Errorf("failed to add image: %w", err)
	}

	// 6. Экспорт
	consoleWidth := cfg.Export.ConsoleWidth
	if consoleWidth == 0 {
		consoleWidth = term.Stdout().Width(config.DefaultConsoleWidth)
	}
	exporters, err := buildExporters(cfg, os.Stdout, consoleWidth, logger)
	if err != nil {
		return err
	}

	exporter := usecase.NewExportConversationUseCase(st, exporters, logger)
	if err := exporter.Export(ctx); err != nil {
		return fmt.Errorf("failed to export conversation: %w", err)
	}

	return nil
}

// applyFlags переносит заданные флаги в конфигурацию.
func applyFlags(cfg *config.Config, f flags) {
	if f.outputDir != "" {
		cfg.Export.OutputDir = f.outputDir
	}
	if f.formats != "" {
		cfg.Export.Formats = config.SplitFormats(f.formats)
	}
	if f.title != "" {
		cfg.Chat.Title = f.title
	}
}

// scriptSources строит источники сценариев из аргументов. Без аргументов
// сценарий читается из stdin, если он не интерактивный терминал.
func scriptSources(args []string, demo, hasImages, stdinIsTerminal bool) ([]ports.DataSource, error) {
	if len(args) > 0 {
		sources := make([]ports.DataSource, 0, len(args))
		for _, path := range args {
			sources = append(sources, source.NewFileSource(path))
		}
		return sources, nil
	}

	if stdinIsTerminal {
		if demo || hasImages {
			return nil, nil
		}
		return nil, fmt.Errorf("no script given: pass script files or pipe a script to stdin")
	}
	return []ports.DataSource{source.NewFileSource(source.StdinPath)}, nil
}
