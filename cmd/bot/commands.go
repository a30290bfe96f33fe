package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"translate_bot/internal/app"
	"translate_bot/internal/config"
	"translate_bot/internal/linebot"
	"translate_bot/internal/linebot/detector"
	"translate_bot/internal/logger"
	"translate_bot/internal/translation/mymemory"
)

const closeTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		logger.L().Errorf("应用初始化失败: %v", err)
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := application.Close(ctx); err != nil {
			logger.L().Errorf("应用关闭失败: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func runDetect(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	from, to := linebot.Route(text, cfg.Translator.SourceHint)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "language: %s\n", detector.Classify(text))
	fmt.Fprintf(out, "langpair: %s|%s\n", from, to)
	fmt.Fprintf(out, "hint:     %s\n", detector.Hint(text))
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := mymemory.NewClient(cfg.Translator)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	silent, _ := cmd.Flags().GetBool("silent")

	routedFrom, routedTo := linebot.Route(text, cfg.Translator.SourceHint)
	if from == "" {
		from = routedFrom
	}
	if to == "" {
		to = routedTo
	}

	translated, err := client.Translate(cmd.Context(), text, from, to)
	if err != nil {
		return fmt.Errorf("translate %s|%s: %w", from, to, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), linebot.FormatTranslation(to, translated, text, silent))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt64("limit")

	application, err := app.NewHistory(cfg)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	records, err := application.Records.ListRecent(cmd.Context(), args[0], limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "no translation records for %s\n", args[0])
		return nil
	}

	for _, record := range records {
		status := "ok"
		if !record.Success {
			status = "failed"
		}
		fmt.Fprintf(out, "%s  %s|%s  %-6s  %s => %s\n",
			record.CreatedAt.Local().Format(time.DateTime),
			record.From, record.To, status,
			record.Text, record.Translated)
	}
	return nil
}
