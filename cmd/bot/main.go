package main

import (
	"os"

	"github.com/spf13/cobra"

	"translate_bot/internal/config"
	"translate_bot/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "translate-bot",
		Short:             "LINE 中越翻譯機器人",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runServe,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "啟動 LINE webhook 服務",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	detectCmd := &cobra.Command{
		Use:   "detect <text>",
		Short: "顯示文字的語言判斷與翻譯方向",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDetect,
	}

	translateCmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "透過 MyMemory 翻譯一段文字",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTranslate,
	}
	translateCmd.Flags().String("from", "", "source language, detected from text when empty")
	translateCmd.Flags().String("to", "", "target language, detected from text when empty")
	translateCmd.Flags().Bool("silent", false, "omit the original text from the output")

	historyCmd := &cobra.Command{
		Use:   "history <conversation-id>",
		Short: "查詢群組或房間最近的翻譯記錄（需要 MONGO_URI）",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}
	historyCmd.Flags().Int64P("limit", "n", 20, "maximum number of records to show")

	rootCmd.AddCommand(serveCmd, detectCmd, translateCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup 加载 .env 并初始化 logger
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	logger.Init()
	return nil
}
