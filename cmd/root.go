package cmd

import (
	"automatic-score-batch/pkg/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "automatic-score-batch",
		Short: "文本对批量打分工具",
		// 错误都已经通过 zap 打过日志，cobra 不用再打一遍
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableNoDescFlag:   true,
			DisableDescriptions: true,
			HiddenDefaultCmd:    true,
		},
	}

	// 添加子命令
	rootCmd.AddCommand(NewScoreCommand())
	rootCmd.AddCommand(NewProbeCommand())
	rootCmd.AddCommand(NewSampleCommand())
	rootCmd.AddCommand(NewImportCommand())

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		zap.S().Info("使用 'score' 子命令进行批量打分")
		cmd.Help()
	}
	rootCmd.Version = util.GetVersion().Version
	return rootCmd
}
