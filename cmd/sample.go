package cmd

import (
	"errors"

	"automatic-score-batch/pkg/db"
	"automatic-score-batch/pkg/service"
	"automatic-score-batch/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewSampleCommand() *cobra.Command {
	var configFilePath string
	var inputPath string
	var outputPath string
	var rows int

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "从输入 parquet 截取样本文件",
		Long:  "截取输入文件的前 N 行写成样本 parquet，用于本地和 GPU 实例上的小规模验证",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(configFilePath)
			if err != nil {
				return err
			}
			if errs := cfg.DuckDBConfig.Validate(); len(errs) > 0 {
				err := errors.Join(errs...)
				zap.S().Errorf("配置验证错误:%s", err.Error())
				return err
			}

			ctx := signals.SetupSignalHandler()

			if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
				zap.S().Errorf("DuckDB 连接错误:%s", err.Error())
				return err
			}
			defer db.CloseDuckDB()

			datasetService := service.NewDatasetService()
			if err := datasetService.SampleParquet(ctx, inputPath, outputPath, rows); err != nil {
				zap.S().Errorf("截取样本失败:%s", err.Error())
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "data/june01_to_sept25.parquet", "输入 parquet 文件路径")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "data/sample_50_rows.parquet", "样本文件路径")
	cmd.Flags().IntVarP(&rows, "rows", "n", 50, "样本行数")
	return cmd
}
