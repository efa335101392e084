package cmd

import (
	"context"
	"errors"
	"os"

	"automatic-score-batch/config"
	"automatic-score-batch/pkg/db"
	"automatic-score-batch/pkg/service"
	"automatic-score-batch/pkg/signals"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewScoreCommand() *cobra.Command {
	var configFilePath string
	var inputPath string
	var outputPath string
	var apiURL string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "把输入 parquet 分批提交到打分接口",
		Long:  "整体读入输入 parquet，按批次提交到打分 HTTP 接口，结果写成 parquet，重试后仍失败的批次记录到侧文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(configFilePath)
			if err != nil {
				return err
			}

			// 命令行参数覆盖配置文件
			if apiURL != "" {
				cfg.ScoreAPIConfig.URL = apiURL
			}
			if batchSize > 0 {
				cfg.ScoreAPIConfig.BatchSize = batchSize
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				err := errors.Join(errs...)
				zap.S().Errorf("配置验证错误:%s", err.Error())
				return err
			}

			ctx := signals.SetupSignalHandler()

			// 初始化 DuckDB（parquet 读写都走它）
			if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
				zap.S().Errorf("DuckDB 连接错误:%s", err.Error())
				return err
			}
			defer db.CloseDuckDB()

			runID := uuid.NewString()
			zap.S().Infof("本次运行 ID: %s", runID)
			zap.S().Infof("输入文件: %s", inputPath)
			zap.S().Infof("输出文件: %s", outputPath)
			zap.S().Infof("接口地址: %s", cfg.ScoreAPIConfig.URL)
			zap.S().Infof("批次大小: %d", cfg.ScoreAPIConfig.BatchSize)

			datasetService := service.NewDatasetService()
			rows, err := datasetService.LoadParquet(ctx, inputPath)
			if err != nil {
				zap.S().Errorf("读取输入文件失败:%s", err.Error())
				return err
			}

			client := service.NewScoreClient(cfg.ScoreAPIConfig)
			processor := service.NewBatchProcessor(client,
				cfg.ScoreAPIConfig.BatchSize, cfg.ScoreAPIConfig.BatchDelay())

			outcome, runErr := processor.ProcessDataset(ctx, rows)
			if runErr != nil {
				// 被取消也要把已有结果落盘
				zap.S().Warnf("运行提前结束:%s", runErr.Error())
			}

			// 落盘不用被取消的 ctx，否则部分结果写不出去
			flushCtx := context.Background()
			if err := datasetService.SaveResults(flushCtx, outcome.Results, outputPath); err != nil {
				zap.S().Errorf("写结果文件失败:%s", err.Error())
				return err
			}
			if err := datasetService.WriteFailedBatches(outcome.FailedBatches, outputPath); err != nil {
				zap.S().Errorf("写失败批次文件失败:%s", err.Error())
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "data/june01_to_sept25.parquet", "输入 parquet 文件路径")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "output/processed_results.parquet", "输出 parquet 文件路径")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "打分接口地址，覆盖配置文件")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 0, "批次大小，覆盖配置文件")
	return cmd
}

// loadConfigOrDefault 读取配置文件，文件不存在时用默认配置
func loadConfigOrDefault(configFilePath string) (*config.GlobalConfig, error) {
	cfg, err := config.TryLoadFromDisk(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			zap.S().Warnf("配置文件 %s 不存在, 使用默认配置", configFilePath)
			return config.NewDefaultGlobalConfig(), nil
		}
		zap.S().Errorf("读取本地配置文件错误:%s", err.Error())
		return nil, err
	}
	return cfg, nil
}
