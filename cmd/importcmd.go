package cmd

import (
	"errors"

	"automatic-score-batch/pkg/db"
	"automatic-score-batch/pkg/service"
	"automatic-score-batch/pkg/signals"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewImportCommand() *cobra.Command {
	var configFilePath string
	var outputPath string
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "从 MySQL 源表导出数据集",
		Long:  "分页读取 MySQL 的 tbl_source_text 表，导出为打分用的输入 parquet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(configFilePath)
			if err != nil {
				return err
			}
			if cfg.MySQLConfig == nil {
				zap.S().Error("MySQL 配置未设置")
				return errors.New("MySQL 配置未设置")
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				err := errors.Join(errs...)
				zap.S().Errorf("配置验证错误:%s", err.Error())
				return err
			}

			ctx := signals.SetupSignalHandler()

			// 初始化 MySQL
			if err := db.InitMySQL(cfg); err != nil {
				zap.S().Errorf("MySQL 数据库连接错误:%s", err.Error())
				return err
			}

			// 初始化 DuckDB
			if err := db.InitDuckDB(cfg.DuckDBConfig); err != nil {
				zap.S().Errorf("DuckDB 连接错误:%s", err.Error())
				return err
			}
			defer db.CloseDuckDB()

			importService := service.NewImportService()
			count, err := importService.CountSourceRows(ctx)
			if err != nil {
				zap.S().Warnf("获取源表行数失败:%s", err.Error())
			} else {
				zap.S().Infof("源表共 %d 行", count)
			}

			if err := importService.ExportToParquet(ctx, batchSize, outputPath); err != nil {
				zap.S().Errorf("导出失败:%s", err.Error())
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "data/june01_to_sept25.parquet", "输出 parquet 文件路径")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", 100, "分页读取大小")
	return cmd
}
