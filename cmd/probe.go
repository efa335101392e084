package cmd

import (
	"context"
	"errors"

	"automatic-score-batch/pkg/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewProbeCommand() *cobra.Command {
	var configFilePath string
	var apiURL string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "探测打分接口是否可达",
		Long:  "用一条测试数据请求打分接口，验证服务是否已经起来（正式跑之前先跑这个）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOrDefault(configFilePath)
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.ScoreAPIConfig.URL = apiURL
			}
			if errs := cfg.ScoreAPIConfig.Validate(); len(errs) > 0 {
				err := errors.Join(errs...)
				zap.S().Errorf("配置验证错误:%s", err.Error())
				return err
			}

			client := service.NewScoreClient(cfg.ScoreAPIConfig)
			if err := client.Probe(context.Background()); err != nil {
				zap.S().Errorf("打分接口探测失败: %s", err.Error())
				return err
			}
			zap.S().Infof("打分接口连通正常: %s", cfg.ScoreAPIConfig.URL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "配置文件路径")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "打分接口地址，覆盖配置文件")
	return cmd
}
