package db

import (
	"context"
	"sync"

	"automatic-score-batch/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

var mysqlDB *gorm.DB
var mysqlOnce sync.Once

// InitMySQL 初始化 MySQL 连接，配置了副本时读请求走副本
func InitMySQL(cfg *config.GlobalConfig) error {
	var err error
	mysqlOnce.Do(func() {
		mysqlDB, err = gorm.Open(mysql.Open(cfg.MySQLConfig.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			zap.S().Errorf("连接 MySQL 失败: %v", err)
			return
		}

		replicaDSNs := cfg.MySQLConfig.ReplicaDSNs()
		if len(replicaDSNs) > 0 {
			replicas := make([]gorm.Dialector, 0, len(replicaDSNs))
			for _, dsn := range replicaDSNs {
				replicas = append(replicas, mysql.Open(dsn))
			}
			if err = mysqlDB.Use(dbresolver.Register(dbresolver.Config{
				Replicas: replicas,
				Policy:   dbresolver.RandomPolicy{},
			})); err != nil {
				zap.S().Errorf("注册 MySQL 副本失败: %v", err)
				return
			}
		}

		zap.S().Debug("MySQL 初始化完成...")
	})
	return err
}

// GetMySQL 获取 MySQL 连接
func GetMySQL() *gorm.DB {
	return mysqlDB
}

// GetMySQLWithContext 获取带上下文的 MySQL 连接
func GetMySQLWithContext(ctx context.Context) *gorm.DB {
	if mysqlDB == nil {
		return nil
	}
	return mysqlDB.WithContext(ctx)
}
