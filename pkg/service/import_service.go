package service

import (
	"context"
	"fmt"
	"time"

	"automatic-score-batch/pkg/db"
	"automatic-score-batch/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ImportService 从 MySQL 源表分页导出数据集，写成打分用的输入 parquet
type ImportService struct{}

func NewImportService() *ImportService {
	return &ImportService{}
}

// ExportToParquet 分页读取 tbl_source_text，空文本行跳过，结果写到 outputPath
func (s *ImportService) ExportToParquet(ctx context.Context, batchSize int, outputPath string) error {
	mysqlDB := db.GetMySQLWithContext(ctx)
	if mysqlDB == nil {
		return errors.New("MySQL 连接未初始化")
	}
	duckDB := db.GetDuckDB()
	if duckDB == nil {
		return errors.New("DuckDB 连接未初始化")
	}
	if err := ensureParentDir(outputPath); err != nil {
		return err
	}

	// 删除旧表（如果存在），避免上次导出的残留
	if _, err := duckDB.ExecContext(ctx, "DROP TABLE IF EXISTS dataset_export"); err != nil {
		return errors.Wrap(err, "删除旧表失败")
	}
	createTableSQL := `
		CREATE TABLE dataset_export (
			"ID" TEXT,
			"ChildText" TEXT,
			"AdultText" TEXT,
			"Time" TEXT
		)
	`
	if _, err := duckDB.ExecContext(ctx, createTableSQL); err != nil {
		return errors.Wrap(err, "创建导出表失败")
	}

	startTime := time.Now()
	offset := 0
	exported := 0
	skipped := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var batch []model.SourceText
		if err := mysqlDB.Model(&model.SourceText{}).
			Order("id").
			Limit(batchSize).
			Offset(offset).
			Find(&batch).Error; err != nil {
			return errors.Wrap(err, "查询源表失败")
		}
		if len(batch) == 0 {
			break
		}

		for _, src := range batch {
			// 空文本过不了打分接口，导出阶段直接跳过
			if src.ChildText == "" || src.AdultText == "" {
				zap.S().Debugf("记录 ID %d: 文本为空, 跳过", src.ID)
				skipped++
				continue
			}
			row := src.ToDatasetRow()
			if _, err := duckDB.ExecContext(ctx,
				`INSERT INTO dataset_export VALUES (?, ?, ?, ?)`,
				row.ID, row.ChildText, row.AdultText, row.Time,
			); err != nil {
				return errors.Wrap(err, "插入导出表失败")
			}
			exported++
		}

		offset += batchSize
	}

	copySQL := fmt.Sprintf("COPY dataset_export TO %s (FORMAT PARQUET)", quoteLiteral(outputPath))
	if _, err := duckDB.ExecContext(ctx, copySQL); err != nil {
		return errors.Wrap(err, "导出 parquet 失败")
	}

	zap.S().Infof("导出完成: 成功 %d 条, 跳过 %d 条, 文件 %s", exported, skipped, outputPath)
	zap.S().Infof("耗时：%s", time.Since(startTime))
	return nil
}

// CountSourceRows 统计源表行数
func (s *ImportService) CountSourceRows(ctx context.Context) (int64, error) {
	mysqlDB := db.GetMySQLWithContext(ctx)
	if mysqlDB == nil {
		return 0, errors.New("MySQL 连接未初始化")
	}

	var count int64
	if err := mysqlDB.Model(&model.SourceText{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "查询行数失败")
	}
	return count, nil
}
