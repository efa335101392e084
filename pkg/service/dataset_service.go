package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"automatic-score-batch/pkg/db"
	"automatic-score-batch/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// requiredColumns 输入 parquet 的必需列
var requiredColumns = []string{"ID", "ChildText", "AdultText", "Time"}

// DatasetService 负责数据集的读写，parquet 的读写都走 DuckDB
type DatasetService struct{}

func NewDatasetService() *DatasetService {
	return &DatasetService{}
}

// LoadParquet 整体读入输入 parquet，校验必需列
func (s *DatasetService) LoadParquet(ctx context.Context, path string) ([]model.DatasetRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "输入文件 %s 不存在", path)
	}

	duckDB := db.GetDuckDB()
	if duckDB == nil {
		return nil, errors.New("DuckDB 连接未初始化")
	}

	// 先校验列，缺哪些列要明确报出来
	cols, err := s.parquetColumns(ctx, duckDB, path)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("输入文件缺少必需列: %s", strings.Join(missing, ", "))
	}

	query := fmt.Sprintf(`SELECT CAST("ID" AS VARCHAR), CAST("ChildText" AS VARCHAR),
		CAST("AdultText" AS VARCHAR), CAST("Time" AS VARCHAR)
		FROM read_parquet(%s)`, quoteLiteral(path))
	rows, err := duckDB.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "读取 parquet 失败")
	}
	defer rows.Close()

	var dataset []model.DatasetRow
	for rows.Next() {
		var id, childText, adultText, rowTime sql.NullString
		if err := rows.Scan(&id, &childText, &adultText, &rowTime); err != nil {
			return nil, errors.Wrap(err, "扫描记录失败")
		}
		dataset = append(dataset, model.DatasetRow{
			ID:        id.String,
			ChildText: childText.String,
			AdultText: adultText.String,
			Time:      rowTime.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "读取 parquet 失败")
	}

	zap.S().Infof("从 %s 读入 %d 行", path, len(dataset))
	return dataset, nil
}

// parquetColumns 返回 parquet 文件的列名集合
func (s *DatasetService) parquetColumns(ctx context.Context, duckDB *sql.DB, path string) (map[string]struct{}, error) {
	rows, err := duckDB.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM read_parquet(%s) LIMIT 0", quoteLiteral(path)))
	if err != nil {
		return nil, errors.Wrapf(err, "打开 parquet 文件 %s 失败", path)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cols := make(map[string]struct{}, len(names))
	for _, name := range names {
		cols[name] = struct{}{}
	}
	return cols, nil
}

// SaveResults 把结果写成 parquet，同时写一份调试用 JSON
// 没有任何成功结果时不产出结果文件
func (s *DatasetService) SaveResults(ctx context.Context, results []model.ScoreResult, outputPath string) error {
	if len(results) == 0 {
		zap.S().Warn("没有成功结果, 跳过结果文件")
		return nil
	}

	duckDB := db.GetDuckDB()
	if duckDB == nil {
		return errors.New("DuckDB 连接未初始化")
	}
	if err := ensureParentDir(outputPath); err != nil {
		return err
	}

	// 删除旧表（如果存在），避免上次运行的残留
	if _, err := duckDB.ExecContext(ctx, "DROP TABLE IF EXISTS score_result"); err != nil {
		return errors.Wrap(err, "删除旧表失败")
	}

	createTableSQL := `
		CREATE TABLE score_result (
			id TEXT PRIMARY KEY,
			original_id TEXT,
			original_child_text TEXT,
			original_adult_text TEXT,
			original_time TEXT,
			page_id INTEGER,
			is_proposed BOOLEAN,
			ai_score DOUBLE,
			gdpr_child_text TEXT,
			gdpr_adult_text TEXT,
			gdpr_proposed_text TEXT,
			raw_proposed_text TEXT,
			processed_at TEXT,
			batch_number INTEGER
		)
	`
	if _, err := duckDB.ExecContext(ctx, createTableSQL); err != nil {
		return errors.Wrap(err, "创建结果表失败")
	}

	insertSQL := `
		INSERT INTO score_result VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, r := range results {
		if _, err := duckDB.ExecContext(ctx, insertSQL,
			r.ID,
			r.OriginalID,
			r.OriginalChildText,
			r.OriginalAdultText,
			r.OriginalTime,
			r.PageID,
			r.IsProposed,
			r.AIScore,
			r.GdprChildText,
			r.GdprAdultText,
			r.GdprProposedText,
			r.RawProposedText,
			r.ProcessedAt,
			r.BatchNumber,
		); err != nil {
			return errors.Wrap(err, "插入结果失败")
		}
	}

	copySQL := fmt.Sprintf("COPY score_result TO %s (FORMAT PARQUET)", quoteLiteral(outputPath))
	if _, err := duckDB.ExecContext(ctx, copySQL); err != nil {
		return errors.Wrap(err, "导出结果 parquet 失败")
	}
	zap.S().Infof("结果已写入 %s, 共 %d 条", outputPath, len(results))

	// 调试用 JSON，方便直接查看
	jsonPath := SidecarPath(outputPath, ".json")
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return errors.Wrap(err, "序列化调试 JSON 失败")
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return errors.Wrap(err, "写调试 JSON 失败")
	}
	zap.S().Infof("调试 JSON 已写入 %s", jsonPath)
	return nil
}

// WriteFailedBatches 写失败批次侧文件，没有失败批次时不产出文件
func (s *DatasetService) WriteFailedBatches(records []model.FailedBatchRecord, outputPath string) error {
	if len(records) == 0 {
		return nil
	}

	failedPath := SidecarPath(outputPath, "_failed_batches.json")
	data, err := json.MarshalIndent(model.FailedBatchFile{FailedBatches: records}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "序列化失败批次记录失败")
	}
	if err := os.WriteFile(failedPath, data, 0644); err != nil {
		return errors.Wrap(err, "写失败批次文件失败")
	}
	zap.S().Infof("失败批次记录已写入 %s, 共 %d 个", failedPath, len(records))
	return nil
}

// SampleParquet 截取输入文件的前 n 行写成样本文件，用于正式跑之前的小规模验证
func (s *DatasetService) SampleParquet(ctx context.Context, inputPath, outputPath string, n int) error {
	if n <= 0 {
		return errors.Errorf("样本行数必须为正数: %d", n)
	}
	if _, err := os.Stat(inputPath); err != nil {
		return errors.Wrapf(err, "输入文件 %s 不存在", inputPath)
	}

	duckDB := db.GetDuckDB()
	if duckDB == nil {
		return errors.New("DuckDB 连接未初始化")
	}
	if err := ensureParentDir(outputPath); err != nil {
		return err
	}

	copySQL := fmt.Sprintf("COPY (SELECT * FROM read_parquet(%s) LIMIT %d) TO %s (FORMAT PARQUET)",
		quoteLiteral(inputPath), n, quoteLiteral(outputPath))
	if _, err := duckDB.ExecContext(ctx, copySQL); err != nil {
		return errors.Wrap(err, "写样本文件失败")
	}

	zap.S().Infof("样本文件已写入 %s (%d 行)", outputPath, n)
	return nil
}

// SidecarPath 把 .parquet 后缀换成 suffix，用于结果旁的侧文件
func SidecarPath(outputPath, suffix string) string {
	if strings.HasSuffix(outputPath, ".parquet") {
		return strings.TrimSuffix(outputPath, ".parquet") + suffix
	}
	return outputPath + suffix
}

// quoteLiteral 把路径安全地拼进 SQL（COPY/read_parquet 不支持参数绑定）
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ensureParentDir 确保输出文件的目录存在
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "创建输出目录 %s 失败", dir)
	}
	return nil
}
