package service

import (
	"context"
	"time"

	"automatic-score-batch/pkg/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessOutcome 汇总一次运行的结果
type ProcessOutcome struct {
	Results       []model.ScoreResult       // 成功批次的逐行结果
	FailedBatches []model.FailedBatchRecord // 重试后仍失败的批次
	TotalBatches  int
	Elapsed       time.Duration
}

// BatchProcessor 驱动数据集分批过打分接口
// 批次按顺序同步提交，单个批次失败只记录并跳过，不中断整个运行
type BatchProcessor struct {
	client     Submitter
	batchSize  int
	batchDelay time.Duration
	now        func() time.Time
}

func NewBatchProcessor(client Submitter, batchSize int, batchDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		client:     client,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		now:        time.Now,
	}
}

// ProcessDataset 把 rows 按 batchSize 切成连续批次（最后一批可以不满），逐批提交
// pageId 是行在整个数据集中的下标。context 取消时停在当前位置返回，
// 已经拿到的结果仍然在 ProcessOutcome 里，由调用方决定是否落盘
func (p *BatchProcessor) ProcessDataset(ctx context.Context, rows []model.DatasetRow) (*ProcessOutcome, error) {
	startTime := time.Now()
	totalBatches := (len(rows) + p.batchSize - 1) / p.batchSize

	outcome := &ProcessOutcome{
		Results:       make([]model.ScoreResult, 0, len(rows)),
		FailedBatches: make([]model.FailedBatchRecord, 0),
		TotalBatches:  totalBatches,
	}

	zap.S().Infof("共 %d 行, 按每批 %d 行切成 %d 个批次", len(rows), p.batchSize, totalBatches)

	for i := 0; i < len(rows); i += p.batchSize {
		if err := ctx.Err(); err != nil {
			outcome.Elapsed = time.Since(startTime)
			zap.S().Warnf("运行被取消, 已完成 %d 条", len(outcome.Results))
			return outcome, err
		}

		end := i + p.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[i:end]
		batchNum := i/p.batchSize + 1

		req := &model.ScoreRequest{Texts: make([]model.ScoreText, 0, len(batch))}
		for j, row := range batch {
			req.Texts = append(req.Texts, model.ScoreText{
				PageID:    i + j,
				ChildText: row.ChildText,
				AdultText: row.AdultText,
			})
		}

		resp, err := p.client.Submit(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				outcome.Elapsed = time.Since(startTime)
				zap.S().Warnf("运行被取消, 已完成 %d 条", len(outcome.Results))
				return outcome, ctx.Err()
			}
			zap.S().Warnf("批次 %d 处理失败: %v", batchNum, err)
			outcome.FailedBatches = append(outcome.FailedBatches, model.FailedBatchRecord{
				BatchNumber: batchNum,
				Reason:      err.Error(),
				RowCount:    len(batch),
				FirstPageID: i,
			})
		} else {
			p.appendResults(outcome, batch, resp, batchNum)
		}

		zap.S().Infof("批次 %d/%d 处理完毕, 累计成功 %d 条, 失败批次 %d 个",
			batchNum, totalBatches, len(outcome.Results), len(outcome.FailedBatches))

		// 批次之间稍作等待，避免压垮接口
		if end < len(rows) && p.batchDelay > 0 {
			if err := sleepCtx(ctx, p.batchDelay); err != nil {
				outcome.Elapsed = time.Since(startTime)
				return outcome, err
			}
		}
	}

	outcome.Elapsed = time.Since(startTime)
	zap.S().Infof("处理完成: 成功 %d 条, 失败批次 %d 个", len(outcome.Results), len(outcome.FailedBatches))
	zap.S().Infof("耗时：%s", outcome.Elapsed)
	return outcome, nil
}

// appendResults 把接口结果和原始行按位置配对合并
func (p *BatchProcessor) appendResults(outcome *ProcessOutcome, batch []model.DatasetRow, resp *model.ScoreResponse, batchNum int) {
	processedAt := p.now().Format(time.RFC3339)
	for j, scored := range resp.Texts {
		row := batch[j]
		outcome.Results = append(outcome.Results, model.ScoreResult{
			ID:                uuid.NewString(),
			OriginalID:        row.ID,
			OriginalChildText: row.ChildText,
			OriginalAdultText: row.AdultText,
			OriginalTime:      row.Time,
			PageID:            scored.PageID,
			IsProposed:        scored.IsProposed,
			AIScore:           scored.AIScore,
			GdprChildText:     scored.Gdpr.ChildText,
			GdprAdultText:     scored.Gdpr.AdultText,
			GdprProposedText:  scored.Gdpr.ProposedText,
			RawProposedText:   scored.Raw.ProposedText,
			ProcessedAt:       processedAt,
			BatchNumber:       batchNum,
		})
	}
}
