package service

import (
	"context"
	"fmt"
	"testing"

	"automatic-score-batch/pkg/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubmitter 按配置让指定批次失败，其余批次按行回显打分结果
type fakeSubmitter struct {
	calls      []*model.ScoreRequest
	failBatch  map[int]bool              // 按提交顺序（从 1 开始）永远失败的批次
	scoreFor   func(pageID int) float64
	cancelAt   int                // 第 N 次调用后取消 context（0 表示不取消）
	cancelFunc context.CancelFunc
}

func (f *fakeSubmitter) Submit(ctx context.Context, req *model.ScoreRequest) (*model.ScoreResponse, error) {
	f.calls = append(f.calls, req)
	callNum := len(f.calls)

	if f.cancelAt > 0 && callNum == f.cancelAt && f.cancelFunc != nil {
		f.cancelFunc()
	}
	if f.failBatch[callNum] {
		return nil, errors.New("打分接口返回状态码 500")
	}

	resp := &model.ScoreResponse{}
	for _, t := range req.Texts {
		score := 0.5
		if f.scoreFor != nil {
			score = f.scoreFor(t.PageID)
		}
		resp.Texts = append(resp.Texts, model.ScoredText{
			PageID:     t.PageID,
			IsProposed: false,
			AIScore:    score,
			Gdpr: model.TextTriple{
				ChildText: t.ChildText,
				AdultText: t.AdultText,
			},
		})
	}
	return resp, nil
}

func makeRows(n int) []model.DatasetRow {
	rows := make([]model.DatasetRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, model.DatasetRow{
			ID:        fmt.Sprintf("row-%d", i),
			ChildText: fmt.Sprintf("child %d", i),
			AdultText: fmt.Sprintf("adult %d", i),
			Time:      "2024-06-01 12:00:00.000",
		})
	}
	return rows
}

func TestProcessDatasetBatchCount(t *testing.T) {
	cases := []struct {
		n, batchSize, want int
	}{
		{0, 100, 0},
		{1, 100, 1},
		{100, 100, 1},
		{101, 100, 2},
		{1000, 100, 10},
		{10, 3, 4},
	}
	for _, c := range cases {
		sub := &fakeSubmitter{}
		p := NewBatchProcessor(sub, c.batchSize, 0)
		outcome, err := p.ProcessDataset(context.Background(), makeRows(c.n))
		require.NoError(t, err)
		assert.Equal(t, c.want, outcome.TotalBatches, "n=%d b=%d", c.n, c.batchSize)
		assert.Len(t, sub.calls, c.want)
	}
}

func TestProcessDatasetPartitionExactlyOnce(t *testing.T) {
	sub := &fakeSubmitter{}
	p := NewBatchProcessor(sub, 3, 0)
	outcome, err := p.ProcessDataset(context.Background(), makeRows(10))
	require.NoError(t, err)

	// 每行恰好出现在一个批次里，pageId 即全局下标
	seen := map[int]int{}
	for _, call := range sub.calls {
		for _, text := range call.Texts {
			seen[text.PageID]++
		}
	}
	require.Len(t, seen, 10)
	for pageID, count := range seen {
		assert.Equal(t, 1, count, "pageId %d", pageID)
	}

	// 最后一批不满
	assert.Len(t, sub.calls[3].Texts, 1)
	assert.Len(t, outcome.Results, 10)
}

func TestProcessDatasetTwoRowExample(t *testing.T) {
	scores := map[int]float64{0: 1.057, 1: 0.842}
	sub := &fakeSubmitter{scoreFor: func(pageID int) float64 { return scores[pageID] }}
	p := NewBatchProcessor(sub, 2, 0)

	outcome, err := p.ProcessDataset(context.Background(), makeRows(2))
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.TotalBatches)
	assert.Empty(t, outcome.FailedBatches)
	require.Len(t, outcome.Results, 2)
	assert.Equal(t, 1.057, outcome.Results[0].AIScore)
	assert.Equal(t, 0.842, outcome.Results[1].AIScore)
	assert.Equal(t, "row-0", outcome.Results[0].OriginalID)
	assert.Equal(t, "row-1", outcome.Results[1].OriginalID)
}

func TestProcessDatasetFailedBatchSkipped(t *testing.T) {
	// 1000 行、每批 100，第 8 批永远失败：900 条结果、1 条失败记录、后续批次照常处理
	sub := &fakeSubmitter{failBatch: map[int]bool{8: true}}
	p := NewBatchProcessor(sub, 100, 0)

	outcome, err := p.ProcessDataset(context.Background(), makeRows(1000))
	require.NoError(t, err)

	assert.Equal(t, 10, outcome.TotalBatches)
	assert.Len(t, sub.calls, 10)
	assert.Len(t, outcome.Results, 900)
	require.Len(t, outcome.FailedBatches, 1)

	failed := outcome.FailedBatches[0]
	assert.Equal(t, 8, failed.BatchNumber)
	assert.Equal(t, 100, failed.RowCount)
	assert.Equal(t, 700, failed.FirstPageID)
	assert.NotEmpty(t, failed.Reason)

	// 第 8 批的行没有结果，第 10 批的行有结果
	pageIDs := map[int]bool{}
	for _, r := range outcome.Results {
		pageIDs[r.PageID] = true
	}
	assert.False(t, pageIDs[700])
	assert.False(t, pageIDs[799])
	assert.True(t, pageIDs[999])
}

func TestProcessDatasetResultFields(t *testing.T) {
	sub := &fakeSubmitter{}
	p := NewBatchProcessor(sub, 2, 0)
	outcome, err := p.ProcessDataset(context.Background(), makeRows(3))
	require.NoError(t, err)
	require.Len(t, outcome.Results, 3)

	last := outcome.Results[2]
	assert.Equal(t, 2, last.BatchNumber)
	assert.Equal(t, 2, last.PageID)
	assert.Equal(t, "child 2", last.OriginalChildText)
	assert.Equal(t, "adult 2", last.OriginalAdultText)
	assert.Equal(t, "child 2", last.GdprChildText)
	assert.NotEmpty(t, last.ID)
	assert.NotEmpty(t, last.ProcessedAt)
}

func TestProcessDatasetCancelKeepsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &fakeSubmitter{cancelAt: 2, cancelFunc: cancel}
	p := NewBatchProcessor(sub, 10, 0)

	outcome, err := p.ProcessDataset(ctx, makeRows(100))
	require.ErrorIs(t, err, context.Canceled)

	// 前两批已经拿到结果，取消后不再提交新批次
	assert.Len(t, sub.calls, 2)
	assert.Len(t, outcome.Results, 20)
}

func TestProcessDatasetEmptyDataset(t *testing.T) {
	sub := &fakeSubmitter{}
	p := NewBatchProcessor(sub, 100, 0)
	outcome, err := p.ProcessDataset(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, outcome.TotalBatches)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, outcome.FailedBatches)
	assert.Empty(t, sub.calls)
}
