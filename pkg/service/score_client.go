package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"automatic-score-batch/config"
	"automatic-score-batch/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Submitter 提交一个批次并返回打分结果
type Submitter interface {
	Submit(ctx context.Context, req *model.ScoreRequest) (*model.ScoreResponse, error)
}

// ScoreClient 调用打分 HTTP 接口，失败时有限次重试
type ScoreClient struct {
	url         string
	timeout     time.Duration
	maxAttempts int
	httpClient  *http.Client
	backoffUnit time.Duration // 退避基准，重试前等待 2^attempt 个单位，测试中可设为 0
}

func NewScoreClient(cfg *config.ScoreAPIConfig) *ScoreClient {
	return &ScoreClient{
		url:         cfg.URL,
		timeout:     cfg.Timeout(),
		maxAttempts: cfg.MaxAttempts,
		httpClient:  &http.Client{},
		backoffUnit: time.Second,
	}
}

// Submit 提交一个批次，最多尝试 maxAttempts 次
// 非 2xx、超时、响应解析失败、结果数量不符都算一次失败
func (c *ScoreClient) Submit(ctx context.Context, req *model.ScoreRequest) (*model.ScoreResponse, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			// 指数退避后重试
			if err := sleepCtx(ctx, c.backoffUnit*(1<<(attempt-1))); err != nil {
				return nil, err
			}
		}

		resp, err := c.post(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		zap.S().Warnf("批次请求失败（第 %d/%d 次）: %v", attempt+1, c.maxAttempts, err)
	}
	return nil, errors.Wrapf(lastErr, "尝试 %d 次后仍然失败", c.maxAttempts)
}

func (c *ScoreClient) post(ctx context.Context, req *model.ScoreRequest) (*model.ScoreResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "序列化请求体失败")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "构造请求失败")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "请求打分接口失败")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		// 读掉 body 以便连接复用
		io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096))
		return nil, errors.Errorf("打分接口返回状态码 %d", httpResp.StatusCode)
	}

	var resp model.ScoreResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "解析响应体失败")
	}
	if len(resp.Texts) != len(req.Texts) {
		return nil, errors.Errorf("响应结果数量不符: 期望 %d 条, 实际 %d 条", len(req.Texts), len(resp.Texts))
	}

	zap.S().Debugf("批次请求完成, %d 条, 耗时 %s", len(req.Texts), time.Since(start))
	return &resp, nil
}

// Probe 用一条测试数据验证打分接口是否可达
func (c *ScoreClient) Probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req := &model.ScoreRequest{
		Texts: []model.ScoreText{{
			PageID:    1,
			ChildText: "test text",
			AdultText: "test text",
		}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(probeCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "打分接口不可达")
	}
	defer httpResp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096))

	if httpResp.StatusCode != http.StatusOK {
		return errors.Errorf("打分接口返回状态码 %d", httpResp.StatusCode)
	}
	return nil
}

// sleepCtx 可被 context 打断的 sleep
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
