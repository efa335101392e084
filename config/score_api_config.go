package config

import (
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type ScoreAPIConfig struct {
	URL             string  `json:"url" yaml:"url"`                         // 打分接口地址
	TimeoutSeconds  int     `json:"timeoutSeconds" yaml:"timeoutSeconds"`   // 单次请求超时（秒）
	MaxAttempts     int     `json:"maxAttempts" yaml:"maxAttempts"`         // 每个批次最多请求次数（含首次）
	BatchSize       int     `json:"batchSize" yaml:"batchSize"`             // 每个批次的行数
	BatchDelayMilli int     `json:"batchDelayMilli" yaml:"batchDelayMilli"` // 批次之间的间隔（毫秒），避免压垮接口
}

func (s *ScoreAPIConfig) Validate() []error {
	var errs = make([]error, 0)
	if s.URL == "" {
		errs = append(errs, errors.Errorf("打分接口地址不能为空"))
	} else if _, err := url.ParseRequestURI(s.URL); err != nil {
		errs = append(errs, errors.Errorf("打分接口地址不合法: %v", err))
	}
	if s.TimeoutSeconds <= 0 {
		errs = append(errs, errors.Errorf("请求超时必须为正数"))
	}
	if s.MaxAttempts <= 0 {
		errs = append(errs, errors.Errorf("请求次数必须为正数"))
	}
	if s.BatchSize <= 0 {
		errs = append(errs, errors.Errorf("批次大小必须为正数"))
	}
	if s.BatchDelayMilli < 0 {
		errs = append(errs, errors.Errorf("批次间隔不能为负数"))
	}
	return errs
}

func NewDefaultScoreAPIConfig() *ScoreAPIConfig {
	return &ScoreAPIConfig{
		URL:             "http://localhost:5002/api/text_to_score/",
		TimeoutSeconds:  600,
		MaxAttempts:     2,
		BatchSize:       100,
		BatchDelayMilli: 100,
	}
}

func (s *ScoreAPIConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (s *ScoreAPIConfig) BatchDelay() time.Duration {
	return time.Duration(s.BatchDelayMilli) * time.Millisecond
}
