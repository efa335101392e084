package model

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// TextTriple 打分接口返回的文本三元组
type TextTriple struct {
	ChildText    string `json:"childText"`
	AdultText    string `json:"adultText"`
	ProposedText string `json:"proposedText"`
}

// ScoredText 打分接口返回的单条打分结果
// 接口字段命名不完全稳定（出现过 aiScore / ai_score、pageId / page_id 两种写法），
// 所以这里用宽松方式解析，两种写法都接受
type ScoredText struct {
	PageID     int        `json:"pageId"`
	IsProposed bool       `json:"isProposed"`
	AIScore    float64    `json:"aiScore"`
	Gdpr       TextTriple `json:"gdpr"`
	Raw        TextTriple `json:"raw"`
}

func (s *ScoredText) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	s.PageID = cast.ToInt(pick(m, "pageId", "page_id"))
	s.IsProposed = cast.ToBool(pick(m, "isProposed", "is_proposed"))
	s.AIScore = cast.ToFloat64(pick(m, "aiScore", "ai_score"))
	s.Gdpr = toTriple(pick(m, "gdpr"))
	s.Raw = toTriple(pick(m, "raw"))
	return nil
}

// pick 按顺序取第一个存在的字段
func pick(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func toTriple(v interface{}) TextTriple {
	m, ok := v.(map[string]interface{})
	if !ok {
		return TextTriple{}
	}
	return TextTriple{
		ChildText:    cast.ToString(pick(m, "childText", "child_text")),
		AdultText:    cast.ToString(pick(m, "adultText", "adult_text")),
		ProposedText: cast.ToString(pick(m, "proposedText", "proposed_text")),
	}
}

// ScoreResponse 是打分接口的响应体：{"texts": [...]}
type ScoreResponse struct {
	Texts []ScoredText `json:"texts"`
}

// ScoreResult 表示合并了原始行和接口结果的输出行，落盘到结果 parquet
type ScoreResult struct {
	ID                string  `json:"id"` // 本次运行内生成的 UUID，结果表主键
	OriginalID        string  `json:"original_id"`
	OriginalChildText string  `json:"original_child_text"`
	OriginalAdultText string  `json:"original_adult_text"`
	OriginalTime      string  `json:"original_time"`
	PageID            int     `json:"page_id"`
	IsProposed        bool    `json:"is_proposed"`
	AIScore           float64 `json:"ai_score"`
	GdprChildText     string  `json:"gdpr_child_text"`
	GdprAdultText     string  `json:"gdpr_adult_text"`
	GdprProposedText  string  `json:"gdpr_proposed_text"`
	RawProposedText   string  `json:"raw_proposed_text"`
	ProcessedAt       string  `json:"processed_at"`
	BatchNumber       int     `json:"batch_number"`
}

// TableName 指定结果表名
func (ScoreResult) TableName() string {
	return "score_result"
}
