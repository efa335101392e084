package model

// ScoreText 是提交给打分接口的单条文本对
type ScoreText struct {
	PageID    int    `json:"pageId"` // 行在整个数据集中的下标（从 0 开始）
	ChildText string `json:"childText"`
	AdultText string `json:"adultText"`
}

// ScoreRequest 是打分接口的请求体：{"texts": [...]}
type ScoreRequest struct {
	Texts []ScoreText `json:"texts"`
}
