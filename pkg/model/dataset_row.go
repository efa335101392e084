package model

// DatasetRow 表示输入 parquet 文件中的一行
// 必需列：ID, ChildText, AdultText, Time
type DatasetRow struct {
	ID        string `json:"id"`
	ChildText string `json:"child_text"`
	AdultText string `json:"adult_text"`
	Time      string `json:"time"`
}
