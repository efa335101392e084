package model

// FailedBatchRecord 记录重试后仍然失败的批次，整批跳过时追加一条
type FailedBatchRecord struct {
	BatchNumber int    `json:"batch_number"` // 批次编号（从 1 开始）
	Reason      string `json:"reason"`       // 最后一次尝试的失败原因
	RowCount    int    `json:"row_count"`    // 批次包含的行数
	FirstPageID int    `json:"first_page_id"`
}

// FailedBatchFile 是失败批次侧文件的结构：{"failed_batches": [...]}
type FailedBatchFile struct {
	FailedBatches []FailedBatchRecord `json:"failed_batches"`
}
