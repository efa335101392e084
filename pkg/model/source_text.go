package model

import (
	"time"

	"gorm.io/gorm"
)

// SourceText 表示 MySQL 源表 tbl_source_text，import 子命令从这里导出数据集
type SourceText struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	PageUUID  string         `gorm:"column:pageUuid" json:"page_uuid"` // 上游页面 UUID
	ChildText string         `gorm:"column:childText" json:"child_text"`
	AdultText string         `gorm:"column:adultText" json:"adult_text"`
	WroteAt   time.Time      `gorm:"column:wroteAt" json:"wrote_at"` // 文本写下的时间
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (SourceText) TableName() string {
	return "tbl_source_text"
}

// ToDatasetRow 转换为数据集行，时间格式与上游导出保持一致
func (s *SourceText) ToDatasetRow() DatasetRow {
	return DatasetRow{
		ID:        s.PageUUID,
		ChildText: s.ChildText,
		AdultText: s.AdultText,
		Time:      s.WroteAt.Format("2006-01-02 15:04:05.000"),
	}
}
