package models

import "github.com/shopspring/decimal"

// Property 表示物业（楼盘）
type Property struct {
	PropertyID     uint             `gorm:"column:property_id;primaryKey;autoIncrement" json:"property_id"`
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`    // 物业名称
	Address        string           `gorm:"type:varchar(255);not null" json:"address"` // 地址
	Description    *string          `gorm:"type:text" json:"description"`              // 描述
	ConservancyFee *decimal.Decimal `gorm:"type:decimal(10,2)" json:"conservancy_fee"` // 物业管理费
}

// TableName 表名
func (Property) TableName() string {
	return "properties"
}

// PropertyInput 创建与更新物业的请求体
type PropertyInput struct {
	Name           string           `json:"name" validate:"required"`
	Address        string           `json:"address" validate:"required"`
	Description    *string          `json:"description"`
	ConservancyFee *decimal.Decimal `json:"conservancy_fee"`
}

// Normalize 空白的可选文本视为未提供
func (in *PropertyInput) Normalize() {
	in.Description = trimmed(in.Description)
}

// Model 转换为待插入的记录
func (in PropertyInput) Model() Property {
	return Property{
		Name:           in.Name,
		Address:        in.Address,
		Description:    in.Description,
		ConservancyFee: in.ConservancyFee,
	}
}

// Columns 全量替换时写入的列, 未提供的可选列置为 NULL
func (in PropertyInput) Columns() map[string]interface{} {
	return map[string]interface{}{
		"name":            in.Name,
		"address":         in.Address,
		"description":     nullable(in.Description),
		"conservancy_fee": nullable(in.ConservancyFee),
	}
}
