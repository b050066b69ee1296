package models

// 搬迁记录中的租约状态
const (
	TenancyStatusActive   = "Active"
	TenancyStatusInactive = "Inactive"
)

// MoveHistoryView 视图名
const MoveHistoryView = "tenant_move_history"

// MoveHistory 租户搬迁记录, 只读视图, 随租约变化
type MoveHistory struct {
	TenancyID       uint   `gorm:"column:tenancy_id" json:"tenancy_id"`
	TenantName      string `gorm:"column:tenant_name" json:"tenant_name"`
	ApartmentNumber string `gorm:"column:apartment_number" json:"apartment_number"`
	PropertyName    string `gorm:"column:property_name" json:"property_name"`
	MoveInDate      Date   `gorm:"column:move_in_date" json:"move_in_date"`
	MoveOutDate     *Date  `gorm:"column:move_out_date" json:"move_out_date"`
	TenancyStatus   string `gorm:"column:tenancy_status" json:"tenancy_status"`
}

// TableName 视图名
func (MoveHistory) TableName() string {
	return MoveHistoryView
}
