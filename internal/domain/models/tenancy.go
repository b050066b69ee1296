package models

import "github.com/shopspring/decimal"

// Tenancy 表示租户对公寓的一段租约
type Tenancy struct {
	TenancyID      uint             `gorm:"column:tenancy_id;primaryKey;autoIncrement" json:"tenancy_id"`
	ApartmentID    uint             `gorm:"not null;index" json:"apartment_id"`
	TenantID       uint             `gorm:"not null;index" json:"tenant_id"`
	StartDate      Date             `gorm:"not null" json:"start_date"`                        // 入住日期
	EndDate        *Date            `json:"end_date"`                                          // 退租日期
	RentAmount     decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"rent_amount"`    // 月租
	DepositAmount  decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"deposit_amount"` // 押金
	InternetPlanID *uint            `json:"internet_plan_id"`
	Active         Flag             `gorm:"not null" json:"active"`
	FinalBalance   *decimal.Decimal `gorm:"type:decimal(10,2)" json:"final_balance"` // 结算余额

	Apartment *Apartment `gorm:"foreignKey:ApartmentID;references:ApartmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Tenant    *Tenant    `gorm:"foreignKey:TenantID;references:TenantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// TableName 表名
func (Tenancy) TableName() string {
	return "tenancies"
}

// TenancyInput 创建与更新租约的请求体
type TenancyInput struct {
	ApartmentID    *uint            `json:"apartment_id" validate:"required,gt=0"`
	TenantID       *uint            `json:"tenant_id" validate:"required,gt=0"`
	StartDate      *Date            `json:"start_date" validate:"required"`
	EndDate        *Date            `json:"end_date"`
	RentAmount     *decimal.Decimal `json:"rent_amount" validate:"required"`
	DepositAmount  *decimal.Decimal `json:"deposit_amount" validate:"required"`
	InternetPlanID *uint            `json:"internet_plan_id"`
	Active         *Flag            `json:"active"`
	FinalBalance   *decimal.Decimal `json:"final_balance"`
}

// Normalize 未提供 active 时默认为有效租约
func (in *TenancyInput) Normalize() {
	if in.Active == nil {
		in.Active = BoolFlag(true)
	}
}

// Model 转换为待插入的记录, 调用前须已通过校验
func (in TenancyInput) Model() Tenancy {
	tenancy := Tenancy{
		EndDate:        in.EndDate,
		InternetPlanID: in.InternetPlanID,
		Active:         true,
		FinalBalance:   in.FinalBalance,
	}
	if in.ApartmentID != nil {
		tenancy.ApartmentID = *in.ApartmentID
	}
	if in.TenantID != nil {
		tenancy.TenantID = *in.TenantID
	}
	if in.StartDate != nil {
		tenancy.StartDate = *in.StartDate
	}
	if in.RentAmount != nil {
		tenancy.RentAmount = *in.RentAmount
	}
	if in.DepositAmount != nil {
		tenancy.DepositAmount = *in.DepositAmount
	}
	if in.Active != nil {
		tenancy.Active = *in.Active
	}
	return tenancy
}

// Columns 全量替换时写入的列
func (in TenancyInput) Columns() map[string]interface{} {
	active := Flag(true)
	if in.Active != nil {
		active = *in.Active
	}
	return map[string]interface{}{
		"apartment_id":     nullable(in.ApartmentID),
		"tenant_id":        nullable(in.TenantID),
		"start_date":       nullable(in.StartDate),
		"end_date":         nullable(in.EndDate),
		"rent_amount":      nullable(in.RentAmount),
		"deposit_amount":   nullable(in.DepositAmount),
		"internet_plan_id": nullable(in.InternetPlanID),
		"active":           active,
		"final_balance":    nullable(in.FinalBalance),
	}
}
