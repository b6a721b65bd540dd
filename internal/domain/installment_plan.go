package domain

import (
	"time"
)

type PlanStatus string

const (
	PlanOpen      PlanStatus = "open"
	PlanCompleted PlanStatus = "completed"
)

// InstallmentDivisor splits the remaining balance of a plan on every payment.
const InstallmentDivisor int64 = 6

// InstallmentPlan tracks a partially paid share purchase of an off-plan property.
// Only one plan per (property, holder) is ever stored; completed plans stay as history.
type InstallmentPlan struct {
	PlanID           uint64     `gorm:"column:plan_id;primaryKey;autoIncrement" json:"plan_id"`
	PropertyID       uint64     `gorm:"column:property_id;not null;uniqueIndex:ux_plans_property_holder" json:"property_id"`
	Holder           string     `gorm:"column:holder;size:128;not null;uniqueIndex:ux_plans_property_holder;index" json:"holder"`
	Percent          int        `gorm:"column:percent;not null" json:"percent"`
	TotalOwed        int64      `gorm:"column:total_owed;not null" json:"total_owed"`
	RemainingOwed    int64      `gorm:"column:remaining_owed;not null" json:"remaining_owed"`
	InstallmentsPaid int        `gorm:"column:installments_paid;not null;default:0" json:"installments_paid"`
	Status           PlanStatus `gorm:"column:status;type:varchar(20);not null;default:'open'" json:"status"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt        time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (InstallmentPlan) TableName() string {
	return "InstallmentPlans"
}

// IsOpen reports whether money is still owed on the plan.
func (p *InstallmentPlan) IsOpen() bool {
	return p.Status == PlanOpen && p.RemainingOwed > 0
}

// NextDue is the amount collected by the next installment: a sixth of what remains.
// Below 6 the quotient is 0 and the plan stays open with the remainder still owed.
func (p *InstallmentPlan) NextDue() int64 {
	if p.RemainingOwed <= 0 {
		return 0
	}
	return p.RemainingOwed / InstallmentDivisor
}
