package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CloseCashCutRequest struct {
	// Physical cash counted by the operator, integer COP
	ReportedCashCOP int64 `json:"reported_cash_cop" validate:"min=0"`
}

type MovementRequest struct {
	Type        string `json:"type"        validate:"required,oneof=INCOME EXPENSE"`
	Category    string `json:"category"    validate:"required,oneof=SUPPLIES SERVICES FUEL EXTRA_INCOME OTHER"`
	Description string `json:"description" validate:"required,min=3"`
	AmountCOP   int64  `json:"amount_cop"  validate:"required,gt=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// DeviationResponse classifies the close discrepancy relative to expected
// cash: normal ≤1%, warning ≤5%, critical >5%.
type DeviationResponse struct {
	Percentage     decimal.Decimal `json:"percentage"`
	Classification string          `json:"classification"`
}

type CashCutResponse struct {
	ID                 string             `json:"id"`
	BranchID           string             `json:"branch_id"`
	OperatorID         string             `json:"operator_id"`
	Status             string             `json:"status"`
	OpenedAt           time.Time          `json:"opened_at"`
	ClosedAt           *time.Time         `json:"closed_at,omitempty"`
	TotalSalesCOP      int64              `json:"total_sales_cop"`
	TotalCashCOP       int64              `json:"total_cash_cop"`
	TotalElectronicCOP int64              `json:"total_electronic_cop"`
	ManualIncomeCOP    int64              `json:"manual_income_cop"`
	ManualExpenseCOP   int64              `json:"manual_expense_cop"`
	ExpectedCashCOP    int64              `json:"expected_cash_cop"`
	ReportedCashCOP    *int64             `json:"reported_cash_cop,omitempty"`
	DiscrepancyCOP     *int64             `json:"discrepancy_cop,omitempty"`
	Deviation          *DeviationResponse `json:"deviation,omitempty"`
}

type MovementResponse struct {
	ID          string    `json:"id"`
	CashCutID   string    `json:"cash_cut_id"`
	OperatorID  string    `json:"operator_id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	AmountCOP   int64     `json:"amount_cop"`
	CreatedAt   time.Time `json:"created_at"`
}

type CashCutListResponse struct {
	Data  []CashCutResponse `json:"data"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
}
