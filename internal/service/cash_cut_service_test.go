package service

import (
	"context"
	"testing"
	"time"

	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cashCutFixture struct {
	repo  *fakeCashCutRepo
	audit *fakeAuditSink
	clock *fixedClock
	svc   CashCutService
}

func newCashCutFixture(t *testing.T) *cashCutFixture {
	t.Helper()
	f := &cashCutFixture{
		repo:  newFakeCashCutRepo(),
		audit: &fakeAuditSink{},
		clock: &fixedClock{now: time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)},
	}
	f.svc = NewCashCutService(nil, f.repo, f.audit, f.clock)
	return f
}

func TestOpenCashCut(t *testing.T) {
	f := newCashCutFixture(t)

	resp, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)

	assert.Equal(t, "OPEN", resp.Status)
	assert.Equal(t, int64(0), resp.ExpectedCashCOP)
	assert.Equal(t, []string{"CASH_CUT_OPENED"}, f.audit.actions())
}

func TestOpenSecondCashCutConflicts(t *testing.T) {
	f := newCashCutFixture(t)

	_, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)

	_, err = f.svc.Open(context.Background(), testActor)
	assert.Equal(t, model.KindConflict, model.KindOf(err))

	// Another operator at the same branch is unaffected
	other := testActor
	other.OperatorID = "op-2"
	_, err = f.svc.Open(context.Background(), other)
	assert.NoError(t, err)
}

func TestReopenAfterClose(t *testing.T) {
	f := newCashCutFixture(t)

	_, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)
	_, err = f.svc.Close(context.Background(), testActor, dto.CloseCashCutRequest{ReportedCashCOP: 0})
	require.NoError(t, err)

	_, err = f.svc.Open(context.Background(), testActor)
	assert.NoError(t, err)
}

func TestCloseComputesDiscrepancyAndDeviation(t *testing.T) {
	f := newCashCutFixture(t)

	opened, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)

	// Simulate the shift: 50000 cash sold, 2000 spent from the drawer
	cut, err := f.repo.FindByID(context.Background(), uuid.MustParse(opened.ID))
	require.NoError(t, err)
	amount, _ := model.NewMoney(50000)
	require.NoError(t, cut.AddSale(amount, model.PaymentCash))
	expense, _ := model.NewMoney(2000)
	require.NoError(t, cut.RecordMovement(expense, model.MovementExpense))
	require.NoError(t, f.repo.Update(nil, cut))

	resp, err := f.svc.Close(context.Background(), testActor, dto.CloseCashCutRequest{ReportedCashCOP: 47000})
	require.NoError(t, err)

	assert.Equal(t, "CLOSED", resp.Status)
	assert.Equal(t, int64(48000), resp.ExpectedCashCOP)
	require.NotNil(t, resp.DiscrepancyCOP)
	assert.Equal(t, int64(-1000), *resp.DiscrepancyCOP)

	require.NotNil(t, resp.Deviation)
	// -1000 / 48000 * 100 ≈ -2.08% → warning
	assert.Equal(t, "warning", resp.Deviation.Classification)
	assert.True(t, resp.Deviation.Percentage.Equal(decimal.RequireFromString("-2.08")))
}

func TestCloseWithoutOpenCut(t *testing.T) {
	f := newCashCutFixture(t)

	_, err := f.svc.Close(context.Background(), testActor, dto.CloseCashCutRequest{ReportedCashCOP: 0})
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestCloseTwiceFails(t *testing.T) {
	f := newCashCutFixture(t)

	_, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)
	_, err = f.svc.Close(context.Background(), testActor, dto.CloseCashCutRequest{ReportedCashCOP: 0})
	require.NoError(t, err)

	// The cut left OPEN no longer exists, so a second close has no target
	_, err = f.svc.Close(context.Background(), testActor, dto.CloseCashCutRequest{ReportedCashCOP: 0})
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestRegisterMovementRequiresOpenCut(t *testing.T) {
	f := newCashCutFixture(t)

	_, err := f.svc.RegisterMovement(context.Background(), testActor, dto.MovementRequest{
		Type: "EXPENSE", Category: "SUPPLIES", Description: "Rollos de papel", AmountCOP: 2000,
	})
	assert.Equal(t, model.KindValidation, model.KindOf(err))
}

func TestRegisterMovementAdjustsTotals(t *testing.T) {
	f := newCashCutFixture(t)

	_, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)

	_, err = f.svc.RegisterMovement(context.Background(), testActor, dto.MovementRequest{
		Type: "INCOME", Category: "EXTRA_INCOME", Description: "Venta de casco", AmountCOP: 8000,
	})
	require.NoError(t, err)
	_, err = f.svc.RegisterMovement(context.Background(), testActor, dto.MovementRequest{
		Type: "EXPENSE", Category: "FUEL", Description: "Gasolina planta electrica", AmountCOP: 3000,
	})
	require.NoError(t, err)

	current, err := f.svc.GetCurrent(context.Background(), testActor)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), current.ManualIncomeCOP)
	assert.Equal(t, int64(3000), current.ManualExpenseCOP)
	assert.Equal(t, int64(5000), current.ExpectedCashCOP)
}

func TestListMovements(t *testing.T) {
	f := newCashCutFixture(t)

	opened, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)

	_, err = f.svc.RegisterMovement(context.Background(), testActor, dto.MovementRequest{
		Type: "EXPENSE", Category: "SERVICES", Description: "Lavado de uniformes", AmountCOP: 12000,
	})
	require.NoError(t, err)

	movements, err := f.svc.ListMovements(context.Background(), testActor, uuid.MustParse(opened.ID))
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "EXPENSE", movements[0].Type)
	assert.Equal(t, int64(12000), movements[0].AmountCOP)

	// Foreign branch cannot read the cut's movements
	foreign := testActor
	foreign.BranchID = "branch-2"
	_, err = f.svc.ListMovements(context.Background(), foreign, uuid.MustParse(opened.ID))
	assert.Equal(t, model.KindForbidden, model.KindOf(err))
}

func TestMovementsReportValidatesRange(t *testing.T) {
	f := newCashCutFixture(t)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.MovementsReport(context.Background(), testActor, from, from)
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = f.svc.MovementsReport(context.Background(), testActor, from, from.AddDate(0, 0, 7))
	assert.NoError(t, err)
}

func TestHistoryListsClosedCuts(t *testing.T) {
	f := newCashCutFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Open(context.Background(), testActor)
		require.NoError(t, err)
		_, err = f.svc.Close(context.Background(), testActor, dto.CloseCashCutRequest{ReportedCashCOP: 0})
		require.NoError(t, err)
	}
	// A still-open cut must not appear in the history
	_, err := f.svc.Open(context.Background(), testActor)
	require.NoError(t, err)

	resp, err := f.svc.History(context.Background(), testActor, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Len(t, resp.Data, 2)
}

func TestDeviationClassification(t *testing.T) {
	cases := []struct {
		pct  string
		want string
	}{
		{"0", "normal"},
		{"-0.99", "normal"},
		{"1", "normal"},
		{"1.01", "warning"},
		{"-5", "warning"},
		{"5.01", "critical"},
		{"-12.5", "critical"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyDeviation(decimal.RequireFromString(tc.pct)), "pct=%s", tc.pct)
	}
}
