package service

import (
	"context"
	"testing"
	"time"

	"github.com/frpatino6/parkingHub/internal/dto"
	"github.com/frpatino6/parkingHub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testActor = Actor{
	TenantID:   "tenant-1",
	BranchID:   "branch-1",
	OperatorID: "op-1",
	Role:       model.RoleOperator,
}

type ticketFixture struct {
	tickets  *fakeTicketRepo
	cashCuts *fakeCashCutRepo
	pricing  *fakePricingRepo
	audit    *fakeAuditSink
	clock    *fixedClock
	svc      TicketService
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	f := &ticketFixture{
		tickets:  newFakeTicketRepo(),
		cashCuts: newFakeCashCutRepo(),
		pricing:  newFakePricingRepo(),
		audit:    &fakeAuditSink{},
		clock:    &fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)},
	}
	f.svc = NewTicketService(nil, f.tickets, f.cashCuts, f.pricing, NewPricingEngine(), f.audit, f.clock)
	return f
}

func (f *ticketFixture) openShift(t *testing.T) {
	t.Helper()
	cut := model.OpenCashCut(testActor.TenantID, testActor.BranchID, testActor.OperatorID, f.clock.Now())
	require.NoError(t, f.cashCuts.Create(context.Background(), cut))
}

func (f *ticketFixture) addMinuteTariff(t *testing.T, rate int64, grace int) {
	t.Helper()
	r, err := model.NewMoney(rate)
	require.NoError(t, err)
	cfg, err := model.NewPricingConfig(testActor.TenantID, testActor.BranchID, model.VehicleCar, model.ModeMinute, r, grace, nil, nil)
	require.NoError(t, err)
	require.NoError(t, f.pricing.Create(context.Background(), cfg))
}

func TestCheckInRequiresOpenShift(t *testing.T) {
	f := newTicketFixture(t)

	_, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.Contains(t, err.Error(), "Debes abrir tu caja")
}

func TestCheckInCreatesOpenTicket(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)

	resp, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: " abc123 ",
	})
	require.NoError(t, err)

	assert.Equal(t, "ABC123", resp.Plate)
	assert.NotEmpty(t, resp.QrCode)
	assert.Equal(t, f.clock.Now(), resp.CheckIn)
	assert.Equal(t, []string{"TICKET_CREATED"}, f.audit.actions())
}

func TestCheckOutSettlesAndCreditsShift(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 5)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	f.clock.Advance(65 * time.Minute)
	resp, err := f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, 65, resp.DurationMinutes)
	require.NotNil(t, resp.AmountCOP)
	assert.Equal(t, int64(6000), *resp.AmountCOP) // 60 billable minutes at 100

	cut, err := f.cashCuts.FindOpenByOperator(context.Background(), testActor.BranchID, testActor.OperatorID)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), cut.TotalSalesCOP.Amount())
	assert.Equal(t, int64(6000), cut.TotalCashCOP.Amount())
	assert.True(t, cut.TotalElectronicCOP.IsZero())
}

func TestCheckOutElectronicDoesNotTouchCash(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 0)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "xyz789",
	})
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)
	_, err = f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CARD",
	})
	require.NoError(t, err)

	cut, err := f.cashCuts.FindOpenByOperator(context.Background(), testActor.BranchID, testActor.OperatorID)
	require.NoError(t, err)
	assert.True(t, cut.TotalCashCOP.IsZero())
	assert.Equal(t, int64(3000), cut.TotalElectronicCOP.Amount())
}

func TestCheckOutByPlateFallback(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 60)

	_, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	// Lost QR: operator types the plate in lowercase
	resp, err := f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: "abc123", PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	require.NotNil(t, resp.AmountCOP)
	assert.Equal(t, int64(0), *resp.AmountCOP) // still inside the grace period
}

func TestCheckOutUnknownCode(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)

	_, err := f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: "nope", PaymentMethod: "CASH",
	})
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestCheckOutWithoutTariffFails(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CASH",
	})
	assert.Equal(t, model.KindValidation, model.KindOf(err))
	assert.Contains(t, err.Error(), "tarifa de precios")
}

func TestCheckOutTwiceLosesSecondRace(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 0)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CASH",
	})
	assert.Equal(t, model.KindInvalidState, model.KindOf(err))
}

func TestCancelOpenTicket(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "MOTORCYCLE", Plate: "mno456",
	})
	require.NoError(t, err)
	id := uuid.MustParse(in.TicketID)

	resp, err := f.svc.Cancel(context.Background(), testActor, id, "cliente no retiro el vehiculo")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Nil(t, resp.AmountCOP)

	// Re-cancel hits the terminal state
	_, err = f.svc.Cancel(context.Background(), testActor, id, "otra vez")
	assert.Equal(t, model.KindInvalidState, model.KindOf(err))
}

func TestCancelForeignBranchForbidden(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	foreign := testActor
	foreign.BranchID = "branch-2"
	_, err = f.svc.Cancel(context.Background(), foreign, uuid.MustParse(in.TicketID), "x")
	assert.Equal(t, model.KindForbidden, model.KindOf(err))
}

func TestGetByQrPreviewsRunningFee(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 5)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	first, err := f.svc.GetByQr(context.Background(), testActor, in.QrCode)
	require.NoError(t, err)
	assert.Equal(t, "OPEN", first.Status)
	assert.Equal(t, 20, first.DurationMinutes)
	assert.Equal(t, int64(1500), first.CurrentAmountCOP)

	// The preview grows with time but never mutates the ticket
	f.clock.Advance(10 * time.Minute)
	second, err := f.svc.GetByQr(context.Background(), testActor, in.QrCode)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), second.CurrentAmountCOP)
	assert.Equal(t, "OPEN", second.Status)
}

func TestGetByQrOnPaidTicketReturnsSettledAmount(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 0)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	_, err = f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	// Hours later the settled amount must not keep growing
	f.clock.Advance(4 * time.Hour)
	info, err := f.svc.GetByQr(context.Background(), testActor, in.QrCode)
	require.NoError(t, err)
	assert.Equal(t, "PAID", info.Status)
	assert.Equal(t, int64(1000), info.CurrentAmountCOP)
}

func TestListActiveShowsRunningFees(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 0)

	for _, plate := range []string{"aaa111", "bbb222"} {
		_, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
			VehicleType: "CAR", Plate: plate,
		})
		require.NoError(t, err)
	}
	// A vehicle type without tariff still shows up, fee 0
	_, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "BICYCLE", Plate: "ccc333",
	})
	require.NoError(t, err)

	f.clock.Advance(15 * time.Minute)
	board, err := f.svc.ListActive(context.Background(), testActor)
	require.NoError(t, err)
	require.Len(t, board, 3)

	fees := map[string]int64{}
	for _, item := range board {
		fees[item.Plate] = item.CurrentAmountCOP
	}
	assert.Equal(t, int64(1500), fees["AAA111"])
	assert.Equal(t, int64(1500), fees["BBB222"])
	assert.Equal(t, int64(0), fees["CCC333"])
}

func TestHistoryByPlate(t *testing.T) {
	f := newTicketFixture(t)
	f.openShift(t)
	f.addMinuteTariff(t, 100, 0)

	in, err := f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)
	f.clock.Advance(10 * time.Minute)
	_, err = f.svc.CheckOut(context.Background(), testActor, dto.CheckOutRequest{
		QrCode: in.QrCode, PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(context.Background(), testActor, dto.CheckInRequest{
		VehicleType: "CAR", Plate: "abc123",
	})
	require.NoError(t, err)

	resp, err := f.svc.HistoryByPlate(context.Background(), testActor, " abc123 ", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Data, 2)
}
