package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/stockit-api/internal/application/dto"
)

// ─── auth ───────────────────────────────────────────────────────────────────

type mockAuth struct{ mock.Mock }

func (m *mockAuth) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dto.UserResponse)
	return out, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dto.LoginResponse)
	return out, args.Error(1)
}

func (m *mockAuth) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (*dto.ForgotPasswordResponse, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dto.ForgotPasswordResponse)
	return out, args.Error(1)
}

func (m *mockAuth) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	return m.Called(ctx, in).Error(0)
}

// ─── stock ──────────────────────────────────────────────────────────────────

type mockStock struct{ mock.Mock }

func (m *mockStock) items(args mock.Arguments) ([]dto.StockItemResponse, error) {
	out, _ := args.Get(0).([]dto.StockItemResponse)
	return out, args.Error(1)
}

func (m *mockStock) ListAll(ctx context.Context) ([]dto.StockItemResponse, error) {
	return m.items(m.Called(ctx))
}

func (m *mockStock) ListGeneral(ctx context.Context) ([]dto.StockItemResponse, error) {
	return m.items(m.Called(ctx))
}

func (m *mockStock) ListByOwner(ctx context.Context, caller, owner string) ([]dto.StockItemResponse, error) {
	return m.items(m.Called(ctx, caller, owner))
}

func (m *mockStock) Search(ctx context.Context, fragment string, owner *string) ([]dto.StockItemResponse, error) {
	return m.items(m.Called(ctx, fragment, owner))
}

func (m *mockStock) AddPersonal(ctx context.Context, caller string, in dto.AddPersonalStockRequest) (*dto.AddPersonalStockResponse, error) {
	args := m.Called(ctx, caller, in)
	out, _ := args.Get(0).(*dto.AddPersonalStockResponse)
	return out, args.Error(1)
}

func (m *mockStock) AddGeneral(ctx context.Context, in dto.AddGeneralStockRequest) (*dto.StockItemResponse, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dto.StockItemResponse)
	return out, args.Error(1)
}

func (m *mockStock) Update(ctx context.Context, caller, id string, in dto.UpdateStockRequest) (*dto.StockItemResponse, error) {
	args := m.Called(ctx, caller, id, in)
	out, _ := args.Get(0).(*dto.StockItemResponse)
	return out, args.Error(1)
}

func (m *mockStock) RemoveOne(ctx context.Context, caller, id string) (*dto.RemoveOneResponse, error) {
	args := m.Called(ctx, caller, id)
	out, _ := args.Get(0).(*dto.RemoveOneResponse)
	return out, args.Error(1)
}

func (m *mockStock) Delete(ctx context.Context, caller, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *mockStock) History(ctx context.Context, caller, owner string) ([]dto.TransferRecordResponse, error) {
	args := m.Called(ctx, caller, owner)
	out, _ := args.Get(0).([]dto.TransferRecordResponse)
	return out, args.Error(1)
}

type mockTransfer struct{ mock.Mock }

func (m *mockTransfer) Transfer(ctx context.Context, caller string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	args := m.Called(ctx, caller, in)
	out, _ := args.Get(0).(*dto.TransferResponse)
	return out, args.Error(1)
}

// ─── usos ───────────────────────────────────────────────────────────────────

type mockUsage struct{ mock.Mock }

func (m *mockUsage) Consume(ctx context.Context, caller string, in dto.ConsumeRequest) (*dto.ConsumeResponse, error) {
	args := m.Called(ctx, caller, in)
	out, _ := args.Get(0).(*dto.ConsumeResponse)
	return out, args.Error(1)
}

func (m *mockUsage) ListAll(ctx context.Context) ([]dto.UsageRecordResponse, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]dto.UsageRecordResponse)
	return out, args.Error(1)
}

func (m *mockUsage) ListByOwner(ctx context.Context, caller, owner string) ([]dto.UsageRecordResponse, error) {
	args := m.Called(ctx, caller, owner)
	out, _ := args.Get(0).([]dto.UsageRecordResponse)
	return out, args.Error(1)
}

func (m *mockUsage) Stats(ctx context.Context, caller, owner string) ([]dto.UsageStatResponse, error) {
	args := m.Called(ctx, caller, owner)
	out, _ := args.Get(0).([]dto.UsageStatResponse)
	return out, args.Error(1)
}

func (m *mockUsage) Delete(ctx context.Context, caller, id string) error {
	return m.Called(ctx, caller, id).Error(0)
}

// ─── correo ─────────────────────────────────────────────────────────────────

type mockReports struct{ mock.Mock }

func (m *mockReports) SendWeekly(ctx context.Context, automatic bool) (*dto.WeeklyReportResponse, error) {
	args := m.Called(ctx, automatic)
	out, _ := args.Get(0).(*dto.WeeklyReportResponse)
	return out, args.Error(1)
}

func (m *mockReports) SendTest(ctx context.Context) (*dto.TestEmailResponse, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*dto.TestEmailResponse)
	return out, args.Error(1)
}

func (m *mockReports) TestConfig() dto.TestConfigResponse {
	return m.Called().Get(0).(dto.TestConfigResponse)
}

func (m *mockReports) SendPersonal(ctx context.Context, caller string, in dto.PersonalReportRequest) (*dto.PersonalReportResponse, error) {
	args := m.Called(ctx, caller, in)
	out, _ := args.Get(0).(*dto.PersonalReportResponse)
	return out, args.Error(1)
}

// ─── códigos y usuarios ─────────────────────────────────────────────────────

type mockPartCodes struct{ mock.Mock }

func (m *mockPartCodes) List(ctx context.Context) ([]dto.PartCodeResponse, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]dto.PartCodeResponse)
	return out, args.Error(1)
}

func (m *mockPartCodes) Create(ctx context.Context, in dto.PartCodeRequest) (*dto.PartCodeResponse, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dto.PartCodeResponse)
	return out, args.Error(1)
}

func (m *mockPartCodes) Update(ctx context.Context, id string, in dto.PartCodeRequest) (*dto.PartCodeResponse, error) {
	args := m.Called(ctx, id, in)
	out, _ := args.Get(0).(*dto.PartCodeResponse)
	return out, args.Error(1)
}

func (m *mockPartCodes) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) List(ctx context.Context) ([]dto.UserResponse, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]dto.UserResponse)
	return out, args.Error(1)
}

func (m *mockUsers) ListActive(ctx context.Context) ([]dto.UserResponse, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]dto.UserResponse)
	return out, args.Error(1)
}

func (m *mockUsers) Search(ctx context.Context, term string) ([]dto.UserResponse, error) {
	args := m.Called(ctx, term)
	out, _ := args.Get(0).([]dto.UserResponse)
	return out, args.Error(1)
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*dto.UserResponse)
	return out, args.Error(1)
}
