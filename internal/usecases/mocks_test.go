package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"leadmarket.backend/internal/domain/entities"
	"leadmarket.backend/internal/domain/services"
	"leadmarket.backend/pkg/logger"
)

func init() {
	logger.Init("test")
}

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *entities.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Job), args.Error(1)
}

func (m *MockJobRepository) GetByIDLocked(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Job), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, job *entities.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.JobStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockJobRepository) SetWinner(ctx context.Context, id uuid.UUID, contractorID uuid.UUID) error {
	return m.Called(ctx, id, contractorID).Error(0)
}

func (m *MockJobRepository) MarkCommissionPaid(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepository) ListOpen(ctx context.Context, limit, offset int) ([]*entities.Job, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Job), args.Int(1), args.Error(2)
}

func (m *MockJobRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Job, int, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Job), args.Int(1), args.Error(2)
}

// Mock JobAccessRepository
type MockJobAccessRepository struct {
	mock.Mock
}

func (m *MockJobAccessRepository) Create(ctx context.Context, access *entities.JobAccess) error {
	return m.Called(ctx, access).Error(0)
}

func (m *MockJobAccessRepository) GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.JobAccess, error) {
	args := m.Called(ctx, jobID, contractorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.JobAccess), args.Error(1)
}

func (m *MockJobAccessRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobAccessRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entities.JobAccess, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.JobAccess), args.Error(1)
}

func (m *MockJobAccessRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.JobAccess, int, error) {
	args := m.Called(ctx, contractorID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.JobAccess), args.Int(1), args.Error(2)
}

// Mock LeadPaymentRepository
type MockLeadPaymentRepository struct {
	mock.Mock
}

func (m *MockLeadPaymentRepository) Create(ctx context.Context, payment *entities.LeadPayment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockLeadPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.LeadPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LeadPayment), args.Error(1)
}

func (m *MockLeadPaymentRepository) GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.LeadPayment, error) {
	args := m.Called(ctx, jobID, contractorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LeadPayment), args.Error(1)
}

func (m *MockLeadPaymentRepository) ApplyRefund(ctx context.Context, id uuid.UUID, amountCents int64, status entities.LeadPaymentStatus) error {
	return m.Called(ctx, id, amountCents, status).Error(0)
}

// Mock JobApplicationRepository
type MockJobApplicationRepository struct {
	mock.Mock
}

func (m *MockJobApplicationRepository) Create(ctx context.Context, application *entities.JobApplication) error {
	return m.Called(ctx, application).Error(0)
}

func (m *MockJobApplicationRepository) GetByJobAndContractor(ctx context.Context, jobID, contractorID uuid.UUID) (*entities.JobApplication, error) {
	args := m.Called(ctx, jobID, contractorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.JobApplication), args.Error(1)
}

func (m *MockJobApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockJobApplicationRepository) RejectOtherPending(ctx context.Context, jobID, winnerContractorID uuid.UUID) error {
	return m.Called(ctx, jobID, winnerContractorID).Error(0)
}

func (m *MockJobApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entities.JobApplication, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.JobApplication), args.Error(1)
}

// Mock ContractorRepository
type MockContractorRepository struct {
	mock.Mock
}

func (m *MockContractorRepository) Create(ctx context.Context, contractor *entities.Contractor) error {
	return m.Called(ctx, contractor).Error(0)
}

func (m *MockContractorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contractor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contractor), args.Error(1)
}

func (m *MockContractorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Contractor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contractor), args.Error(1)
}

func (m *MockContractorRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockContractorRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockContractorRepository) ResetBalance(ctx context.Context, id uuid.UUID, balance int64, at time.Time) error {
	return m.Called(ctx, id, balance, at).Error(0)
}

func (m *MockContractorRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContractorStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockContractorRepository) ListDueForReset(ctx context.Context, before time.Time, limit int) ([]*entities.Contractor, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Contractor), args.Error(1)
}

// Mock CreditTransactionRepository
type MockCreditTransactionRepository struct {
	mock.Mock
}

func (m *MockCreditTransactionRepository) Create(ctx context.Context, tx *entities.CreditTransaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockCreditTransactionRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CreditTransaction, int, error) {
	args := m.Called(ctx, contractorID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.CreditTransaction), args.Int(1), args.Error(2)
}

func (m *MockCreditTransactionRepository) SumByContractor(ctx context.Context, contractorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, contractorID)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) Create(ctx context.Context, commission *entities.CommissionPayment) error {
	return m.Called(ctx, commission).Error(0)
}

func (m *MockCommissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.CommissionPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CommissionPayment), args.Error(1)
}

func (m *MockCommissionRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*entities.CommissionPayment, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CommissionPayment), args.Error(1)
}

func (m *MockCommissionRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	return m.Called(ctx, id, paidAt).Error(0)
}

func (m *MockCommissionRepository) MarkWaived(ctx context.Context, id uuid.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockCommissionRepository) MarkOverdue(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockCommissionRepository) ListPendingPastDue(ctx context.Context, now time.Time, limit int) ([]*entities.CommissionPayment, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CommissionPayment), args.Error(1)
}

func (m *MockCommissionRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CommissionPayment, int, error) {
	args := m.Called(ctx, contractorID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.CommissionPayment), args.Int(1), args.Error(2)
}

func (m *MockCommissionRepository) HasOpenDebt(ctx context.Context, contractorID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, contractorID, excludeID)
	return args.Bool(0), args.Error(1)
}

// Mock InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *entities.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) GetByCommissionID(ctx context.Context, commissionID uuid.UUID) (*entities.Invoice, error) {
	args := m.Called(ctx, commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) MarkPaid(ctx context.Context, commissionID uuid.UUID, settledAt time.Time) error {
	return m.Called(ctx, commissionID, settledAt).Error(0)
}

func (m *MockInvoiceRepository) MarkVoid(ctx context.Context, commissionID uuid.UUID) error {
	return m.Called(ctx, commissionID).Error(0)
}

// Mock ServicePricingRepository
type MockServicePricingRepository struct {
	mock.Mock
}

func (m *MockServicePricingRepository) GetActive(ctx context.Context) (*entities.ServicePricing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ServicePricing), args.Error(1)
}

func (m *MockServicePricingRepository) Upsert(ctx context.Context, pricing *entities.ServicePricing) error {
	return m.Called(ctx, pricing).Error(0)
}

// Mock AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*entities.AuditLog, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AuditLog), args.Error(1)
}

// Mock PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req services.ChargeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, req services.RefundRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Mock Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n services.Notification) {
	m.Called(ctx, n)
}
