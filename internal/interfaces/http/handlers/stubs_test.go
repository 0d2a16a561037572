package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadmarket.backend/internal/domain/entities"
	domainerrors "leadmarket.backend/internal/domain/errors"
	"leadmarket.backend/internal/domain/services"
	"leadmarket.backend/internal/interfaces/http/middleware"
	"leadmarket.backend/internal/usecases"
	"leadmarket.backend/pkg/logger"
)

func init() {
	logger.Init("test")
}

type uowStub struct{}

func (uowStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type jobRepoStub struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*entities.Job
}

func newJobRepoStub() *jobRepoStub {
	return &jobRepoStub{jobs: map[uuid.UUID]*entities.Job{}}
}

func (s *jobRepoStub) Create(_ context.Context, job *entities.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *jobRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (s *jobRepoStub) GetByIDLocked(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	return s.GetByID(ctx, id)
}

func (s *jobRepoStub) Update(_ context.Context, job *entities.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *jobRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status entities.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	job.Status = status
	return nil
}

func (s *jobRepoStub) SetWinner(_ context.Context, id uuid.UUID, contractorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	job.WonByContractorID = &contractorID
	return nil
}

func (s *jobRepoStub) MarkCommissionPaid(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if job.CommissionPaid {
		return domainerrors.ErrCommissionSettled
	}
	job.CommissionPaid = true
	return nil
}

func (s *jobRepoStub) ListOpen(_ context.Context, limit, offset int) ([]*entities.Job, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.Job{}
	for _, job := range s.jobs {
		if job.Status == entities.JobStatusPosted {
			out = append(out, job)
		}
	}
	return out, len(out), nil
}

func (s *jobRepoStub) ListByCustomer(_ context.Context, customerID uuid.UUID, limit, offset int) ([]*entities.Job, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.Job{}
	for _, job := range s.jobs {
		if job.CustomerID == customerID {
			out = append(out, job)
		}
	}
	return out, len(out), nil
}

type accessKey struct{ job, contractor uuid.UUID }

type accessRepoStub struct {
	mu       sync.Mutex
	accesses map[accessKey]*entities.JobAccess
}

func newAccessRepoStub() *accessRepoStub {
	return &accessRepoStub{accesses: map[accessKey]*entities.JobAccess{}}
}

func (s *accessRepoStub) Create(_ context.Context, access *entities.JobAccess) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := accessKey{access.JobID, access.ContractorID}
	if _, ok := s.accesses[k]; ok {
		return domainerrors.ErrAlreadyHasAccess
	}
	s.accesses[k] = access
	return nil
}

func (s *accessRepoStub) GetByJobAndContractor(_ context.Context, jobID, contractorID uuid.UUID) (*entities.JobAccess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	access, ok := s.accesses[accessKey{jobID, contractorID}]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return access, nil
}

func (s *accessRepoStub) CountByJob(_ context.Context, jobID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.accesses {
		if k.job == jobID {
			n++
		}
	}
	return n, nil
}

func (s *accessRepoStub) ListByJob(_ context.Context, jobID uuid.UUID) ([]*entities.JobAccess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.JobAccess{}
	for k, a := range s.accesses {
		if k.job == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *accessRepoStub) ListByContractor(_ context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.JobAccess, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.JobAccess{}
	for k, a := range s.accesses {
		if k.contractor == contractorID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

type appRepoStub struct {
	mu   sync.Mutex
	apps map[accessKey]*entities.JobApplication
}

func newAppRepoStub() *appRepoStub {
	return &appRepoStub{apps: map[accessKey]*entities.JobApplication{}}
}

func (s *appRepoStub) Create(_ context.Context, application *entities.JobApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := accessKey{application.JobID, application.ContractorID}
	if _, ok := s.apps[k]; ok {
		return domainerrors.ErrAlreadyExists
	}
	s.apps[k] = application
	return nil
}

func (s *appRepoStub) GetByJobAndContractor(_ context.Context, jobID, contractorID uuid.UUID) (*entities.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[accessKey{jobID, contractorID}]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return app, nil
}

func (s *appRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status entities.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range s.apps {
		if app.ID == id {
			app.Status = status
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (s *appRepoStub) RejectOtherPending(_ context.Context, jobID, winnerContractorID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, app := range s.apps {
		if k.job == jobID && k.contractor != winnerContractorID && app.Status == entities.ApplicationStatusPending {
			app.Status = entities.ApplicationStatusRejected
		}
	}
	return nil
}

func (s *appRepoStub) ListByJob(_ context.Context, jobID uuid.UUID) ([]*entities.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.JobApplication{}
	for k, app := range s.apps {
		if k.job == jobID {
			out = append(out, app)
		}
	}
	return out, nil
}

type contractorRepoStub struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*entities.Contractor
	byUser map[uuid.UUID]*entities.Contractor
}

func newContractorRepoStub() *contractorRepoStub {
	return &contractorRepoStub{
		byID:   map[uuid.UUID]*entities.Contractor{},
		byUser: map[uuid.UUID]*entities.Contractor{},
	}
}

func (s *contractorRepoStub) add(c *entities.Contractor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = c
	s.byUser[c.UserID] = c
}

func (s *contractorRepoStub) Create(_ context.Context, contractor *entities.Contractor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUser[contractor.UserID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	s.byID[contractor.ID] = contractor
	s.byUser[contractor.UserID] = contractor
	return nil
}

func (s *contractorRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.Contractor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return c, nil
}

func (s *contractorRepoStub) GetByUserID(_ context.Context, userID uuid.UUID) (*entities.Contractor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byUser[userID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return c, nil
}

func (s *contractorRepoStub) DebitBalance(_ context.Context, id uuid.UUID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if c.CreditsBalance < amount {
		return domainerrors.ErrInsufficientCredits
	}
	c.CreditsBalance -= amount
	return nil
}

func (s *contractorRepoStub) CreditBalance(_ context.Context, id uuid.UUID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	c.CreditsBalance += amount
	return nil
}

func (s *contractorRepoStub) ResetBalance(_ context.Context, id uuid.UUID, balance int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	c.CreditsBalance = balance
	c.LastCreditReset = &at
	return nil
}

func (s *contractorRepoStub) UpdateStatus(_ context.Context, id uuid.UUID, status entities.ContractorStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	c.Status = status
	return nil
}

func (s *contractorRepoStub) ListDueForReset(_ context.Context, cutoff time.Time, limit int) ([]*entities.Contractor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*entities.Contractor
	for _, c := range s.byID {
		if c.LastCreditReset == nil || c.LastCreditReset.Before(cutoff) {
			copied := *c
			due = append(due, &copied)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

type creditTxRepoStub struct {
	mu      sync.Mutex
	entries []*entities.CreditTransaction
}

func (s *creditTxRepoStub) Create(_ context.Context, tx *entities.CreditTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, tx)
	return nil
}

func (s *creditTxRepoStub) ListByContractor(_ context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CreditTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.CreditTransaction{}
	for _, tx := range s.entries {
		if tx.ContractorID == contractorID {
			out = append(out, tx)
		}
	}
	return out, len(out), nil
}

func (s *creditTxRepoStub) SumByContractor(_ context.Context, contractorID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, tx := range s.entries {
		if tx.ContractorID != contractorID {
			continue
		}
		sum += tx.Signed()
	}
	return sum, nil
}

type leadPaymentRepoStub struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entities.LeadPayment
}

func newLeadPaymentRepoStub() *leadPaymentRepoStub {
	return &leadPaymentRepoStub{payments: map[uuid.UUID]*entities.LeadPayment{}}
}

func (s *leadPaymentRepoStub) Create(_ context.Context, payment *entities.LeadPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.ID] = payment
	return nil
}

func (s *leadPaymentRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.LeadPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return p, nil
}

func (s *leadPaymentRepoStub) GetByJobAndContractor(_ context.Context, jobID, contractorID uuid.UUID) (*entities.LeadPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.JobID == jobID && p.ContractorID == contractorID {
			return p, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *leadPaymentRepoStub) ApplyRefund(_ context.Context, id uuid.UUID, amountCents int64, status entities.LeadPaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	p.RefundedCents += amountCents
	p.Status = status
	return nil
}

type commissionRepoStub struct {
	mu          sync.Mutex
	commissions map[uuid.UUID]*entities.CommissionPayment
}

func newCommissionRepoStub() *commissionRepoStub {
	return &commissionRepoStub{commissions: map[uuid.UUID]*entities.CommissionPayment{}}
}

func (s *commissionRepoStub) Create(_ context.Context, commission *entities.CommissionPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.commissions {
		if c.JobID == commission.JobID {
			return domainerrors.ErrAlreadyExists
		}
	}
	s.commissions[commission.ID] = commission
	return nil
}

func (s *commissionRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.CommissionPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commissions[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return c, nil
}

func (s *commissionRepoStub) GetByJobID(_ context.Context, jobID uuid.UUID) (*entities.CommissionPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.commissions {
		if c.JobID == jobID {
			return c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *commissionRepoStub) MarkPaid(_ context.Context, id uuid.UUID, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commissions[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	c.Status = entities.CommissionStatusPaid
	c.PaidAt = &paidAt
	return nil
}

func (s *commissionRepoStub) MarkWaived(_ context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.commissions[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	c.Status = entities.CommissionStatusWaived
	return nil
}

func (s *commissionRepoStub) MarkOverdue(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if c, ok := s.commissions[id]; ok {
			c.Status = entities.CommissionStatusOverdue
		}
	}
	return nil
}

func (s *commissionRepoStub) ListPendingPastDue(_ context.Context, now time.Time, limit int) ([]*entities.CommissionPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.CommissionPayment{}
	for _, c := range s.commissions {
		if c.Status == entities.CommissionStatusPending && c.DueDate.Before(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *commissionRepoStub) ListByContractor(_ context.Context, contractorID uuid.UUID, limit, offset int) ([]*entities.CommissionPayment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.CommissionPayment{}
	for _, c := range s.commissions {
		if c.ContractorID == contractorID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (s *commissionRepoStub) HasOpenDebt(_ context.Context, contractorID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.commissions {
		if c.ContractorID == contractorID && c.ID != excludeID && c.Status == entities.CommissionStatusOverdue {
			return true, nil
		}
	}
	return false, nil
}

type invoiceRepoStub struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*entities.Invoice
}

func newInvoiceRepoStub() *invoiceRepoStub {
	return &invoiceRepoStub{invoices: map[uuid.UUID]*entities.Invoice{}}
}

func (s *invoiceRepoStub) Create(_ context.Context, invoice *entities.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[invoice.CommissionID] = invoice
	return nil
}

func (s *invoiceRepoStub) GetByCommissionID(_ context.Context, commissionID uuid.UUID) (*entities.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[commissionID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return inv, nil
}

func (s *invoiceRepoStub) MarkPaid(_ context.Context, commissionID uuid.UUID, settledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[commissionID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	inv.Status = entities.InvoiceStatusPaid
	inv.SettledAt = &settledAt
	return nil
}

func (s *invoiceRepoStub) MarkVoid(_ context.Context, commissionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[commissionID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	inv.Status = entities.InvoiceStatusVoid
	return nil
}

type pricingRepoStub struct {
	mu      sync.Mutex
	pricing *entities.ServicePricing
}

func (s *pricingRepoStub) GetActive(context.Context) (*entities.ServicePricing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pricing == nil {
		return nil, domainerrors.ErrNotFound
	}
	return s.pricing, nil
}

func (s *pricingRepoStub) Upsert(_ context.Context, pricing *entities.ServicePricing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pricing = pricing
	return nil
}

type auditRepoStub struct {
	mu      sync.Mutex
	entries []*entities.AuditLog
}

func (s *auditRepoStub) Create(_ context.Context, entry *entities.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *auditRepoStub) ListByEntity(_ context.Context, entityType string, entityID uuid.UUID) ([]*entities.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.AuditLog{}
	for _, e := range s.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type gatewayStub struct {
	mu      sync.Mutex
	charges int
	refunds int
	fail    bool
}

func (s *gatewayStub) Charge(_ context.Context, req services.ChargeRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", domainerrors.ErrGatewayFailure
	}
	s.charges++
	return fmt.Sprintf("ch_stub_%d", s.charges), nil
}

func (s *gatewayStub) Refund(_ context.Context, req services.RefundRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", domainerrors.ErrGatewayFailure
	}
	s.refunds++
	return fmt.Sprintf("re_stub_%d", s.refunds), nil
}

type notifierStub struct {
	mu     sync.Mutex
	events []string
}

func (s *notifierStub) Notify(_ context.Context, n services.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, n.Event)
}

// handlerFixture wires every usecase over in-memory stubs so handlers can be
// exercised end to end through a gin router.
type handlerFixture struct {
	jobRepo         *jobRepoStub
	accessRepo      *accessRepoStub
	appRepo         *appRepoStub
	contractorRepo  *contractorRepoStub
	creditTxRepo    *creditTxRepoStub
	leadPaymentRepo *leadPaymentRepoStub
	commissionRepo  *commissionRepoStub
	invoiceRepo     *invoiceRepoStub
	pricingRepo     *pricingRepoStub
	auditRepo       *auditRepoStub
	gateway         *gatewayStub
	notifier        *notifierStub

	jobs        *usecases.JobLifecycleUsecase
	leadAccess  *usecases.LeadAccessUsecase
	commissions *usecases.CommissionUsecase
	credits     *usecases.CreditLedgerUsecase
	contractors *usecases.ContractorUsecase
	pricing     *usecases.PricingUsecase
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		jobRepo:         newJobRepoStub(),
		accessRepo:      newAccessRepoStub(),
		appRepo:         newAppRepoStub(),
		contractorRepo:  newContractorRepoStub(),
		creditTxRepo:    &creditTxRepoStub{},
		leadPaymentRepo: newLeadPaymentRepoStub(),
		commissionRepo:  newCommissionRepoStub(),
		invoiceRepo:     newInvoiceRepoStub(),
		pricingRepo:     &pricingRepoStub{},
		auditRepo:       &auditRepoStub{},
		gateway:         &gatewayStub{},
		notifier:        &notifierStub{},
	}

	uow := uowStub{}
	f.pricing = usecases.NewPricingUsecase(f.pricingRepo, f.jobRepo)
	f.credits = usecases.NewCreditLedgerUsecase(f.contractorRepo, f.creditTxRepo, f.auditRepo, uow)
	f.contractors = usecases.NewContractorUsecase(f.contractorRepo, f.credits)
	f.jobs = usecases.NewJobLifecycleUsecase(f.jobRepo, f.accessRepo, f.appRepo, f.notifier, uow)
	f.leadAccess = usecases.NewLeadAccessUsecase(
		f.jobRepo, f.accessRepo, f.leadPaymentRepo, f.contractorRepo,
		f.pricing, f.credits, f.gateway, f.notifier, uow,
	)
	f.commissions = usecases.NewCommissionUsecase(
		f.jobRepo, f.accessRepo, f.commissionRepo, f.invoiceRepo, f.contractorRepo,
		f.leadPaymentRepo, f.auditRepo, f.gateway, f.notifier, uow,
		usecases.DefaultCommissionRate, usecases.CommissionDueDays,
	)
	return f
}

func withIdentity(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
}
