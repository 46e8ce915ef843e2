package billing_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso. Respetan los contratos que importan
// a facturación: unicidad de (workspace, number), contador atómico por
// workspace, borrado restringido y suma fresca de pagos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	workspaces map[string]*entity.Workspace
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{workspaces: map[string]*entity.Workspace{}}
}

func (f *fakeWorkspaceRepo) Create(w *entity.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workspaces[w.ID] = w
	return nil
}

func (f *fakeWorkspaceRepo) GetByID(id string) (*entity.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workspaces[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (f *fakeWorkspaceRepo) List(limit, offset int) ([]*entity.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Workspace, 0, len(f.workspaces))
	for _, w := range f.workspaces {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeWorkspaceRepo) NextInvoiceNumber(workspaceID string) (string, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.workspaces[workspaceID]
	if !ok {
		return "", 0, domain.ErrNotFound
	}
	w.InvoiceNumberCounter++
	return w.InvoiceNumberPrefix, w.InvoiceNumberCounter, nil
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	rows     map[string][]*entity.InvoiceRow
	numbers  map[string]bool // workspaceID + "|" + number
	payments *fakePaymentRepo
}

func newFakeInvoiceRepo(payments *fakePaymentRepo) *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: map[string]*entity.Invoice{},
		rows:     map[string][]*entity.InvoiceRow{},
		numbers:  map[string]bool{},
		payments: payments,
	}
}

func numberKey(workspaceID, number string) string { return workspaceID + "|" + number }

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := numberKey(inv.WorkspaceID, inv.Number)
	if f.numbers[key] {
		return domain.ErrDuplicate
	}
	f.numbers[key] = true
	cp := *inv
	cp.Rows = nil
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inv
	cp.Rows = nil
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) UpdateState(inv *entity.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.State = inv.State
	stored.SentAt = inv.SentAt
	stored.UpdatedAt = inv.UpdatedAt
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return f.GetByID(id)
}

func (f *fakeInvoiceRepo) ListByWorkspace(workspaceID string, states []domainbilling.State, limit, offset int) ([]*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range f.invoices {
		if inv.WorkspaceID != workspaceID {
			continue
		}
		for _, s := range states {
			if inv.State == s {
				cp := *inv
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) CreateRow(row *entity.InvoiceRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.rows[row.InvoiceID] = append(f.rows[row.InvoiceID], &cp)
	return nil
}

func (f *fakeInvoiceRepo) ReplaceRows(invoiceID string, rows []*entity.InvoiceRow) error {
	f.mu.Lock()
	f.rows[invoiceID] = nil
	f.mu.Unlock()
	for _, r := range rows {
		r.InvoiceID = invoiceID
		if err := f.CreateRow(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeInvoiceRepo) GetRowsByInvoiceID(invoiceID string) ([]*entity.InvoiceRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.InvoiceRow, 0, len(f.rows[invoiceID]))
	for _, r := range f.rows[invoiceID] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rows[id]) > 0 {
		return domain.ErrDeletionRestricted
	}
	if f.payments != nil && f.payments.countByInvoice(id) > 0 {
		return domain.ErrDeletionRestricted
	}
	inv, ok := f.invoices[id]
	if ok {
		delete(f.numbers, numberKey(inv.WorkspaceID, inv.Number))
	}
	delete(f.invoices, id)
	return nil
}

// takeNumber marca un número como ocupado sin factura detrás, para simular
// colisiones del secuenciador.
func (f *fakeInvoiceRepo) takeNumber(workspaceID, number string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.numbers[numberKey(workspaceID, number)] = true
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*entity.Payment{}}
}

func (f *fakePaymentRepo) Create(p *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) Update(p *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentRepo) GetByID(id string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentRepo) ListByInvoiceID(invoiceID string) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) SumByInvoiceID(invoiceID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := decimal.Zero
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (f *fakePaymentRepo) countByInvoice(invoiceID string) int {
	n := 0
	for _, p := range f.payments {
		if p.InvoiceID == invoiceID {
			n++
		}
	}
	return n
}

type fakeContractRepo struct {
	mu        sync.Mutex
	contracts map[string]*entity.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: map[string]*entity.Contract{}}
}

func (f *fakeContractRepo) Create(c *entity.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contracts[c.ID] = c
	return nil
}

func (f *fakeContractRepo) GetByID(id string) (*entity.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContractRepo) ListByWorkspace(workspaceID string, limit, offset int) ([]*entity.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Contract
	for _, c := range f.contracts {
		if c.WorkspaceID == workspaceID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta el callback directo sobre los fakes; la atomicidad real
// la cubren los tests de integración con PostgreSQL.
type fakeTxRunner struct {
	workspaceRepo repository.WorkspaceRepository
	invoiceRepo   repository.InvoiceRepository
	paymentRepo   repository.PaymentRepository
}

func (f *fakeTxRunner) RunBilling(_ context.Context, fn func(
	repository.WorkspaceRepository,
	repository.InvoiceRepository,
	repository.PaymentRepository,
) error) error {
	return fn(f.workspaceRepo, f.invoiceRepo, f.paymentRepo)
}

// fakeDispatcher captura las notificaciones encoladas.
type fakeDispatcher struct {
	mu   sync.Mutex
	sent []appbilling.Notification
}

func (f *fakeDispatcher) Enqueue(n appbilling.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeDispatcher) notifications() []appbilling.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]appbilling.Notification, len(f.sent))
	copy(out, f.sent)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del entorno de pruebas
// ──────────────────────────────────────────────────────────────────────────────

type billingEnv struct {
	workspaceRepo *fakeWorkspaceRepo
	invoiceRepo   *fakeInvoiceRepo
	paymentRepo   *fakePaymentRepo
	contractRepo  *fakeContractRepo
	dispatcher    *fakeDispatcher
	ledger        *appbilling.Ledger
	invoiceUC     *appbilling.InvoiceUseCase
	lifecycleUC   *appbilling.LifecycleUseCase
	paymentUC     *appbilling.PaymentUseCase
}

func newBillingEnv() *billingEnv {
	paymentRepo := newFakePaymentRepo()
	invoiceRepo := newFakeInvoiceRepo(paymentRepo)
	workspaceRepo := newFakeWorkspaceRepo()
	contractRepo := newFakeContractRepo()
	dispatcher := &fakeDispatcher{}
	ledger := appbilling.NewLedger(paymentRepo)
	tx := &fakeTxRunner{
		workspaceRepo: workspaceRepo,
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
	}
	return &billingEnv{
		workspaceRepo: workspaceRepo,
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
		contractRepo:  contractRepo,
		dispatcher:    dispatcher,
		ledger:        ledger,
		invoiceUC:     appbilling.NewInvoiceUseCase(tx, workspaceRepo, invoiceRepo, contractRepo, ledger, 3),
		lifecycleUC:   appbilling.NewLifecycleUseCase(tx, invoiceRepo, contractRepo, ledger, dispatcher),
		paymentUC:     appbilling.NewPaymentUseCase(invoiceRepo, paymentRepo),
	}
}
