package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/erp-service/internal/domain"
	"github.com/spec-kit/erp-service/internal/events"
	"github.com/spec-kit/erp-service/internal/repository"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	byID map[string]*domain.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*domain.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return fmt.Errorf("duplicate email")
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) List(_ context.Context, _ repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

type fakeDepartments struct {
	byID map[string]*domain.Department
}

func newFakeDepartments() *fakeDepartments {
	return &fakeDepartments{byID: map[string]*domain.Department{}}
}

func (f *fakeDepartments) Create(_ context.Context, d *domain.Department) error {
	d.ID = uuid.NewString()
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDepartments) Update(_ context.Context, d *domain.Department) error {
	cp := *d
	f.byID[d.ID] = &cp
	return nil
}

func (f *fakeDepartments) GetByID(_ context.Context, id string) (*domain.Department, error) {
	if d, ok := f.byID[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDepartments) List(_ context.Context, _ bool) ([]domain.Department, error) {
	var out []domain.Department
	for _, d := range f.byID {
		out = append(out, *d)
	}
	return out, nil
}

type fakeEmployees struct {
	byID     map[string]*domain.Employee
	countErr error
}

func newFakeEmployees(emps ...domain.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: map[string]*domain.Employee{}}
	for i := range emps {
		e := emps[i]
		f.byID[e.ID] = &e
	}
	return f
}

func (f *fakeEmployees) Create(_ context.Context, e *domain.Employee) error {
	e.ID = uuid.NewString()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) Update(_ context.Context, e *domain.Employee) error {
	if _, ok := f.byID[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployees) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, e := range f.byID {
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeEmployees) Count(ctx context.Context, filter repository.EmployeeFilter) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	list, _ := f.List(ctx, filter)
	return len(list), nil
}

type fakeLeave struct {
	requests map[string]*domain.LeaveRequest
	balances map[string]*domain.LeaveBalance
}

func newFakeLeave() *fakeLeave {
	return &fakeLeave{requests: map[string]*domain.LeaveRequest{}, balances: map[string]*domain.LeaveBalance{}}
}

func balanceKey(employeeID string, year int, lt domain.LeaveType) string {
	return fmt.Sprintf("%s|%d|%s", employeeID, year, lt)
}

func (f *fakeLeave) CreateRequest(_ context.Context, r *domain.LeaveRequest) error {
	r.ID = uuid.NewString()
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakeLeave) GetRequest(_ context.Context, id string) (*domain.LeaveRequest, error) {
	if r, ok := f.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeLeave) ListRequests(_ context.Context, filter repository.LeaveFilter) ([]domain.LeaveRequest, error) {
	var out []domain.LeaveRequest
	for _, r := range f.requests {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeLeave) CountOverlapping(_ context.Context, employeeID string, start, end time.Time) (int, error) {
	n := 0
	for _, r := range f.requests {
		if r.EmployeeID != employeeID {
			continue
		}
		if r.Status != domain.LeaveStatusPending && r.Status != domain.LeaveStatusApproved {
			continue
		}
		if !r.StartDate.After(end) && !r.EndDate.Before(start) {
			n++
		}
	}
	return n, nil
}

func (f *fakeLeave) Review(_ context.Context, r *domain.LeaveRequest, from domain.LeaveStatus, usedDelta int) error {
	stored, ok := f.requests[r.ID]
	if !ok || stored.Status != from {
		return pgx.ErrNoRows
	}
	if usedDelta != 0 {
		b, ok := f.balances[balanceKey(r.EmployeeID, r.StartDate.Year(), r.LeaveType)]
		if !ok {
			return pgx.ErrNoRows
		}
		if usedDelta > 0 && b.UsedDays+usedDelta > b.TotalDays {
			return repository.ErrInsufficientBalance
		}
		b.UsedDays += usedDelta
	}
	cp := *r
	f.requests[r.ID] = &cp
	return nil
}

func (f *fakeLeave) GetBalance(_ context.Context, employeeID string, year int, lt domain.LeaveType) (*domain.LeaveBalance, error) {
	if b, ok := f.balances[balanceKey(employeeID, year, lt)]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeLeave) ListBalances(_ context.Context, employeeID string, year int) ([]domain.LeaveBalance, error) {
	var out []domain.LeaveBalance
	for _, b := range f.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveType < out[j].LeaveType })
	return out, nil
}

func (f *fakeLeave) UpsertBalance(_ context.Context, b *domain.LeaveBalance) error {
	key := balanceKey(b.EmployeeID, b.Year, b.LeaveType)
	if existing, ok := f.balances[key]; ok {
		existing.TotalDays = b.TotalDays
		*b = *existing
		return nil
	}
	b.ID = uuid.NewString()
	cp := *b
	f.balances[key] = &cp
	return nil
}

func (f *fakeLeave) CountPending(_ context.Context) (int, error) {
	n := 0
	for _, r := range f.requests {
		if r.Status == domain.LeaveStatusPending {
			n++
		}
	}
	return n, nil
}

func (f *fakeLeave) CountOnLeave(_ context.Context, day time.Time) (int, error) {
	seen := map[string]bool{}
	for _, r := range f.requests {
		if r.Status == domain.LeaveStatusApproved && !r.StartDate.After(day) && !r.EndDate.Before(day) {
			seen[r.EmployeeID] = true
		}
	}
	return len(seen), nil
}

type fakeOnboarding struct {
	byID map[string]*domain.OnboardingProcess
}

func newFakeOnboarding() *fakeOnboarding {
	return &fakeOnboarding{byID: map[string]*domain.OnboardingProcess{}}
}

func (f *fakeOnboarding) Create(_ context.Context, p *domain.OnboardingProcess) error {
	p.ID = uuid.NewString()
	for i := range p.Tasks {
		p.Tasks[i].ID = uuid.NewString()
		p.Tasks[i].ProcessID = p.ID
	}
	cp := *p
	cp.Tasks = append([]domain.OnboardingTask(nil), p.Tasks...)
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeOnboarding) GetByID(_ context.Context, id string) (*domain.OnboardingProcess, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	cp.Tasks = append([]domain.OnboardingTask(nil), p.Tasks...)
	return &cp, nil
}

func (f *fakeOnboarding) List(_ context.Context, _ *domain.OnboardingStatus, _ repository.Page) ([]domain.OnboardingProcess, error) {
	var out []domain.OnboardingProcess
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeOnboarding) CompleteTask(_ context.Context, processID, taskID string, at time.Time) error {
	p, ok := f.byID[processID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks[i].Completed = true
			p.Tasks[i].CompletedAt = &at
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeOnboarding) UpdateStatus(_ context.Context, processID string, status domain.OnboardingStatus) error {
	p, ok := f.byID[processID]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	return nil
}

type fakeProducts struct {
	byID  map[string]*domain.Product
	stock *fakeStock
	err   error
}

func newFakeProducts(stock *fakeStock, products ...domain.Product) *fakeProducts {
	f := &fakeProducts{byID: map[string]*domain.Product{}, stock: stock}
	for i := range products {
		p := products[i]
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *domain.Product) error {
	for _, existing := range f.byID {
		if existing.SKU == p.SKU {
			return fmt.Errorf("duplicate sku")
		}
	}
	p.ID = uuid.NewString()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *domain.Product) error {
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeProducts) List(_ context.Context, _ repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) ListLowStock(ctx context.Context, _ repository.Page) ([]domain.ProductStock, error) {
	var out []domain.ProductStock
	for _, p := range f.byID {
		onHand, _ := f.stock.OnHand(ctx, p.ID)
		if p.IsActive && onHand <= p.ReorderLevel {
			out = append(out, domain.ProductStock{Product: *p, OnHand: onHand})
		}
	}
	return out, nil
}

func (f *fakeProducts) CountLowStock(ctx context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	list, _ := f.ListLowStock(ctx, repository.Page{})
	return len(list), nil
}

func (f *fakeProducts) Count(_ context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.byID), nil
}

type fakeStock struct {
	mu        sync.Mutex
	levels    map[string]int
	movements []domain.StockMovement
	applyErr  error
}

func newFakeStock() *fakeStock { return &fakeStock{levels: map[string]int{}} }

func stockKey(warehouseID, productID string) string { return warehouseID + "|" + productID }

func (f *fakeStock) set(warehouseID, productID string, qty int) {
	f.levels[stockKey(warehouseID, productID)] = qty
}

func (f *fakeStock) ApplyMovements(_ context.Context, movements []*domain.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	next := make(map[string]int, len(f.levels))
	for k, v := range f.levels {
		next[k] = v
	}
	for _, m := range movements {
		for _, d := range m.Deltas() {
			key := stockKey(d.WarehouseID, m.ProductID)
			if next[key]+d.Delta < 0 {
				return fmt.Errorf("%w: product %s", repository.ErrInsufficientStock, m.ProductID)
			}
			next[key] += d.Delta
		}
	}
	f.levels = next
	for _, m := range movements {
		m.ID = uuid.NewString()
		f.movements = append(f.movements, *m)
	}
	return nil
}

func (f *fakeStock) ListMovements(_ context.Context, _ repository.MovementFilter) ([]domain.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.StockMovement(nil), f.movements...), nil
}

func (f *fakeStock) OnHand(_ context.Context, productID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for k, v := range f.levels {
		if strings.HasSuffix(k, "|"+productID) {
			total += v
		}
	}
	return total, nil
}

func (f *fakeStock) Quantity(_ context.Context, warehouseID, productID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[stockKey(warehouseID, productID)], nil
}

type fakeWarehouses struct {
	byID  map[string]*domain.Warehouse
	stock *fakeStock
}

func newFakeWarehouses(stock *fakeStock, whs ...domain.Warehouse) *fakeWarehouses {
	f := &fakeWarehouses{byID: map[string]*domain.Warehouse{}, stock: stock}
	for i := range whs {
		w := whs[i]
		f.byID[w.ID] = &w
	}
	return f
}

func (f *fakeWarehouses) Create(_ context.Context, w *domain.Warehouse) error {
	w.ID = uuid.NewString()
	cp := *w
	f.byID[w.ID] = &cp
	return nil
}

func (f *fakeWarehouses) Update(_ context.Context, w *domain.Warehouse) error {
	cp := *w
	f.byID[w.ID] = &cp
	return nil
}

func (f *fakeWarehouses) GetByID(_ context.Context, id string) (*domain.Warehouse, error) {
	if w, ok := f.byID[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeWarehouses) List(_ context.Context, _ bool) ([]domain.Warehouse, error) {
	var out []domain.Warehouse
	for _, w := range f.byID {
		out = append(out, *w)
	}
	return out, nil
}

func (f *fakeWarehouses) Stock(_ context.Context, warehouseID string) ([]domain.StockLevel, error) {
	var out []domain.StockLevel
	for k, v := range f.stock.levels {
		parts := strings.SplitN(k, "|", 2)
		if parts[0] == warehouseID && v > 0 {
			out = append(out, domain.StockLevel{WarehouseID: parts[0], ProductID: parts[1], Quantity: v})
		}
	}
	return out, nil
}

type fakeSales struct {
	byID       map[string]*domain.Sale
	summaryErr error
}

func newFakeSales() *fakeSales { return &fakeSales{byID: map[string]*domain.Sale{}} }

func (f *fakeSales) Create(_ context.Context, s *domain.Sale) error {
	s.ID = uuid.NewString()
	for i := range s.Items {
		s.Items[i].ID = uuid.NewString()
		s.Items[i].SaleID = s.ID
	}
	cp := *s
	cp.Items = append([]domain.SaleItem(nil), s.Items...)
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSales) GetByID(_ context.Context, id string) (*domain.Sale, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	cp.Items = append([]domain.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (f *fakeSales) List(_ context.Context, filter repository.SaleFilter) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, s := range f.byID {
		if filter.From != nil && s.SoldAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !s.SoldAt.Before(*filter.To) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SoldAt.After(out[j].SoldAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	return out, nil
}

func (f *fakeSales) TransitionStatus(_ context.Context, id string, from, to domain.SaleStatus) error {
	s, ok := f.byID[id]
	if !ok || s.Status != from {
		return pgx.ErrNoRows
	}
	s.Status = to
	return nil
}

func (f *fakeSales) Confirm(_ context.Context, id, warehouseID string) error {
	s, ok := f.byID[id]
	if !ok || s.Status != domain.SaleStatusDraft {
		return pgx.ErrNoRows
	}
	wh := warehouseID
	s.Status = domain.SaleStatusConfirmed
	s.WarehouseID = &wh
	return nil
}

func (f *fakeSales) RevertConfirm(_ context.Context, id string, warehouseID *string) error {
	s, ok := f.byID[id]
	if !ok || s.Status != domain.SaleStatusConfirmed {
		return pgx.ErrNoRows
	}
	s.Status = domain.SaleStatusDraft
	s.WarehouseID = warehouseID
	return nil
}

func (f *fakeSales) Summary(_ context.Context, since time.Time) (int, decimal.Decimal, error) {
	if f.summaryErr != nil {
		return 0, decimal.Zero, f.summaryErr
	}
	n, total := 0, decimal.Zero
	for _, s := range f.byID {
		if s.Status == domain.SaleStatusConfirmed && !s.SoldAt.Before(since) {
			n++
			total = total.Add(s.Total)
		}
	}
	return n, total, nil
}

type fakeOrders struct {
	byID map[string]*domain.PurchaseOrder
}

func newFakeOrders() *fakeOrders { return &fakeOrders{byID: map[string]*domain.PurchaseOrder{}} }

func (f *fakeOrders) Create(_ context.Context, po *domain.PurchaseOrder) error {
	po.ID = uuid.NewString()
	cp := *po
	cp.Items = append([]domain.PurchaseOrderItem(nil), po.Items...)
	f.byID[po.ID] = &cp
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*domain.PurchaseOrder, error) {
	po, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *po
	cp.Items = append([]domain.PurchaseOrderItem(nil), po.Items...)
	return &cp, nil
}

func (f *fakeOrders) List(_ context.Context, _ repository.PurchaseOrderFilter) ([]domain.PurchaseOrder, error) {
	var out []domain.PurchaseOrder
	for _, po := range f.byID {
		out = append(out, *po)
	}
	return out, nil
}

func (f *fakeOrders) TransitionStatus(_ context.Context, id string, from, to domain.PurchaseOrderStatus) error {
	po, ok := f.byID[id]
	if !ok || po.Status != from {
		return pgx.ErrNoRows
	}
	po.Status = to
	return nil
}

func (f *fakeOrders) CountOpen(_ context.Context) (int, error) {
	n := 0
	for _, po := range f.byID {
		switch po.Status {
		case domain.POStatusDraft, domain.POStatusSubmitted, domain.POStatusApproved:
			n++
		}
	}
	return n, nil
}

type fakeSurveys struct {
	byID      map[string]*domain.Survey
	responses []domain.SurveyResponse
}

func newFakeSurveys() *fakeSurveys { return &fakeSurveys{byID: map[string]*domain.Survey{}} }

func (f *fakeSurveys) Create(_ context.Context, s *domain.Survey) error {
	s.ID = uuid.NewString()
	for i := range s.Questions {
		s.Questions[i].ID = uuid.NewString()
		s.Questions[i].SurveyID = s.ID
	}
	cp := *s
	cp.Questions = append([]domain.SurveyQuestion(nil), s.Questions...)
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSurveys) GetByID(_ context.Context, id string) (*domain.Survey, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *s
	cp.Questions = append([]domain.SurveyQuestion(nil), s.Questions...)
	return &cp, nil
}

func (f *fakeSurveys) List(_ context.Context, _ *domain.SurveyStatus, _ repository.Page) ([]domain.Survey, error) {
	var out []domain.Survey
	for _, s := range f.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSurveys) TransitionStatus(_ context.Context, id string, from, to domain.SurveyStatus) error {
	s, ok := f.byID[id]
	if !ok || s.Status != from {
		return pgx.ErrNoRows
	}
	s.Status = to
	return nil
}

func (f *fakeSurveys) CountOpen(_ context.Context) (int, error) {
	n := 0
	for _, s := range f.byID {
		if s.Status == domain.SurveyStatusOpen {
			n++
		}
	}
	return n, nil
}

func (f *fakeSurveys) AddResponse(_ context.Context, r *domain.SurveyResponse) error {
	for _, existing := range f.responses {
		if r.RespondentID != nil && existing.RespondentID != nil &&
			existing.SurveyID == r.SurveyID && *existing.RespondentID == *r.RespondentID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "survey_responses_survey_id_respondent_id_key"}
		}
	}
	r.ID = uuid.NewString()
	f.responses = append(f.responses, *r)
	return nil
}

func (f *fakeSurveys) HasResponded(_ context.Context, surveyID, respondentID string) (bool, error) {
	for _, r := range f.responses {
		if r.SurveyID == surveyID && r.RespondentID != nil && *r.RespondentID == respondentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSurveys) ListResponses(_ context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	var out []domain.SurveyResponse
	for _, r := range f.responses {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) SubscribeAll(events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

func (d *recordingDispatcher) last() events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) == 0 {
		return events.Event{}
	}
	return d.events[len(d.events)-1]
}

func strPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func repositoryLeaveFilter() repository.LeaveFilter { return repository.LeaveFilter{} }
