package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

// ─── Almacén en memoria ───────────────────────────────────────────────────────

// memStore simula las tres tablas. Una tx toma el mutex completo y restaura
// la copia previa si la función devuelve error.
type memStore struct {
	mu        sync.Mutex
	items     map[string]*entity.StockItem
	usages    map[string]*entity.UsageRecord
	transfers []*entity.TransferRecord

	failTransferCreate error
}

func newMemStore() *memStore {
	return &memStore{
		items:  map[string]*entity.StockItem{},
		usages: map[string]*entity.UsageRecord{},
	}
}

func ptr(s string) *string { return &s }

func (s *memStore) seed(code, name string, qty int, owner *string) *entity.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := &entity.StockItem{ID: uuid.New().String(), Code: code, Name: name, Quantity: qty, Owner: owner}
	s.items[it.ID] = it
	cp := *it
	return &cp
}

func (s *memStore) seedUsage(rec entity.UsageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages[rec.ID] = &rec
}

func (s *memStore) item(code string, owner *string) *entity.StockItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.find(code, owner)
	if it == nil {
		return nil
	}
	cp := *it
	return &cp
}

func (s *memStore) itemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *memStore) usageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.usages)
}

func (s *memStore) transferList() []entity.TransferRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.TransferRecord, 0, len(s.transfers))
	for _, t := range s.transfers {
		out = append(out, *t)
	}
	return out
}

func (s *memStore) find(code string, owner *string) *entity.StockItem {
	for _, it := range s.items {
		if it.Code != code {
			continue
		}
		if owner == nil && it.Owner == nil {
			return it
		}
		if owner != nil && it.Owner != nil && *it.Owner == *owner {
			return it
		}
	}
	return nil
}

// do ejecuta fn con el mutex tomado salvo que ya lo tenga la tx en curso.
func (s *memStore) do(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

// memTx implementa inventory.TxRunner sobre memStore.
type memTx struct{ s *memStore }

func (t memTx) Run(_ context.Context, fn func(repository.StockRepository, repository.UsageRepository, repository.TransferRepository) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	items := make(map[string]entity.StockItem, len(t.s.items))
	for k, v := range t.s.items {
		items[k] = *v
	}
	usages := make(map[string]entity.UsageRecord, len(t.s.usages))
	for k, v := range t.s.usages {
		usages[k] = *v
	}
	n := len(t.s.transfers)

	err := fn(memStock{t.s, true}, memUsage{t.s, true}, memTransfers{t.s, true})
	if err != nil {
		t.s.items = map[string]*entity.StockItem{}
		for k, v := range items {
			v := v
			t.s.items[k] = &v
		}
		t.s.usages = map[string]*entity.UsageRecord{}
		for k, v := range usages {
			v := v
			t.s.usages[k] = &v
		}
		t.s.transfers = t.s.transfers[:n]
	}
	return err
}

// ─── StockRepository ──────────────────────────────────────────────────────────

type memStock struct {
	s    *memStore
	inTx bool
}

func (r memStock) GetByID(_ context.Context, id string) (out *entity.StockItem, _ error) {
	r.s.do(r.inTx, func() {
		if it, ok := r.s.items[id]; ok {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

func (r memStock) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r memStock) FindByCodeOwner(_ context.Context, code string, owner *string) (out *entity.StockItem, _ error) {
	r.s.do(r.inTx, func() {
		if it := r.s.find(code, owner); it != nil {
			cp := *it
			out = &cp
		}
	})
	return out, nil
}

func (r memStock) FindByCodeOwnerForUpdate(ctx context.Context, code string, owner *string) (*entity.StockItem, error) {
	return r.FindByCodeOwner(ctx, code, owner)
}

func (r memStock) Create(_ context.Context, item *entity.StockItem) (err error) {
	r.s.do(r.inTx, func() {
		if r.s.find(item.Code, item.Owner) != nil {
			err = domain.ErrDuplicate
			return
		}
		cp := *item
		r.s.items[item.ID] = &cp
	})
	return err
}

func (r memStock) AddPersonal(_ context.Context, code, name, owner string, qty int) (item *entity.StockItem, previous int, created bool, err error) {
	r.s.do(r.inTx, func() {
		o := owner
		if it := r.s.find(code, &o); it != nil {
			previous = it.Quantity
			it.Quantity += qty
			cp := *it
			item = &cp
			return
		}
		it := &entity.StockItem{ID: uuid.New().String(), Code: code, Name: name, Quantity: qty, Owner: &o}
		r.s.items[it.ID] = it
		cp := *it
		item, created = &cp, true
	})
	return item, previous, created, nil
}

func (r memStock) Update(_ context.Context, item *entity.StockItem) (err error) {
	r.s.do(r.inTx, func() {
		if _, ok := r.s.items[item.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		cp := *item
		r.s.items[item.ID] = &cp
	})
	return err
}

func (r memStock) SetQuantity(_ context.Context, id string, qty int) (err error) {
	r.s.do(r.inTx, func() {
		it, ok := r.s.items[id]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		it.Quantity = qty
	})
	return err
}

func (r memStock) Delete(_ context.Context, id string) error {
	r.s.do(r.inTx, func() { delete(r.s.items, id) })
	return nil
}

func (r memStock) list(pred func(*entity.StockItem) bool) (out []*entity.StockItem) {
	out = []*entity.StockItem{}
	r.s.do(r.inTx, func() {
		for _, it := range r.s.items {
			if pred(it) {
				cp := *it
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r memStock) ListAll(context.Context) ([]*entity.StockItem, error) {
	return r.list(func(*entity.StockItem) bool { return true }), nil
}

func (r memStock) ListGeneral(context.Context) ([]*entity.StockItem, error) {
	return r.list(func(it *entity.StockItem) bool { return it.IsGeneral() }), nil
}

func (r memStock) ListByOwner(_ context.Context, owner string) ([]*entity.StockItem, error) {
	return r.list(func(it *entity.StockItem) bool { return !it.IsGeneral() && it.OwnerName() == owner }), nil
}

func (r memStock) Search(_ context.Context, fragment string, owner *string) ([]*entity.StockItem, error) {
	f := strings.ToLower(fragment)
	return r.list(func(it *entity.StockItem) bool {
		if owner != nil && it.OwnerName() != *owner {
			return false
		}
		return strings.Contains(strings.ToLower(it.Code), f)
	}), nil
}

// ─── UsageRepository ──────────────────────────────────────────────────────────

type memUsage struct {
	s    *memStore
	inTx bool
}

func (r memUsage) Create(_ context.Context, rec *entity.UsageRecord) error {
	r.s.do(r.inTx, func() {
		cp := *rec
		r.s.usages[rec.ID] = &cp
	})
	return nil
}

func (r memUsage) GetByID(_ context.Context, id string) (out *entity.UsageRecord, _ error) {
	r.s.do(r.inTx, func() {
		if u, ok := r.s.usages[id]; ok {
			cp := *u
			out = &cp
		}
	})
	return out, nil
}

func (r memUsage) Delete(_ context.Context, id string) error {
	r.s.do(r.inTx, func() { delete(r.s.usages, id) })
	return nil
}

func (r memUsage) list(pred func(*entity.UsageRecord) bool) (out []*entity.UsageRecord) {
	out = []*entity.UsageRecord{}
	r.s.do(r.inTx, func() {
		for _, u := range r.s.usages {
			if pred(u) {
				cp := *u
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (r memUsage) ListAll(context.Context) ([]*entity.UsageRecord, error) {
	return r.list(func(*entity.UsageRecord) bool { return true }), nil
}

func (r memUsage) ListByOwner(_ context.Context, owner string) ([]*entity.UsageRecord, error) {
	return r.list(func(u *entity.UsageRecord) bool { return u.Owner == owner }), nil
}

func (r memUsage) StatsByOwner(_ context.Context, owner string) ([]*entity.UsageStat, error) {
	byCode := map[string]*entity.UsageStat{}
	for _, u := range r.list(func(u *entity.UsageRecord) bool { return u.Owner == owner }) {
		st, ok := byCode[u.Code]
		if !ok {
			st = &entity.UsageStat{Code: u.Code, Name: u.Name}
			byCode[u.Code] = st
		}
		st.TotalUsed += u.Quantity
		st.Uses++
		if u.Date.After(st.LastUse) {
			st.LastUse = u.Date
		}
	}
	out := make([]*entity.UsageStat, 0, len(byCode))
	for _, st := range byCode {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalUsed > out[j].TotalUsed })
	return out, nil
}

func (r memUsage) ListBetween(_ context.Context, from, to time.Time) ([]*entity.UsageRecord, error) {
	return r.list(func(u *entity.UsageRecord) bool { return !u.Date.Before(from) && !u.Date.After(to) }), nil
}

func (r memUsage) MarkSentAutomatic(context.Context, []string) error {
	return errors.New("no usado en estas pruebas")
}

func (r memUsage) ClaimUnsent(context.Context, string, string, string, time.Time, time.Time) ([]*entity.UsageRecord, error) {
	return nil, errors.New("no usado en estas pruebas")
}

func (r memUsage) MarkBatchSent(context.Context, string, time.Time) (int64, error) {
	return 0, errors.New("no usado en estas pruebas")
}

func (r memUsage) ReleaseBatch(context.Context, string) error {
	return errors.New("no usado en estas pruebas")
}

// ─── TransferRepository ───────────────────────────────────────────────────────

type memTransfers struct {
	s    *memStore
	inTx bool
}

func (r memTransfers) Create(_ context.Context, rec *entity.TransferRecord) (err error) {
	r.s.do(r.inTx, func() {
		if r.s.failTransferCreate != nil {
			err = r.s.failTransferCreate
			return
		}
		cp := *rec
		r.s.transfers = append(r.s.transfers, &cp)
	})
	return err
}

func (r memTransfers) ListByOwner(_ context.Context, owner string, limit int) (out []*entity.TransferRecord, _ error) {
	out = []*entity.TransferRecord{}
	r.s.do(r.inTx, func() {
		for i := len(r.s.transfers) - 1; i >= 0 && len(out) < limit; i-- {
			t := r.s.transfers[i]
			if t.SourceOwner == owner || t.DestOwner == owner {
				cp := *t
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

// ─── Notificador y usuarios ───────────────────────────────────────────────────

type recordingNotifier struct {
	mu   sync.Mutex
	reqs []notification.Request
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, req notification.Request) (*notification.Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reqs = append(n.reqs, req)
	if n.err != nil {
		return nil, n.err
	}
	return &notification.Result{Success: true, Strategy: notification.StrategyDirect}, nil
}

func (n *recordingNotifier) sent() []notification.Request {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Request(nil), n.reqs...)
}

type usersByName map[string]*entity.User

func (u usersByName) FindByName(_ context.Context, name string) (*entity.User, error) {
	return u[name], nil
}
