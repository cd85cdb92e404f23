// Package memrepo: implementasi in-memory untuk Store, TagDirectory, dan Roster.
// Constraint-nya sama dengan index di Postgres (unique key, satu sesi terbuka per
// karyawan per hari), dipakai untuk test service/controller.
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"kantorku_backend/internals/features/attendance/records/model"
	empModel "kantorku_backend/internals/features/employees/employees/model"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
)

type Repo struct {
	mu        sync.Mutex
	records   []*model.AttendanceRecordModel
	tags      map[string]*tagModel.EmployeeTagModel
	employees map[int64]*empModel.EmployeeModel

	// FailNext: error yang dikembalikan operasi tulis berikutnya (simulasi DB down).
	FailNext error
	// Writes: jumlah mutasi yang berhasil.
	Writes int
}

func New() *Repo {
	return &Repo{
		tags:      map[string]*tagModel.EmployeeTagModel{},
		employees: map[int64]*empModel.EmployeeModel{},
	}
}

/* ====================== seeding ====================== */

func (r *Repo) AddEmployee(id int64, name string, active bool) *empModel.EmployeeModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &empModel.EmployeeModel{EmployeeID: id, EmployeeName: name, EmployeeIsActive: active}
	r.employees[id] = e
	return e
}

// AddTag: employeeID 0 = tag belum dipasangkan.
func (r *Repo) AddTag(uid string, employeeID int64, status string) *tagModel.EmployeeTagModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &tagModel.EmployeeTagModel{
		EmployeeTagID:     uuid.New(),
		EmployeeTagUID:    tagModel.NormalizeUID(uid),
		EmployeeTagStatus: status,
	}
	if employeeID != 0 {
		id := employeeID
		t.EmployeeTagEmployeeID = &id
	}
	r.tags[t.EmployeeTagUID] = t
	return t
}

func (r *Repo) Records() []model.AttendanceRecordModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AttendanceRecordModel, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

func (r *Repo) Tag(uid string) *tagModel.EmployeeTagModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[tagModel.NormalizeUID(uid)]; ok {
		cp := *t
		return &cp
	}
	return nil
}

func (r *Repo) takeFailure() error {
	err := r.FailNext
	r.FailNext = nil
	return err
}

/* ====================== Store ====================== */

func (r *Repo) Insert(ctx context.Context, rec *model.AttendanceRecordModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	for _, ex := range r.records {
		if ex.AttendanceIdempotencyKey == rec.AttendanceIdempotencyKey {
			return model.ErrDuplicateKey
		}
	}
	if rec.AttendanceTimeOut == nil && rec.AttendanceStatus == model.StatusPresent {
		for _, ex := range r.records {
			if ex.IsOpen() && ex.AttendanceEmployeeID == rec.AttendanceEmployeeID && ex.AttendanceDate == rec.AttendanceDate {
				return model.ErrOpenSessionExists
			}
		}
	}
	if rec.AttendanceID == uuid.Nil {
		rec.AttendanceID = uuid.New()
	}
	now := time.Now()
	rec.AttendanceCreatedAt, rec.AttendanceUpdatedAt = now, now
	cp := *rec
	r.records = append(r.records, &cp)
	r.Writes++
	return nil
}

func (r *Repo) CloseSession(ctx context.Context, id uuid.UUID, upd model.SessionClose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	var target *model.AttendanceRecordModel
	for _, ex := range r.records {
		if ex.AttendanceID == id {
			target = ex
			break
		}
	}
	if target == nil || target.AttendanceTimeOut != nil {
		return model.ErrSessionClosed
	}
	if upd.CheckoutKey != nil {
		for _, ex := range r.records {
			if ex.AttendanceIdempotencyKey == *upd.CheckoutKey ||
				(ex.AttendanceCheckoutKey != nil && *ex.AttendanceCheckoutKey == *upd.CheckoutKey) {
				return model.ErrDuplicateKey
			}
		}
		k := *upd.CheckoutKey
		target.AttendanceCheckoutKey = &k
	}
	to := upd.TimeOut
	closedAt := upd.ClosedAt
	target.AttendanceTimeOut = &to
	target.AttendanceDuration = upd.Duration
	target.AttendanceStatus = model.StatusPresent
	target.AttendanceClosedAt = &closedAt
	if upd.Metadata != nil {
		target.AttendanceMetadata = upd.Metadata
	}
	target.AttendanceUpdatedAt = time.Now()
	r.Writes++
	return nil
}

func (r *Repo) FindByIdempotencyKey(ctx context.Context, key string) (*model.AttendanceRecordModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.records {
		if ex.AttendanceIdempotencyKey == key || (ex.AttendanceCheckoutKey != nil && *ex.AttendanceCheckoutKey == key) {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Repo) FindOpenSession(ctx context.Context, employeeID int64, date string) (*model.AttendanceRecordModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.records {
		if ex.IsOpen() && ex.AttendanceEmployeeID == employeeID && ex.AttendanceDate == date {
			cp := *ex
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Repo) ListByDate(ctx context.Context, date string) ([]model.AttendanceRecordModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AttendanceRecordModel
	for _, ex := range r.records {
		if ex.AttendanceDate == date {
			out = append(out, *ex)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttendanceTimeIn < out[j].AttendanceTimeIn })
	return out, nil
}

func (r *Repo) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]model.AttendanceRecordModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.AttendanceRecordModel
	for _, ex := range r.records {
		if ex.AttendanceEmployeeID == employeeID {
			all = append(all, *ex)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].AttendanceDate > all[j].AttendanceDate })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.AttendanceRecordModel{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *Repo) MarkLeave(ctx context.Context, beforeDate string, closedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return 0, err
	}
	var n int64
	for _, ex := range r.records {
		if ex.IsOpen() && ex.AttendanceDate < beforeDate {
			ex.AttendanceStatus = model.StatusLeave
			at := closedAt
			ex.AttendanceClosedAt = &at
			n++
		}
	}
	r.Writes += int(n)
	return n, nil
}

/* ====================== TagDirectory ====================== */

func (r *Repo) Resolve(ctx context.Context, tagUID string) (*tagModel.EmployeeTagModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[tagModel.NormalizeUID(tagUID)]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *Repo) TouchLastUsed(ctx context.Context, tagUID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tags[tagModel.NormalizeUID(tagUID)]; ok {
		ts := at
		t.EmployeeTagLastUsedAt = &ts
	}
	return nil
}

/* ====================== Roster ====================== */

func (r *Repo) ListActive(ctx context.Context) ([]empModel.EmployeeModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []empModel.EmployeeModel
	for _, e := range r.employees {
		if e.EmployeeIsActive {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *Repo) FindByID(ctx context.Context, id int64) (*empModel.EmployeeModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

/* ====================== tag admin ====================== */

func (r *Repo) List(ctx context.Context, status string, limit, offset int) ([]tagModel.EmployeeTagModel, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []tagModel.EmployeeTagModel
	for _, t := range r.tags {
		if status == "" || t.EmployeeTagStatus == status {
			all = append(all, *t)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EmployeeTagUID < all[j].EmployeeTagUID })
	total := int64(len(all))
	if offset >= len(all) {
		return []tagModel.EmployeeTagModel{}, total, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

func (r *Repo) Create(ctx context.Context, m *tagModel.EmployeeTagModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return err
	}
	m.EmployeeTagUID = tagModel.NormalizeUID(m.EmployeeTagUID)
	if _, ok := r.tags[m.EmployeeTagUID]; ok {
		return tagModel.ErrTagExists
	}
	if m.EmployeeTagID == uuid.Nil {
		m.EmployeeTagID = uuid.New()
	}
	if m.EmployeeTagStatus == "" {
		m.EmployeeTagStatus = tagModel.TagStatusActive
	}
	now := time.Now()
	m.EmployeeTagCreatedAt, m.EmployeeTagUpdatedAt = now, now
	cp := *m
	r.tags[cp.EmployeeTagUID] = &cp
	return nil
}

func (r *Repo) Patch(ctx context.Context, tagUID string, p tagModel.TagPatch) (*tagModel.EmployeeTagModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.takeFailure(); err != nil {
		return nil, err
	}
	t, ok := r.tags[tagModel.NormalizeUID(tagUID)]
	if !ok {
		return nil, nil
	}
	if p.SetEmployee {
		if p.EmployeeID == nil {
			t.EmployeeTagEmployeeID = nil
		} else {
			id := *p.EmployeeID
			t.EmployeeTagEmployeeID = &id
		}
	}
	if p.Status != nil {
		t.EmployeeTagStatus = *p.Status
	}
	if p.Label != nil {
		l := *p.Label
		t.EmployeeTagLabel = &l
	}
	t.EmployeeTagUpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}
