package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kantorku_backend/internals/features/attendance/records/model"
	"kantorku_backend/internals/features/attendance/records/repository/memrepo"
	"kantorku_backend/internals/features/attendance/records/service"
	"kantorku_backend/internals/features/attendance/records/source"
	tagModel "kantorku_backend/internals/features/employees/tags/model"
	"kantorku_backend/internals/helpers/dbtime"
)

var jakarta = dbtime.LoadLocation("Asia/Jakarta")

type staticSource struct {
	payload string
	err     error
}

func (s staticSource) Snapshot(ctx context.Context) (*source.Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return source.ParseSnapshot([]byte(s.payload))
}

func clockAt(s string) *dbtime.FixedClock {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, jakarta)
	if err != nil {
		panic(err)
	}
	return &dbtime.FixedClock{T: t}
}

func newFixture() (*memrepo.Repo, *dbtime.FixedClock) {
	repo := memrepo.New()
	repo.AddEmployee(7, "Budi", true)
	repo.AddTag("TAG1", 7, tagModel.TagStatusActive)
	return repo, clockAt("2024-05-01 18:00:00")
}

func newEngine(repo *memrepo.Repo, clock dbtime.Clock, payload string) *service.Engine {
	n := service.NewNormalizer(repo, repo, clock)
	return service.NewEngine(staticSource{payload: payload}, n, clock, 10)
}

/* ====================== duration & lateness ====================== */

func TestCalculateDuration(t *testing.T) {
	d := service.CalculateDuration("2024-05-01", "09:00:00", "17:30:00", jakarta)
	require.NotNil(t, d)
	assert.Equal(t, 510, *d)

	d = service.CalculateDuration("2024-05-01", "09:05", "17:00", jakarta)
	require.NotNil(t, d)
	assert.Equal(t, 475, *d)

	d = service.CalculateDuration("2024-05-01", "17:00", "09:00", jakarta)
	require.NotNil(t, d)
	assert.Equal(t, 0, *d)

	// 89 detik → dibulatkan ke 1 menit
	d = service.CalculateDuration("2024-05-01", "09:00:00", "09:01:29", jakarta)
	require.NotNil(t, d)
	assert.Equal(t, 1, *d)

	assert.Nil(t, service.CalculateDuration("2024-05-01", "", "17:00", jakarta))
	assert.Nil(t, service.CalculateDuration("2024-05-01", "09:00", "besok", jakarta))
	assert.Nil(t, service.CalculateDuration("01/05/2024", "09:00", "17:00", jakarta))

	// offset campuran: 09:00 WIB → 17:00 WIB
	wib := time.FixedZone("WIB", 7*3600)
	d = service.CalculateDuration("2024-05-01", "2024-05-01T02:00:00Z", "2024-05-01T17:00:00+07:00", wib)
	require.NotNil(t, d)
	assert.Equal(t, 480, *d)

	d = service.CalculateDuration("2024-05-01", "09:00", "2024-05-01T10:00:00Z", wib)
	require.NotNil(t, d)
	assert.Equal(t, 480, *d)
}

func TestElapsedMinutesFloors(t *testing.T) {
	from := time.Date(2024, 5, 1, 9, 0, 0, 0, jakarta)
	assert.Equal(t, 1, service.ElapsedMinutes(from, from.Add(119*time.Second)))
	assert.Equal(t, 0, service.ElapsedMinutes(from, from.Add(-time.Hour)))
}

func TestIsLateBoundary(t *testing.T) {
	cutoff := service.ParseCutoff("")
	assert.False(t, service.IsLate("09:30:00", cutoff, jakarta))
	assert.False(t, service.IsLate("09:29:59", cutoff, jakarta))
	assert.False(t, service.IsLate("09:30", cutoff, jakarta))
	assert.True(t, service.IsLate("09:30:01", cutoff, jakarta))
	assert.True(t, service.IsLate("09:31:00", cutoff, jakarta))
	assert.True(t, service.IsLate("10:00", cutoff, jakarta))
	assert.False(t, service.IsLate("garbage", cutoff, jakarta))

	// timestamp UTC dibaca di jam kantor: 03:00Z = 10:00 WIB
	wib := time.FixedZone("WIB", 7*3600)
	assert.True(t, service.IsLate("2024-05-01T03:00:00Z", cutoff, wib))
	assert.False(t, service.IsLate("2024-05-01T02:30:00Z", cutoff, wib))
	assert.False(t, service.IsLate("2024-05-01T09:30:00+07:00", cutoff, wib))

	assert.Equal(t, "09:30:00", service.ParseCutoff("jam-sembilan").String())

	custom := service.ParseCutoff("08:00")
	assert.True(t, service.IsLate("08:15", custom, jakarta))
}

/* ====================== normalizer ====================== */

func TestNormalizerUnknownTag(t *testing.T) {
	repo, clock := newFixture()
	n := service.NewNormalizer(repo, repo, clock)

	out := n.Apply(context.Background(), "GHOST", "2024-05-01", source.RawEvent{CheckIn: "09:00"})
	assert.Equal(t, service.OutcomeError, out.Kind)
	assert.Contains(t, out.Reason, "Unknown tag: GHOST")
	assert.Equal(t, 0, repo.Writes)
	assert.Empty(t, repo.Records())
}

func TestNormalizerRejectsUnassignedAndInactive(t *testing.T) {
	repo, clock := newFixture()
	repo.AddTag("FREE", 0, tagModel.TagStatusActive)
	repo.AddTag("OLD", 7, tagModel.TagStatusInactive)
	n := service.NewNormalizer(repo, repo, clock)
	ctx := context.Background()

	out := n.Apply(ctx, "FREE", "2024-05-01", source.RawEvent{CheckIn: "09:00"})
	assert.Equal(t, service.OutcomeError, out.Kind)
	assert.Contains(t, out.Reason, "Tag FREE not assigned")

	out = n.Apply(ctx, "OLD", "2024-05-01", source.RawEvent{CheckIn: "09:00"})
	assert.Equal(t, service.OutcomeError, out.Kind)
	assert.Contains(t, out.Reason, "Tag OLD inactive")

	assert.Equal(t, 0, repo.Writes)
}

/* ====================== reconcile ====================== */

const fullDay = `{"TAG1":{"2024-05-01":{"check_in":"09:05","check_out":"17:00"}}}`

func TestReconcileEndToEnd(t *testing.T) {
	repo, clock := newFixture()
	ctx := context.Background()

	sum, err := newEngine(repo, clock, fullDay).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Created)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, 0, sum.Skipped)
	assert.Empty(t, sum.Errors)
	assert.NotEmpty(t, sum.Timestamp)

	recs := repo.Records()
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, int64(7), r.AttendanceEmployeeID)
	assert.Equal(t, "2024-05-01", r.AttendanceDate)
	assert.Equal(t, "09:05", r.AttendanceTimeIn)
	require.NotNil(t, r.AttendanceTimeOut)
	assert.Equal(t, "17:00", *r.AttendanceTimeOut)
	require.NotNil(t, r.AttendanceDuration)
	assert.Equal(t, 475, *r.AttendanceDuration)
	assert.Equal(t, model.StatusPresent, r.AttendanceStatus)
	assert.Equal(t, model.MethodNFC, r.AttendanceCheckInMethod)
	assert.Equal(t, "TAG1_2024-05-01_09:05", r.AttendanceIdempotencyKey)

	again, err := newEngine(repo, clock, fullDay).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 0, again.Updated)
	assert.Equal(t, 1, again.Skipped)
	assert.Len(t, repo.Records(), 1)
}

func TestReconcilePartialUpdate(t *testing.T) {
	repo, clock := newFixture()
	ctx := context.Background()

	first, err := newEngine(repo, clock, `{"TAG1":{"2024-05-01":{"check_in":"09:05"}}}`).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)
	recs := repo.Records()
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].AttendanceTimeOut)
	assert.Nil(t, recs[0].AttendanceDuration)

	// masih belum ada check_out → skipped, tanpa mutasi
	writes := repo.Writes
	still, err := newEngine(repo, clock, `{"TAG1":{"2024-05-01":{"check_in":"09:05"}}}`).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, still.Skipped)
	assert.Equal(t, writes, repo.Writes)

	second, err := newEngine(repo, clock, fullDay).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, 0, second.Created)

	recs = repo.Records()
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].AttendanceTimeOut)
	assert.Equal(t, "17:00", *recs[0].AttendanceTimeOut)
	require.NotNil(t, recs[0].AttendanceDuration)
	assert.Equal(t, 475, *recs[0].AttendanceDuration)
	assert.Contains(t, string(recs[0].AttendanceMetadata), "17:00")
}

func TestReconcileEmptySource(t *testing.T) {
	repo, clock := newFixture()
	for _, payload := range []string{"", "null", "{}"} {
		sum, err := newEngine(repo, clock, payload).Run(context.Background())
		require.NoError(t, err)
		assert.Zero(t, sum.Created+sum.Updated+sum.Skipped+sum.ErrorCount)
		assert.NotNil(t, sum.Errors)
	}
}

func TestReconcileSourceFailureHasNoSummary(t *testing.T) {
	repo, clock := newFixture()
	n := service.NewNormalizer(repo, repo, clock)
	eng := service.NewEngine(staticSource{err: errors.New("connection refused")}, n, clock, 10)

	sum, err := eng.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReconcileContinuesAfterStoreFailure(t *testing.T) {
	repo, clock := newFixture()
	repo.AddEmployee(8, "Sari", true)
	repo.AddTag("TAG2", 8, tagModel.TagStatusActive)
	repo.FailNext = errors.New("db down")

	payload := `{
		"TAG1": {"2024-05-01": {"check_in": "09:05"}},
		"TAG2": {"2024-05-01": {"check_in": "08:55"}},
		"GHOST": {"2024-05-01": {"check_in": "10:00"}},
		"TAG9": {"2024-05-01": {"oops": true}}
	}`
	sum, err := newEngine(repo, clock, payload).Run(context.Background())
	require.NoError(t, err)

	// urutan: GHOST, TAG1 (gagal, db down), TAG2
	assert.Equal(t, 1, sum.Created)
	assert.Equal(t, 2, sum.ErrorCount)
	require.Len(t, sum.Errors, 2)
	assert.Contains(t, sum.Errors[0], "Unknown tag: GHOST")
	assert.Contains(t, sum.Errors[1], "TAG1_2024-05-01_09:05")
	assert.Contains(t, sum.Errors[1], "db down")
	assert.Equal(t, 1, sum.Malformed)

	// run berikutnya mengulang event yang gagal
	retry, err := newEngine(repo, clock, payload).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, retry.Created)
	assert.Equal(t, 1, retry.Skipped)
}

func TestReconcileErrorListIsBounded(t *testing.T) {
	repo, clock := newFixture()
	payload := `{"G1":{"2024-05-01":{"check_in":"09:00"}},"G2":{"2024-05-01":{"check_in":"09:00"}},"G3":{"2024-05-01":{"check_in":"09:00"}}}`
	n := service.NewNormalizer(repo, repo, clock)
	eng := service.NewEngine(staticSource{payload: payload}, n, clock, 2)

	sum, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.ErrorCount)
	assert.Len(t, sum.Errors, 2)
}

func TestConcurrentReconcileCreatesOneRecord(t *testing.T) {
	repo, clock := newFixture()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = newEngine(repo, clock, fullDay).Run(context.Background())
		}()
	}
	wg.Wait()
	assert.Len(t, repo.Records(), 1)
}

/* ====================== toggle ====================== */

func TestToggleRoundTrip(t *testing.T) {
	repo, _ := newFixture()
	clock := clockAt("2024-05-01 09:10:00")
	svc := service.NewToggleService(repo, repo, repo, clock)
	ctx := context.Background()

	in, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "TAG1", ReaderID: "gate-1"})
	require.NoError(t, err)
	assert.Equal(t, service.ActionCheckIn, in.Action)
	assert.Equal(t, "09:10:00", in.Record.AttendanceTimeIn)
	assert.Equal(t, "2024-05-01", in.Record.AttendanceDate)
	assert.Equal(t, model.MethodNFC, in.Record.AttendanceCheckInMethod)
	assert.Equal(t, "Budi", in.Employee.EmployeeName)

	clock.Advance(8*time.Hour + 59*time.Second)
	out, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "tag1"})
	require.NoError(t, err)
	assert.Equal(t, service.ActionCheckOut, out.Action)
	require.NotNil(t, out.Record.AttendanceTimeOut)
	assert.Equal(t, "17:10:59", *out.Record.AttendanceTimeOut)
	require.NotNil(t, out.Record.AttendanceDuration)
	assert.Equal(t, 480, *out.Record.AttendanceDuration)
	assert.NotNil(t, repo.Tag("TAG1").EmployeeTagLastUsedAt)

	// tap ketiga → sesi baru
	clock.Advance(time.Minute)
	again, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "TAG1"})
	require.NoError(t, err)
	assert.Equal(t, service.ActionCheckIn, again.Action)
	assert.Len(t, repo.Records(), 2)
}

func TestToggleImmediateCheckoutClampsToZero(t *testing.T) {
	repo, _ := newFixture()
	clock := clockAt("2024-05-01 09:10:00")
	svc := service.NewToggleService(repo, repo, repo, clock)

	_, err := svc.Toggle(context.Background(), service.ToggleInput{TagUID: "TAG1"})
	require.NoError(t, err)
	out, err := svc.Toggle(context.Background(), service.ToggleInput{TagUID: "TAG1"})
	require.NoError(t, err)
	assert.Equal(t, service.ActionCheckOut, out.Action)
	assert.Equal(t, 0, *out.Record.AttendanceDuration)
}

func TestToggleRejections(t *testing.T) {
	repo, clock := newFixture()
	repo.AddTag("FREE", 0, tagModel.TagStatusActive)
	repo.AddTag("OLD", 7, tagModel.TagStatusInactive)
	repo.AddEmployee(9, "Resign", false)
	svc := service.NewToggleService(repo, repo, repo, clock)
	ctx := context.Background()
	id := int64(404)
	inactive := int64(9)

	cases := []struct {
		name   string
		in     service.ToggleInput
		code   string
		status int
	}{
		{"none", service.ToggleInput{}, service.CodeInvalidInput, 400},
		{"both", service.ToggleInput{TagUID: "TAG1", EmployeeID: &id}, service.CodeInvalidInput, 400},
		{"unknown tag", service.ToggleInput{TagUID: "GHOST"}, service.CodeTagNotFound, 400},
		{"inactive tag", service.ToggleInput{TagUID: "OLD"}, service.CodeTagInactive, 400},
		{"unassigned tag", service.ToggleInput{TagUID: "FREE"}, service.CodeTagNotAssigned, 400},
		{"unknown employee", service.ToggleInput{EmployeeID: &id}, service.CodeEmployeeNotFound, 400},
		{"inactive employee", service.ToggleInput{EmployeeID: &inactive}, service.CodeEmployeeNotFound, 400},
		{"bad method", service.ToggleInput{EmployeeID: &inactive, Method: "telepathy"}, service.CodeInvalidInput, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Toggle(ctx, tc.in)
			var te *service.ToggleError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.code, te.Code)
			assert.Equal(t, tc.status, te.Status)
		})
	}
	assert.Empty(t, repo.Records())
}

func TestToggleByEmployeeUsesDeclaredMethod(t *testing.T) {
	repo, clock := newFixture()
	svc := service.NewToggleService(repo, repo, repo, clock)
	id := int64(7)

	res, err := svc.Toggle(context.Background(), service.ToggleInput{EmployeeID: &id, Method: "geolocation", Location: "-6.2,106.8"})
	require.NoError(t, err)
	assert.Equal(t, model.MethodGeolocation, res.Record.AttendanceCheckInMethod)
	assert.Nil(t, res.Record.AttendanceTagUID)
	assert.Contains(t, string(res.Record.AttendanceMetadata), "-6.2,106.8")

	res, err = svc.Toggle(context.Background(), service.ToggleInput{EmployeeID: &id})
	require.NoError(t, err)
	assert.Equal(t, service.ActionCheckOut, res.Action)
}

func TestToggleReplaysIdempotencyKey(t *testing.T) {
	repo, _ := newFixture()
	clock := clockAt("2024-05-01 09:00:00")
	svc := service.NewToggleService(repo, repo, repo, clock)
	ctx := context.Background()

	first, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "TAG1", IdempotencyKey: "tap-1"})
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	dup, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "TAG1", IdempotencyKey: "tap-1"})
	require.NoError(t, err)
	assert.True(t, dup.Replayed)
	assert.Equal(t, service.ActionCheckIn, dup.Action)
	assert.Equal(t, first.Record.AttendanceID, dup.Record.AttendanceID)
	assert.Len(t, repo.Records(), 1)
	assert.Nil(t, repo.Records()[0].AttendanceTimeOut)

	clock.Advance(time.Hour)
	out, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "TAG1", IdempotencyKey: "tap-2"})
	require.NoError(t, err)
	assert.Equal(t, service.ActionCheckOut, out.Action)

	clock.Advance(time.Minute)
	dupOut, err := svc.Toggle(ctx, service.ToggleInput{TagUID: "TAG1", IdempotencyKey: "tap-2"})
	require.NoError(t, err)
	assert.True(t, dupOut.Replayed)
	assert.Equal(t, service.ActionCheckOut, dupOut.Action)
	assert.Len(t, repo.Records(), 1)
}

func TestToggleStoreFailureIsInternal(t *testing.T) {
	repo, clock := newFixture()
	repo.FailNext = errors.New("db down")
	svc := service.NewToggleService(repo, repo, repo, clock)

	_, err := svc.Toggle(context.Background(), service.ToggleInput{TagUID: "TAG1"})
	var te *service.ToggleError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, service.CodeInternal, te.Code)
	assert.Equal(t, 500, te.Status)
	assert.Empty(t, repo.Records())
}

func TestConcurrentToggleNeverOpensTwoSessions(t *testing.T) {
	repo, _ := newFixture()
	clock := clockAt("2024-05-01 09:00:00")
	svc := service.NewToggleService(repo, repo, repo, clock)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Toggle(context.Background(), service.ToggleInput{TagUID: "TAG1"})
		}()
	}
	wg.Wait()

	open := 0
	for _, r := range repo.Records() {
		if r.IsOpen() {
			open++
		}
	}
	assert.LessOrEqual(t, open, 1)
}

/* ====================== summary & close-day ====================== */

func TestDailySummary(t *testing.T) {
	repo, _ := newFixture()
	repo.AddEmployee(8, "Sari", true)
	repo.AddEmployee(9, "Andi", true)
	repo.AddEmployee(10, "Resign", false)
	repo.AddTag("TAG2", 8, tagModel.TagStatusActive)
	repo.AddTag("TAG10", 10, tagModel.TagStatusActive)
	clock := clockAt("2024-05-01 18:00:00")

	payload := `{
		"TAG1": {"2024-05-01": {"check_in": "09:30:00", "check_out": "17:00"}, "2024-04-30": {"check_in": "08:00"}},
		"TAG2": {"2024-05-01": {"check_in": "09:30:01"}},
		"TAG10": {"2024-05-01": {"check_in": "08:00"}}
	}`
	_, err := newEngine(repo, clock, payload).Run(context.Background())
	require.NoError(t, err)

	svc := service.NewSummaryService(repo, repo, clock, service.ParseCutoff(service.DefaultLateCutoff))
	sum, err := svc.Today(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01", sum.Date)
	assert.Equal(t, "09:30:00", sum.LateCutoff)
	assert.Equal(t, 3, sum.TotalEmployees)
	assert.Equal(t, 2, sum.Present)
	assert.Equal(t, 1, sum.Absent)
	assert.Equal(t, 1, sum.Late)
	assert.Equal(t, 1, sum.OnTime)
	assert.Equal(t, 1, sum.CheckedOut)
	assert.Equal(t, 1, sum.StillWorking)
	require.Len(t, sum.Records, 2)
	assert.Equal(t, "Budi", sum.Records[0].EmployeeName)
	assert.False(t, sum.Records[0].IsLate)
	assert.True(t, sum.Records[1].IsLate)
}

func TestCloseDayMarksStaleSessionsLeave(t *testing.T) {
	repo, clock := newFixture()
	payload := `{"TAG1": {"2024-04-30": {"check_in": "08:00"}, "2024-05-01": {"check_in": "08:30"}}}`
	_, err := newEngine(repo, clock, payload).Run(context.Background())
	require.NoError(t, err)

	svc := service.NewCloseDayService(repo, clock)
	n, err := svc.CloseStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	for _, r := range repo.Records() {
		if r.AttendanceDate == "2024-04-30" {
			assert.Equal(t, model.StatusLeave, r.AttendanceStatus)
			assert.Nil(t, r.AttendanceTimeOut)
			assert.NotNil(t, r.AttendanceClosedAt)
		} else {
			assert.True(t, r.IsOpen())
		}
	}

	_, err = svc.CloseBefore(context.Background(), "kemarin")
	assert.Error(t, err)
}
