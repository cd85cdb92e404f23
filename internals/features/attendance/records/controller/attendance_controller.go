// file: internals/features/attendance/records/controller/attendance_controller.go
package controller

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kantorku_backend/internals/features/attendance/records/dto"
	"kantorku_backend/internals/features/attendance/records/export"
	"kantorku_backend/internals/features/attendance/records/service"
	helper "kantorku_backend/internals/helpers"
	"kantorku_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	Toggler  *service.ToggleService
	Engine   *service.Engine // nil = sumber event belum dikonfigurasi
	Summary  *service.SummaryService
	Closer   *service.CloseDayService
	Store    service.Store
	Clock    dbtime.Clock
	Validate *validator.Validate
}

type Deps struct {
	Toggler *service.ToggleService
	Engine  *service.Engine
	Summary *service.SummaryService
	Closer  *service.CloseDayService
	Store   service.Store
	Clock   dbtime.Clock
}

func NewAttendanceController(d Deps) *AttendanceController {
	return &AttendanceController{
		Toggler:  d.Toggler,
		Engine:   d.Engine,
		Summary:  d.Summary,
		Closer:   d.Closer,
		Store:    d.Store,
		Clock:    d.Clock,
		Validate: validator.New(),
	}
}

/* =========================================================
   TOGGLE
   POST /api/d/attendance/toggle
   body: { tag_uid | employee_id, reader_id?, location?, idempotency_key?, method? }
   header Idempotency-Key dipakai kalau body tidak mengisi idempotency_key
   ========================================================= */
func (ctl *AttendanceController) Toggle(c *fiber.Ctx) error {
	var req dto.ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, service.CodeInvalidInput, "Payload tidak valid")
	}
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		req.IdempotencyKey = c.Get("Idempotency-Key")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Toggler.Toggle(c.UserContext(), req.ToInput())
	if err != nil {
		var te *service.ToggleError
		if errors.As(err, &te) {
			if te.Status >= 500 {
				log.Printf("[TOGGLE] %v", te)
			}
			return helper.JsonErrorCode(c, te.Status, te.Code, te.Message)
		}
		log.Printf("[TOGGLE] unexpected: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses absensi")
	}

	body := dto.FromToggleResult(res)
	switch {
	case res.Replayed:
		return helper.JsonOK(c, "Tap sudah tercatat sebelumnya", body)
	case res.Action == service.ActionCheckIn:
		return helper.JsonCreated(c, "Check-in berhasil", body)
	default:
		return helper.JsonOK(c, "Check-out berhasil", body)
	}
}

/* =========================================================
   RECONCILE (manual trigger)
   POST /api/a/attendance/reconcile
   ========================================================= */
func (ctl *AttendanceController) Reconcile(c *fiber.Ctx) error {
	if ctl.Engine == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Sumber event belum dikonfigurasi")
	}
	sum, err := ctl.Engine.Run(c.UserContext())
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// run terputus di tengah: event yang sudah diproses tetap tersimpan
		if sum != nil {
			log.Printf("[RECONCILE] manual run terputus: %v (created=%d updated=%d skipped=%d)", err, sum.Created, sum.Updated, sum.Skipped)
		} else {
			log.Printf("[RECONCILE] manual run terputus: %v", err)
		}
		return helper.JsonErrorCode(c, fiber.StatusGatewayTimeout, "RECONCILE_INTERRUPTED", "Rekonsiliasi terputus sebelum selesai, akan dilanjutkan run berikutnya")
	}
	if err != nil {
		log.Printf("[RECONCILE] manual run gagal: %v", err)
		return helper.JsonErrorCode(c, fiber.StatusBadGateway, "SOURCE_UNAVAILABLE", "Sumber event tidak dapat dibaca")
	}
	return helper.JsonOK(c, "Rekonsiliasi selesai", sum)
}

/* =========================================================
   SUMMARY
   GET /api/a/attendance/today?date=YYYY-MM-DD (opsional)
   ========================================================= */
func (ctl *AttendanceController) Today(c *fiber.Ctx) error {
	date, err := ctl.dateQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	sum, err := ctl.Summary.ForDate(c.UserContext(), date)
	if err != nil {
		log.Printf("[SUMMARY] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat rekap kehadiran")
	}
	return helper.JsonOK(c, "ok", sum)
}

// GET /api/a/attendance/today/export?date=
func (ctl *AttendanceController) ExportToday(c *fiber.Ctx) error {
	date, err := ctl.dateQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	sum, err := ctl.Summary.ForDate(c.UserContext(), date)
	if err != nil {
		log.Printf("[SUMMARY] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat rekap kehadiran")
	}

	var buf bytes.Buffer
	if err := export.WriteDailySummary(&buf, sum); err != nil {
		log.Printf("[EXPORT] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file export")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.FileName(sum.Date)+`"`)
	return c.Send(buf.Bytes())
}

/* =========================================================
   LIST
   GET /api/a/attendance?date=YYYY-MM-DD
   GET /api/a/attendance/employee/:employee_id?page=&per_page=
   ========================================================= */
func (ctl *AttendanceController) ListByDate(c *fiber.Ctx) error {
	date, err := ctl.dateQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	rows, err := ctl.Store.ListByDate(c.UserContext(), date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data absensi")
	}
	pg := helper.BuildPaginationFromPage(int64(len(rows)), 1, max(len(rows), 1), len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

func (ctl *AttendanceController) ListByEmployee(c *fiber.Ctx) error {
	employeeID, err := strconv.ParseInt(c.Params("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "employee_id tidak valid")
	}
	p := helper.ResolvePaging(c, 20, 100)

	rows, total, err := ctl.Store.ListByEmployee(c.UserContext(), employeeID, p.Limit, p.Offset)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data absensi")
	}
	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/* =========================================================
   CLOSE DAY
   POST /api/a/attendance/close-day  body: { before? }
   ========================================================= */
func (ctl *AttendanceController) CloseDay(c *fiber.Ctx) error {
	var req dto.CloseDayRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
		}
	}
	req.Before = strings.TrimSpace(req.Before)
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Before == "" {
		req.Before = dbtime.Today(ctl.Clock)
	}

	n, err := ctl.Closer.CloseBefore(c.UserContext(), req.Before)
	if err != nil {
		log.Printf("[CLOSE-DAY] %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menutup sesi")
	}
	return helper.JsonOK(c, "Sesi terbuka ditutup", dto.CloseDayResponse{Before: req.Before, Closed: n})
}

func (ctl *AttendanceController) dateQuery(c *fiber.Ctx) (string, error) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		return dbtime.Today(ctl.Clock), nil
	}
	if !dbtime.IsValidDate(date) {
		return "", errors.New("Format tanggal harus YYYY-MM-DD")
	}
	return date, nil
}
