package handler

import (
	"io"
	"strconv"
	"strings"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// Batas ukuran foto bukti sebelum diproses ulang.
const maxPhotoBytes = 8 << 20

type AttendanceHandler struct {
	attendances *usecase.AttendanceUsecase
}

func NewAttendanceHandler(attendances *usecase.AttendanceUsecase) *AttendanceHandler {
	return &AttendanceHandler{attendances: attendances}
}

// POST /api/attendances (multipart: roster_unit_id, type, reason, latitude, longitude, photo)
func (h *AttendanceHandler) Submit(c *fiber.Ctx) error {
	unitID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("roster_unit_id")), 10, 64)
	if err != nil || unitID == 0 {
		return respondError(c, apperror.Validation("roster_unit_id", "wajib diisi"))
	}

	in := usecase.SubmitInput{
		ResidentID:   middleware.CurrentUserID(c),
		RosterUnitID: uint(unitID),
		Kind:         c.FormValue("type"),
		Reason:       c.FormValue("reason"),
	}

	if in.Latitude, err = optionalFloat(c.FormValue("latitude"), "latitude"); err != nil {
		return respondError(c, err)
	}
	if in.Longitude, err = optionalFloat(c.FormValue("longitude"), "longitude"); err != nil {
		return respondError(c, err)
	}

	// Handle File Upload
	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxPhotoBytes {
			return respondError(c, apperror.Validation("photo", "Ukuran foto maksimal 8MB"))
		}
		f, err := file.Open()
		if err != nil {
			return badBody(c)
		}
		defer f.Close()
		if in.Photo, err = io.ReadAll(io.LimitReader(f, maxPhotoBytes)); err != nil {
			return badBody(c)
		}
	}

	event, err := h.attendances.Submit(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Absensi berhasil dicatat",
		"data":    event,
	})
}

func optionalFloat(raw, field string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperror.Validation(field, "harus berupa angka")
	}
	return &v, nil
}

// GET /api/attendances?ward_unit=&presence=&type=&approved=&start=&end=&month=&year=&limit=
func (h *AttendanceHandler) GetAll(c *fiber.Ctx) error {
	q := usecase.ListQuery{
		WardUnit: c.Query("ward_unit"),
		Presence: c.Query("presence"),
		Kind:     c.Query("type"),
		Approval: c.Query("approved"),
		Start:    c.Query("start"),
		End:      c.Query("end"),
		Month:    c.QueryInt("month"),
		Year:     c.QueryInt("year"),
		Limit:    c.QueryInt("limit"),
	}
	events, stats, err := h.attendances.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": events, "stats": stats})
}

// GET /api/attendances/my-history?year=2026&month=3&limit=50
func (h *AttendanceHandler) MyHistory(c *fiber.Ctx) error {
	events, stats, err := h.attendances.History(c.UserContext(), middleware.CurrentUserID(c),
		c.QueryInt("year"), c.QueryInt("month"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": events, "stats": stats})
}

// GET /api/attendances/check-today/:unitId
func (h *AttendanceHandler) CheckToday(c *fiber.Ctx) error {
	unitID, err := paramID(c, "unitId")
	if err != nil {
		return respondError(c, err)
	}
	events, err := h.attendances.CheckToday(c.UserContext(), middleware.CurrentUserID(c), unitID)
	if err != nil {
		return respondError(c, err)
	}

	done := map[string]bool{}
	for _, e := range events {
		if e.ApprovalState() != model.ApprovalRejected {
			done[e.Kind] = true
		}
	}
	return c.JSON(fiber.Map{
		"data": events,
		"done": done,
	})
}

// GET /api/attendances/ward/:ward?start=&end=
func (h *AttendanceHandler) ByWard(c *fiber.Ctx) error {
	events, err := h.attendances.ByWard(c.UserContext(), c.Params("ward"), c.Query("start"), c.Query("end"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": events})
}

// GET /api/attendances/:id
func (h *AttendanceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	event, err := h.attendances.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if middleware.CurrentRole(c) != model.RoleAdmin && event.ResidentID != middleware.CurrentUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Akses ditolak"})
	}

	resp := fiber.Map{"data": event}
	if middleware.CurrentRole(c) == model.RoleAdmin {
		decisions, err := h.attendances.Decisions(c.UserContext(), id)
		if err != nil {
			return respondError(c, err)
		}
		resp["decisions"] = decisions
	}
	return c.JSON(resp)
}

type ApprovalRequest struct {
	Approved *bool `json:"approved"`
}

// PUT /api/attendances/:id/approve
func (h *AttendanceHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.Approved == nil {
		return respondError(c, apperror.Validation("approved", "wajib diisi"))
	}

	event, err := h.attendances.SetApproval(c.UserContext(), id, *req.Approved, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	msg := "Absensi berhasil disetujui"
	if !*req.Approved {
		msg = "Absensi berhasil ditolak"
	}
	return c.JSON(fiber.Map{"message": msg, "data": event})
}

type BulkApprovalRequest struct {
	IDs      []uint `json:"ids"`
	Approved *bool  `json:"approved"`
}

// PUT /api/attendances/approve
func (h *AttendanceHandler) BulkApprove(c *fiber.Ctx) error {
	var req BulkApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if len(req.IDs) == 0 {
		return respondError(c, apperror.Validation("ids", "wajib diisi"))
	}
	if req.Approved == nil {
		return respondError(c, apperror.Validation("approved", "wajib diisi"))
	}

	results := h.attendances.BulkSetApproval(c.UserContext(), req.IDs, *req.Approved, middleware.CurrentUserID(c))
	succeeded := 0
	for _, r := range results {
		if r.OK {
			succeeded++
		}
	}
	return c.JSON(fiber.Map{
		"message":   strconv.Itoa(succeeded) + " dari " + strconv.Itoa(len(results)) + " absensi diproses",
		"data":      results,
		"succeeded": succeeded,
	})
}

// DELETE /api/attendances/:id
func (h *AttendanceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.attendances.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Absensi berhasil dihapus"})
}
