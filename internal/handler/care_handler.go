package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/service"
)

// DoctorHandler handles the doctor directory
type DoctorHandler struct {
	doctors     *service.DoctorService
	maxUploadMB int64
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(doctors *service.DoctorService, maxUploadMB int64) *DoctorHandler {
	return &DoctorHandler{doctors: doctors, maxUploadMB: maxUploadMB}
}

type doctorRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Specialty      *string  `json:"specialty" validate:"omitempty,min=1,max=100"`
	Qualification  *string  `json:"qualification" validate:"omitempty,max=200"`
	Image          *string  `json:"image" validate:"omitempty,url"`
	AvailableSlots []string `json:"availableSlots" validate:"omitempty,dive,clock"`
	Status         *string  `json:"status" validate:"omitempty,oneof=available busy"`
}

func (r doctorRequest) input() service.DoctorInput {
	return service.DoctorInput{
		Name:           r.Name,
		Specialty:      r.Specialty,
		Qualification:  r.Qualification,
		Image:          r.Image,
		AvailableSlots: r.AvailableSlots,
		Status:         r.Status,
	}
}

// Create handles POST /api/doctors (admin)
func (h *DoctorHandler) Create(c *fiber.Ctx) error {
	var req doctorRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	if err := requireFields(
		requiredField{"name", req.Name != nil},
		requiredField{"specialty", req.Specialty != nil},
	); err != nil {
		return respondError(c, err)
	}

	doctor, err := h.doctors.Create(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Doctor created", doctor)
}

// List handles GET /api/doctors (admin)
func (h *DoctorHandler) List(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	filter := domain.DoctorFilter{Specialty: c.Query("specialty"), Status: c.Query("status")}
	doctors, total, err := h.doctors.List(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Doctors", orEmpty(doctors), page, total)
}

// ListAvailable handles GET /api/doctors/available (public)
func (h *DoctorHandler) ListAvailable(c *fiber.Ctx) error {
	doctors, err := h.doctors.ListAvailable(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Available doctors", orEmpty(doctors))
}

// Get handles GET /api/doctors/:id (admin)
func (h *DoctorHandler) Get(c *fiber.Ctx) error {
	doctor, err := h.doctors.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Doctor", doctor)
}

// Update handles PUT /api/doctors/:id (admin)
func (h *DoctorHandler) Update(c *fiber.Ctx) error {
	var req doctorRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	doctor, err := h.doctors.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Doctor updated", doctor)
}

// Delete handles DELETE /api/doctors/:id (admin)
func (h *DoctorHandler) Delete(c *fiber.Ctx) error {
	if err := h.doctors.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Doctor deleted", nil)
}

// UploadImage handles POST /api/doctors/:id/image (admin, multipart "image")
func (h *DoctorHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "missing 'image' field in form data")
	}

	if maxBytes := h.maxUploadMB * 1024 * 1024; maxBytes > 0 && file.Size > maxBytes {
		return badRequest(c, fmt.Sprintf("file size exceeds maximum of %dMB", h.maxUploadMB))
	}
	if !isValidImageType(file) {
		return badRequest(c, "invalid file type, only JPEG, PNG and WEBP images are allowed")
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	doctor, err := h.doctors.UploadImage(c.UserContext(), c.Params("id"), data, file.Filename, imageContentType(file))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Doctor image uploaded", doctor)
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// isValidImageType checks the declared content type, falling back to the extension
func isValidImageType(file *multipart.FileHeader) bool {
	switch file.Header.Get(fiber.HeaderContentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	_, ok := imageTypes[strings.ToLower(filepath.Ext(file.Filename))]
	return ok
}

func imageContentType(file *multipart.FileHeader) string {
	if ct := file.Header.Get(fiber.HeaderContentType); strings.HasPrefix(ct, "image/") {
		return ct
	}
	return imageTypes[strings.ToLower(filepath.Ext(file.Filename))]
}

// AppointmentHandler handles bookings
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type bookingRequest struct {
	DoctorID        string    `json:"doctorId" validate:"required"`
	AppointmentDate *jsonDate `json:"appointmentDate"`
	AppointmentTime string    `json:"appointmentTime" validate:"required,clock"`
	PatientName     string    `json:"patientName" validate:"required,max=100"`
	PhoneNumber     string    `json:"phoneNumber" validate:"required,numeric,min=10,max=11"`
	Description     string    `json:"description" validate:"max=1000"`
}

type statusRequest struct {
	Status    string `json:"status" validate:"required,oneof=approved rejected completed cancelled"`
	AdminNote string `json:"adminNote" validate:"max=500"`
}

// Book handles POST /api/appointments
func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var req bookingRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	date := timeOf(req.AppointmentDate)
	if err := requireFields(requiredField{"appointmentDate", date != nil}); err != nil {
		return respondError(c, err)
	}

	appt, err := h.appointments.Book(c.UserContext(), userID(c), service.BookingInput{
		DoctorID:        req.DoctorID,
		AppointmentDate: *date,
		AppointmentTime: req.AppointmentTime,
		PatientName:     req.PatientName,
		PhoneNumber:     req.PhoneNumber,
		Description:     req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusCreated, "Appointment booked", appt)
}

// ListMine handles GET /api/appointments/my-appointments
func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	appts, total, err := h.appointments.ListMine(c.UserContext(), userID(c), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Appointments", orEmpty(appts), page, total)
}

// GetMine handles GET /api/appointments/my-appointments/:id
func (h *AppointmentHandler) GetMine(c *fiber.Ctx) error {
	appt, err := h.appointments.GetMine(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Appointment", appt)
}

// Cancel handles PUT /api/appointments/my-appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	appt, err := h.appointments.Cancel(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Appointment cancelled", appt)
}

// List handles GET /api/appointments (admin)
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	page := parsePage(c, defaultPageLimit)
	filter := domain.AppointmentFilter{
		DoctorID: c.Query("doctorId"),
		Status:   c.Query("status"),
	}
	appts, total, err := h.appointments.List(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, err)
	}
	return paginated(c, "Appointments", orEmpty(appts), page, total)
}

// Get handles GET /api/appointments/:id (admin)
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	appt, err := h.appointments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Appointment", appt)
}

// UpdateStatus handles PUT /api/appointments/:id/status (admin)
func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	appt, err := h.appointments.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.AdminNote)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Appointment status updated", appt)
}
