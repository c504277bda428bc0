package handlers

import (
	"time"

	"telemedicine-reminder-server/internal/middleware"
	"telemedicine-reminder-server/internal/models"
	"telemedicine-reminder-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	DoctorID  string    `json:"doctorId" binding:"required,uuid"`
	PatientID string    `json:"patientId" binding:"required,uuid"`
	StartTime time.Time `json:"startTime" binding:"required"`
	Reason    string    `json:"reason" binding:"required"`
	Notes     string    `json:"notes"`
}

// CreateAppointment books a new appointment and seeds its reminder rows:
// one 24_hours and one 1_hour reminder per appointment, both pending. The
// dispatch cycle picks them up later; nothing here decides due-ness.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientIDStr, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}
	// Patients can only book for themselves; doctors and admins may book on
	// a patient's behalf.
	requestingUserRole, _ := middleware.GetUserRoleFromContext(c)
	if requestingUserRole == models.RolePatient && patientIDStr != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		utils.BadRequest(c, "Invalid Doctor ID format")
		return
	}

	// Verify doctor exists and is a doctor
	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ?", doctorID.String(), models.RoleDoctor).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or user is not a doctor")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	if req.StartTime.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	appointment := models.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.StartTime.Add(30 * time.Minute),
		Reason:    req.Reason,
		Notes:     req.Notes,
		Status:    models.StatusPending,
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	// Seed the reminder rows for the new appointment.
	reminders := []models.Reminder{
		{AppointmentID: appointment.ID, ReminderType: models.Reminder24Hours, Status: models.ReminderPending},
		{AppointmentID: appointment.ID, ReminderType: models.Reminder1Hour, Status: models.ReminderPending},
	}
	if err := h.DB.Create(&reminders).Error; err != nil {
		utils.InternalServerError(c, "Failed to schedule reminders: "+err.Error())
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user (patient or doctor).
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userIDStr, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	userRole, _ := middleware.GetUserRoleFromContext(c)

	var appointments []models.Appointment
	var err error

	query := h.DB.Preload("Patient").Preload("Doctor").Order("start_time asc")

	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userIDStr).Find(&appointments).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userIDStr).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments this way. Role: "+string(userRole))
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by involved patient, doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointmentIDStr := c.Param("id")
	appointmentID, err := uuid.Parse(appointmentIDStr)
	if err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor").First(&appointment, "id = ?", appointmentID.String()).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userIDStr, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	isPatientInvolved := userIDStr == appointment.PatientID
	isDoctorInvolved := userIDStr == appointment.DoctorID

	if userRole != models.RoleAdmin && !isPatientInvolved && !isDoctorInvolved {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}
