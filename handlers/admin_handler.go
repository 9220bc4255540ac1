package handlers

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DashboardAnalyticsResponse struct {
	TotalCandidates            int64         `json:"total_candidates"`
	InternshipRegistrations    []StatusCount `json:"internship_registrations"`
	CertificationRegistrations []StatusCount `json:"certification_registrations"`
	PendingSubmissions         int64         `json:"pending_submissions"`
	CertificatesLast30Days     int64         `json:"certificates_last_30_days"`
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var response DashboardAnalyticsResponse

	database.DB.Model(&models.User{}).Where("role = ?", models.RoleCandidate).Count(&response.TotalCandidates)

	database.DB.Model(&models.InternshipRegistration{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&response.InternshipRegistrations)
	database.DB.Model(&models.CertificationRegistration{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&response.CertificationRegistrations)

	pending := string(models.SubmissionPending)
	for _, model := range []any{&models.WeeklyReport{}, &models.InternshipDocument{}, &models.CertificationTask{}} {
		var n int64
		database.DB.Model(model).Where("status = ?", pending).Count(&n)
		response.PendingSubmissions += n
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&models.Certificate{}).Where("issue_date > ?", thirtyDaysAgo).Count(&response.CertificatesLast30Days)

	return c.JSON(response)
}

func GetAllUsers(c *fiber.Ctx) error {
	page, limit, offset := pagination(c)
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", searchTerm, searchTerm)
	}

	var totalUsers int64
	query.Session(&gorm.Session{}).Count(&totalUsers)
	var users []models.User
	query.Order("created_at desc").Offset(offset).Limit(limit).Find(&users)

	return c.JSON(fiber.Map{
		"data": users,
		"meta": fiber.Map{
			"total_users":  totalUsers,
			"total_pages":  int(math.Ceil(float64(totalUsers) / float64(limit))),
			"current_page": page,
		},
	})
}

// CreateStaffUser creates admin or asesor accounts; candidates sign up
// themselves.
func CreateStaffUser(c *fiber.Ctx) error {
	type Request struct {
		RegisterRequest
		Role string `json:"role" validate:"required,oneof=admin asesor"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user, err := createUser(req.RegisterRequest, req.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists", "kind": "conflict"})
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	type Request struct {
		IsActive bool `json:"is_active"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", req.IsActive)
	if result.Error != nil {
		return respondError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found", "kind": "not_found"})
	}
	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}
