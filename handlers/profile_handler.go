package handlers

import (
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name" validate:"omitempty,min=3"`
	Phone             *string `json:"phone" validate:"omitempty,min=8,max=30"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
}

func GetProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var user models.User
	if err := findOr404(&user, actor.ID, "user"); err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var user models.User
	if err := findOr404(&user, actor.ID, "user"); err != nil {
		return respondError(c, err)
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *req.ProfilePictureURL
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(user)
}
