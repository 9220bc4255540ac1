package handlers

import (
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/gofiber/fiber/v2"
)

var uploadFolders = map[string]string{
	"cv":         storage.FolderCV,
	"portfolio":  storage.FolderPortfolio,
	"submission": storage.FolderSubmissions,
	"profile":    storage.FolderProfiles,
}

// GenerateUploadSignature creates a secure signature for a frontend upload.
func GenerateUploadSignature(c *fiber.Ctx) error {
	folder, ok := uploadFolders[c.Query("purpose", "submission")]
	if !ok {
		return badRequest(c, "purpose must be one of cv, portfolio, submission, profile")
	}

	signer, ok := storage.Default.(storage.Signer)
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Direct uploads are not configured"})
	}
	sig, err := signer.SignUpload(folder)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}
	return c.JSON(sig)
}
