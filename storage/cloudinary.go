package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	FolderCV           = "pkl_sertifikasi/cv"
	FolderPortfolio    = "pkl_sertifikasi/portfolio"
	FolderSubmissions  = "pkl_sertifikasi/submissions"
	FolderCertificates = "pkl_sertifikasi/certificates"
	FolderProfiles     = "pkl_sertifikasi/profiles"
)

const uploadTimeout = 30 * time.Second

type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	secret string
}

func NewCloudinary(cloudinaryURL string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Cloudinary URL: %w", err)
	}
	secret, _ := parsedURL.User.Password()
	return &CloudinaryStorage{cld: cld, secret: secret}, nil
}

// Init wires Default from CLOUDINARY_URL. Without it uploads are refused and
// only link submissions work.
func Init() {
	raw := config.Config("CLOUDINARY_URL")
	if raw == "" {
		slog.Warn("⚠️ CLOUDINARY_URL not set, file uploads disabled")
		return
	}
	s, err := NewCloudinary(raw)
	if err != nil {
		slog.Error("🔥 Blob storage init failed", "error", err)
		return
	}
	Default = s
	slog.Info("✅ Blob storage initialized", "provider", "cloudinary")
}

func (s *CloudinaryStorage) Store(ctx context.Context, file *multipart.FileHeader, folder string) (StoredFile, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID(file.Filename),
		ResourceType: "auto",
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("upload %s: %w", file.Filename, err)
	}

	return StoredFile{
		Path: res.PublicID,
		Name: file.Filename,
		Size: file.Size,
		MIME: file.Header.Get("Content-Type"),
		URL:  res.SecureURL,
	}, nil
}

func (s *CloudinaryStorage) StoreBytes(ctx context.Context, r io.Reader, name, folder string) (StoredFile, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID(name),
		ResourceType: "raw",
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("upload %s: %w", name, err)
	}
	return StoredFile{Path: res.PublicID, Name: name, Size: int64(res.Bytes), URL: res.SecureURL}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, p string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: p})
	return err
}

// UploadSignature signs params for a direct browser upload into folder.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
}

func (s *CloudinaryStorage) SignUpload(folder string) (UploadSignature, error) {
	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: folder})
	if err != nil {
		return UploadSignature{}, err
	}
	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, s.secret)
	if err != nil {
		return UploadSignature{}, err
	}
	return UploadSignature{
		Signature: signature,
		Timestamp: timestamp,
		APIKey:    s.cld.Config.Cloud.APIKey,
		CloudName: s.cld.Config.Cloud.CloudName,
		Folder:    folder,
	}, nil
}

func publicID(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
	return fmt.Sprintf("%s_%s", uuid.New().String()[:8], base)
}
