package services

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxDocumentSize is the largest file accepted for faxing.
const MaxDocumentSize = 25 << 20

// Document types a fax can be rendered from.
var faxableTypes = []string{
	"application/pdf",
	"image/tiff",
	"image/png",
	"image/jpeg",
}

type DocumentService struct {
	bucket string
	logger *zap.Logger
}

func NewDocumentService(bucket string, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{bucket: bucket, logger: logger}
}

// DocumentPath is the storage key of a document:
// users/{user_id}/documents/{document_id}/{file_name}
func DocumentPath(userID, documentID uuid.UUID, fileName string) string {
	return fmt.Sprintf("users/%s/documents/%s/%s", userID, documentID, sanitizeFileName(fileName))
}

func documentFolder(userID, documentID uuid.UUID) string {
	return fmt.Sprintf("users/%s/documents/%s", userID, documentID)
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "document"
	}
	return name
}

// DetectContentType returns the MIME type of data if it can be faxed.
func DetectContentType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	mtype := mimetype.Detect(data)
	for _, allowed := range faxableTypes {
		if mtype.Is(allowed) {
			return allowed, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, mtype.String())
}

type UploadDocument struct {
	FileName  string
	PageCount int
	Data      []byte
}

// Upload stores the file then records it in fax_documents. The object is
// removed again when the row cannot be written.
func (s *DocumentService) Upload(client *supabase.Client, storage *supabase.StorageClient, user models.User, doc UploadDocument) (models.FaxDocument, error) {
	contentType, err := DetectContentType(doc.Data)
	if err != nil {
		return models.FaxDocument{}, err
	}
	if doc.PageCount <= 0 {
		doc.PageCount = 1
	}

	documentID := uuid.New()
	fileName := sanitizeFileName(doc.FileName)
	filePath := DocumentPath(user.ID, documentID, fileName)

	if _, err := storage.Upload(s.bucket, filePath, bytes.NewReader(doc.Data), supabase.UploadOptions{
		ContentType: contentType,
	}); err != nil {
		return models.FaxDocument{}, err
	}

	rows, err := supabase.Insert(client, models.FaxDocuments, models.FaxDocumentInsert{
		ID:        &documentID,
		UserID:    user.ID,
		FileName:  fileName,
		FilePath:  filePath,
		PageCount: doc.PageCount,
		FileSize:  int64(len(doc.Data)),
	}, supabase.WriteOptions{})
	if err == nil && len(rows) == 0 {
		err = fmt.Errorf("failed to record document: %w", supabase.ErrNoData)
	}
	if err != nil {
		if _, cleanupErr := storage.Delete(s.bucket, []string{filePath}); cleanupErr != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("path", filePath),
				zap.Error(cleanupErr),
			)
		}
		return models.FaxDocument{}, err
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", documentID.String()),
		zap.String("user_id", user.ID.String()),
		zap.Int64("size", int64(len(doc.Data))),
	)
	return rows[0], nil
}

func (s *DocumentService) List(client *supabase.Client, userID uuid.UUID) ([]models.FaxDocument, error) {
	return supabase.Select(client, models.FaxDocuments, supabase.SelectOptions{
		Where: supabase.Where{models.ColUserID: userID},
		Order: &supabase.Order{Column: models.ColCreatedAt, Descending: true},
	})
}

func (s *DocumentService) Get(client *supabase.Client, userID, documentID uuid.UUID) (models.FaxDocument, error) {
	rows, err := supabase.Select(client, models.FaxDocuments, supabase.SelectOptions{
		Where: supabase.Where{
			models.ColID:     documentID,
			models.ColUserID: userID,
		},
		Limit: 1,
	})
	if err != nil {
		return models.FaxDocument{}, err
	}
	if len(rows) == 0 {
		return models.FaxDocument{}, ErrNotFound
	}
	return rows[0], nil
}

// Download returns the document row and the stored file.
func (s *DocumentService) Download(client *supabase.Client, storage *supabase.StorageClient, userID, documentID uuid.UUID) (models.FaxDocument, []byte, error) {
	doc, err := s.Get(client, userID, documentID)
	if err != nil {
		return models.FaxDocument{}, nil, err
	}
	data, err := storage.Download(s.bucket, doc.FilePath)
	if err != nil {
		return models.FaxDocument{}, nil, err
	}
	return doc, data, nil
}

// Delete removes the row first, then every object under the document's folder.
func (s *DocumentService) Delete(client *supabase.Client, storage *supabase.StorageClient, userID, documentID uuid.UUID) error {
	doc, err := s.Get(client, userID, documentID)
	if err != nil {
		return err
	}

	if _, err := supabase.Delete(client, models.FaxDocuments, supabase.Where{
		models.ColID:     doc.ID,
		models.ColUserID: userID,
	}, supabase.WriteOptions{}); err != nil {
		return err
	}

	paths := []string{doc.FilePath}
	folder := documentFolder(userID, doc.ID)
	files, err := storage.List(s.bucket, folder)
	if err != nil {
		s.logger.Warn("failed to list document folder", zap.String("folder", folder), zap.Error(err))
	}
	for _, f := range files {
		p := folder + "/" + f.Name
		if p != doc.FilePath {
			paths = append(paths, p)
		}
	}

	if _, err := storage.Delete(s.bucket, paths); err != nil {
		return err
	}
	return nil
}
