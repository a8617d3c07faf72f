package docgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"lexdraft/internal/app/db"
	"lexdraft/internal/app/session"
	"lexdraft/internal/app/storage"
	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
	"lexdraft/internal/pkg/logx"
	"lexdraft/internal/pkg/randx"
)

const (
	// artifactMimeType is the content type of stored document artifacts.
	artifactMimeType = "text/plain; charset=utf-8"

	// downloadLinkTTL is how long a presigned download URL stays valid.
	downloadLinkTTL = 15 * time.Minute
)

// Document is the API view of a generated document.
type Document struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service generates documents and manages their history.
type Service struct {
	documents *db.DocumentStore
	artifacts storage.ArtifactStore
	logger    zerolog.Logger
}

// NewService constructs the document generation service.
func NewService(documents *db.DocumentStore, artifacts storage.ArtifactStore) *Service {
	return &Service{
		documents: documents,
		artifacts: artifacts,
		logger:    logx.Logger().With().Str("component", "DocgenService").Logger(),
	}
}

// Generate renders a document for the session's user, stores the artifact,
// records it in history, and debits one token.
//
// The token check happens before any rendering; a user with a zero balance
// gets ErrInsufficientTokens and nothing else happens. The debit happens last,
// so a storage failure never costs a token.
func (s *Service) Generate(ctx context.Context, mgr *session.Manager, docType string, fields map[string]string) (Document, error) {
	u := mgr.CurrentUser()
	if u == nil {
		return Document{}, errs.NewError(errs.ErrUnauthorized)
	}
	if u.TokenBalance() <= 0 {
		return Document{}, errs.NewError(errs.ErrInsufficientTokens)
	}

	body, err := Render(docType, fields)
	if err != nil {
		return Document{}, err
	}

	now := time.Now()
	docID := randx.DocumentID()
	key := fmt.Sprintf("documents/%s/%s.txt", u.ID, docID)

	if err := s.artifacts.Upload(ctx, key, artifactMimeType, strings.NewReader(body)); err != nil {
		s.logger.Error().Err(err).Str("user_id", u.ID).Str("doc_type", docType).Msg("Artifact upload failed.")
		return Document{}, errs.NewError(errs.ErrArtifactStorageFailed)
	}

	rec := db.DocumentRecord{
		ID:         docID,
		UserID:     u.ID,
		DocType:    docType,
		Title:      documentTitle(docType, now),
		StorageKey: key,
		CreatedAt:  now,
	}
	if err := s.documents.Insert(ctx, rec); err != nil {
		if delErr := s.artifacts.Delete(ctx, key); delErr != nil {
			s.logger.Warn().Err(delErr).Str("key", key).Msg("Orphaned artifact could not be removed.")
		}
		return Document{}, errs.NewError(errs.ErrUnknown, err)
	}

	remaining := u.TokenBalance() - 1
	if err := mgr.UpdateUser(ctx, user.MetadataPatch{Tokens: user.Int(remaining)}); err != nil {
		// The document already exists; an undebited token is the lesser harm.
		s.logger.Warn().Err(err).Str("user_id", u.ID).Msg("Token debit failed after generation.")
	}

	s.logger.Info().Str("user_id", u.ID).Str("doc_type", docType).Str("document_id", docID).Msg("Document generated.")

	return toAPIDocument(rec), nil
}

// List returns the user's generated documents, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	records, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.NewError(errs.ErrUnknown, err)
	}

	docs := make([]Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, toAPIDocument(rec))
	}
	return docs, nil
}

// DownloadURL returns a short-lived presigned URL for the user's document.
// Documents owned by other users are indistinguishable from missing ones.
func (s *Service) DownloadURL(ctx context.Context, userID, documentID string) (string, error) {
	rec, err := s.ownedDocument(ctx, userID, documentID)
	if err != nil {
		return "", err
	}

	url, err := s.artifacts.PresignDownload(ctx, rec.StorageKey, downloadLinkTTL)
	if err != nil {
		return "", errs.NewError(errs.ErrArtifactStorageFailed)
	}
	return url, nil
}

// Delete removes the user's document from history and best-effort removes its
// artifact.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	rec, err := s.ownedDocument(ctx, userID, documentID)
	if err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, rec.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NewError(errs.ErrDocumentNotFound)
		}
		return errs.NewError(errs.ErrUnknown, err)
	}

	if err := s.artifacts.Delete(ctx, rec.StorageKey); err != nil {
		s.logger.Warn().Err(err).Str("key", rec.StorageKey).Msg("Artifact removal failed after history delete.")
	}

	return nil
}

func (s *Service) ownedDocument(ctx context.Context, userID, documentID string) (db.DocumentRecord, error) {
	rec, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.DocumentRecord{}, errs.NewError(errs.ErrDocumentNotFound)
		}
		return db.DocumentRecord{}, errs.NewError(errs.ErrUnknown, err)
	}
	if rec.UserID != userID {
		return db.DocumentRecord{}, errs.NewError(errs.ErrDocumentNotFound)
	}
	return rec, nil
}

func toAPIDocument(rec db.DocumentRecord) Document {
	return Document{
		ID:        rec.ID,
		Type:      rec.DocType,
		Title:     rec.Title,
		CreatedAt: rec.CreatedAt,
	}
}
