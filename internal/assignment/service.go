package assignment

import (
	"context"
	"log"
	"time"

	"university/internal/apperr"
	"university/internal/auth"
	"university/internal/filestore"
)

// Notifier delivers fire-and-forget assignment notifications.
type Notifier interface {
	AssignmentCreated(ctx context.Context, groupID, title string)
	FileUploaded(ctx context.Context, fileID string)
}

// Service coordinates assignment CRUD, attachments and notifications.
type Service struct {
	repo     *Repository
	files    *filestore.Store
	notifier Notifier
}

// NewService creates a service.
func NewService(repo *Repository, files *filestore.Store, notifier Notifier) *Service {
	return &Service{repo: repo, files: files, notifier: notifier}
}

// CreateInput is the validated payload for a new assignment.
type CreateInput struct {
	GroupID     string
	Title       string
	Description *string
	Deadline    *time.Time
}

// Create posts an assignment. The author is always the caller, regardless
// of any id in the request, and the group is notified best-effort.
func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (Assignment, error) {
	deadline := in.Deadline
	if deadline != nil {
		utc := deadline.UTC()
		deadline = &utc
	}
	created, err := s.repo.Insert(ctx, Assignment{
		GroupID:     in.GroupID,
		TeacherID:   p.UserID,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    deadline,
	})
	if err != nil {
		return Assignment{}, err
	}
	s.notifier.AssignmentCreated(ctx, created.GroupID, created.Title)
	return created, nil
}

// List returns assignments, optionally narrowed to one group.
func (s *Service) List(ctx context.Context, groupID string) ([]WithDetails, error) {
	return s.repo.ListDetailed(ctx, groupID)
}

// Get returns an assignment with details.
func (s *Service) Get(ctx context.Context, id string) (WithDetails, error) {
	d, err := s.repo.DetailByID(ctx, id)
	if err != nil {
		return WithDetails{}, err
	}
	if d == nil {
		return WithDetails{}, apperr.New(apperr.NotFound, "assignment not found")
	}
	return *d, nil
}

// owned loads an assignment and checks mutation rights. Existence is
// checked before ownership.
func (s *Service) owned(ctx context.Context, p auth.Principal, id, action string) (*Assignment, error) {
	a, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.New(apperr.NotFound, "assignment not found")
	}
	if !p.Owns(a.TeacherID) {
		return nil, apperr.Newf(apperr.Forbidden, "you can only %s your own assignments", action)
	}
	return a, nil
}

// Update patches an assignment.
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, patch Patch) (Assignment, error) {
	if _, err := s.owned(ctx, p, id, "update"); err != nil {
		return Assignment{}, err
	}
	if patch.Deadline != nil {
		utc := patch.Deadline.UTC()
		patch.Deadline = &utc
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes an assignment and its attachments. Blob deletion is
// best-effort; a failed delete is logged and does not block the removal.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	a, err := s.owned(ctx, p, id, "delete")
	if err != nil {
		return err
	}
	for _, fileID := range a.FileIDs {
		if err := s.files.Delete(fileID); err != nil {
			log.Printf("assignment: delete file %s failed: %v", fileID, err)
		}
	}
	return s.repo.Delete(ctx, id)
}

// UploadFile validates and stores an attachment, links it to the
// assignment and queues it for post-processing.
func (s *Service) UploadFile(ctx context.Context, p auth.Principal, id string, data []byte, filename, contentType string) (filestore.FileInfo, error) {
	if _, err := s.owned(ctx, p, id, "upload files to"); err != nil {
		return filestore.FileInfo{}, err
	}
	fileID, err := s.files.Put(data, filename, contentType, id)
	if err != nil {
		return filestore.FileInfo{}, err
	}
	if err := s.repo.AppendFileID(ctx, id, fileID); err != nil {
		return filestore.FileInfo{}, err
	}
	s.notifier.FileUploaded(ctx, fileID)

	info, _, err := s.files.Get(fileID)
	if err != nil {
		return filestore.FileInfo{}, err
	}
	return info, nil
}

// DownloadFile returns an attachment's metadata and bytes.
func (s *Service) DownloadFile(ctx context.Context, fileID string) (filestore.FileInfo, []byte, error) {
	return s.files.Get(fileID)
}
