package filestore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"university/internal/apperr"
)

// Store keeps uploaded file blobs in a GridFS bucket. A nil bucket means
// the blob store is not configured; every operation then fails with
// StorageUnavailable.
type Store struct {
	bucket *gridfs.Bucket
}

// New creates a store over the given bucket (nil allowed).
func New(bucket *gridfs.Bucket) *Store {
	return &Store{bucket: bucket}
}

// FileInfo describes a stored blob.
type FileInfo struct {
	ID           string    `json:"id"`
	Filename     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	AssignmentID string    `json:"assignment_id"`
	UploadDate   time.Time `json:"upload_date"`
}

type fileMetadata struct {
	AssignmentID string    `bson:"assignment_id"`
	ContentType  string    `bson:"content_type"`
	UploadDate   time.Time `bson:"upload_date"`
}

// Put validates the type, stores the bytes and returns the blob id.
func (s *Store) Put(data []byte, filename, contentType, assignmentID string) (string, error) {
	if s.bucket == nil {
		return "", apperr.New(apperr.StorageUnavailable, "file storage service unavailable")
	}
	if filename == "" {
		filename = "unnamed_file"
	}
	if !ValidateFileType(contentType, filename) {
		return "", apperr.Newf(apperr.Validation, "file type %q not allowed", contentType)
	}

	opts := options.GridFSUpload().SetMetadata(fileMetadata{
		AssignmentID: assignmentID,
		ContentType:  contentType,
		UploadDate:   time.Now().UTC(),
	})
	id, err := s.bucket.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		return "", fmt.Errorf("filestore: upload failed: %w", err)
	}
	return id.Hex(), nil
}

// Get returns a blob's metadata and bytes.
func (s *Store) Get(fileID string) (FileInfo, []byte, error) {
	if s.bucket == nil {
		return FileInfo{}, nil, apperr.New(apperr.StorageUnavailable, "file storage service unavailable")
	}
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return FileInfo{}, nil, apperr.New(apperr.NotFound, "file not found")
	}

	stream, err := s.bucket.OpenDownloadStream(objID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return FileInfo{}, nil, apperr.New(apperr.NotFound, "file not found")
		}
		return FileInfo{}, nil, fmt.Errorf("filestore: open failed: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return FileInfo{}, nil, fmt.Errorf("filestore: read failed: %w", err)
	}

	file := stream.GetFile()
	info := FileInfo{ID: fileID, Filename: file.Name}
	var meta fileMetadata
	if file.Metadata != nil {
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil {
			info.ContentType = meta.ContentType
			info.AssignmentID = meta.AssignmentID
			info.UploadDate = meta.UploadDate
		}
	}
	return info, data, nil
}

// Delete removes a blob.
func (s *Store) Delete(fileID string) error {
	if s.bucket == nil {
		return apperr.New(apperr.StorageUnavailable, "file storage service unavailable")
	}
	objID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return apperr.New(apperr.NotFound, "file not found")
	}
	if err := s.bucket.Delete(objID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return apperr.New(apperr.NotFound, "file not found")
		}
		return fmt.Errorf("filestore: delete failed: %w", err)
	}
	return nil
}
