// Package evidence attaches listing URLs and screenshots to the worksheet.
package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/movingout-dev/movingout/internal/activity"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/store"
)

// ErrEmpty is returned when an upsert would leave an item with neither a URL
// nor a file.
var ErrEmpty = errors.New("evidence needs a URL or a supported file")

// AllowedMIME lists the file types accepted as evidence.
var AllowedMIME = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Upload is a file offered as evidence. An empty MIME is sniffed from Data.
type Upload struct {
	Filename string
	MIME     string
	Data     []byte
}

func (u Upload) mime() string {
	m := strings.TrimSpace(strings.ToLower(u.MIME))
	if m == "" {
		m = http.DetectContentType(u.Data)
	}
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = strings.TrimSpace(m[:i])
	}
	return m
}

// Service stores evidence, one item per evidence type.
type Service struct {
	store *store.Store
	log   *activity.Log
	audit *logrus.Logger
	now   func() time.Time
	newID func() string
}

// NewService creates a Service.
func NewService(st *store.Store, log *activity.Log, audit *logrus.Logger) *Service {
	return &Service{store: st, log: log, audit: audit, now: time.Now, newID: uuid.NewString}
}

// Upsert adds a URL and files to the item of type t, creating the item when
// there is none. A blank URL keeps the existing one. Files of unsupported
// types are skipped.
func (s *Service) Upsert(ctx context.Context, t model.EvidenceType, url string, uploads []Upload) (model.EvidenceItem, error) {
	now := s.now().UTC()
	item, err := s.store.EvidenceByType(ctx, t)
	switch {
	case errors.Is(err, store.ErrNotFound):
		item = model.EvidenceItem{ID: s.newID(), Type: t, FileIDs: []string{}, CreatedAt: now}
	case err != nil:
		return model.EvidenceItem{}, fmt.Errorf("loading %s evidence: %w", t, err)
	}

	if u := strings.TrimSpace(url); u != "" {
		item.URL = u
	}

	var files []model.EvidenceFile
	for _, up := range uploads {
		mime := up.mime()
		if !AllowedMIME[mime] {
			s.audit.WithFields(logrus.Fields{"filename": up.Filename, "mime": mime}).Debug("skipping unsupported evidence file")
			continue
		}
		sum := sha256.Sum256(up.Data)
		f := model.EvidenceFile{
			ID:         s.newID(),
			EvidenceID: item.ID,
			Filename:   up.Filename,
			MIME:       mime,
			Size:       int64(len(up.Data)),
			SHA256:     hex.EncodeToString(sum[:]),
			CreatedAt:  now,
			Data:       up.Data,
		}
		files = append(files, f)
		item.FileIDs = append(item.FileIDs, f.ID)
	}

	if !item.Usable() {
		return model.EvidenceItem{}, ErrEmpty
	}
	if err := s.store.SaveEvidence(ctx, item, files); err != nil {
		return model.EvidenceItem{}, err
	}

	details := fmt.Sprintf("evidence_id=%s file_count_added=%d has_url=%t", item.ID, len(files), item.URL != "")
	if _, err := s.log.Record(activity.EvidenceAdd, string(t), details); err != nil {
		return item, fmt.Errorf("logging evidence: %w", err)
	}
	s.audit.WithFields(logrus.Fields{"type": t, "evidence_id": item.ID, "files": len(files)}).Info("evidence saved")
	return item, nil
}

// Remove deletes the item of type t and its files. It reports whether there
// was one.
func (s *Service) Remove(ctx context.Context, t model.EvidenceType) (bool, error) {
	item, err := s.store.EvidenceByType(ctx, t)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading %s evidence: %w", t, err)
	}

	removed, err := s.store.DeleteEvidence(ctx, item.ID)
	if err != nil {
		return false, err
	}

	details := fmt.Sprintf("evidence_id=%s removed_file_count=%d", item.ID, removed)
	if _, err := s.log.Record(activity.EvidenceRemove, string(t), details); err != nil {
		return true, fmt.Errorf("logging evidence removal: %w", err)
	}
	s.audit.WithFields(logrus.Fields{"type": t, "evidence_id": item.ID, "files": removed}).Info("evidence removed")
	return true, nil
}

// List returns every stored item.
func (s *Service) List(ctx context.Context) ([]model.EvidenceItem, error) {
	return s.store.ListEvidence(ctx)
}

// Refs maps each evidence type to the ids of its items, the form kept on a
// submission.
func Refs(items []model.EvidenceItem) map[string][]string {
	refs := make(map[string][]string, len(items))
	for _, item := range items {
		refs[string(item.Type)] = append(refs[string(item.Type)], item.ID)
	}
	for _, ids := range refs {
		sort.Strings(ids)
	}
	return refs
}
