package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/printgate/printgate/internal/models"
	"github.com/printgate/printgate/internal/repository"
)

// memJobStore is an in-memory stand-in for the SQL repository. It mirrors
// the locking contract: WithJobLock serializes callers per job via a
// dedicated mutex, applies mutations to a working copy, and commits the
// copy back only when fn succeeds.
type memJobStore struct {
	mu    sync.Mutex
	jobs  map[string]*models.PrintJob
	locks map[string]*sync.Mutex
}

func newMemJobStore() *memJobStore {
	return &memJobStore{
		jobs:  map[string]*models.PrintJob{},
		locks: map[string]*sync.Mutex{},
	}
}

func (s *memJobStore) put(job *models.PrintJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *job
	s.jobs[job.ID] = &copied
	if _, ok := s.locks[job.ID]; !ok {
		s.locks[job.ID] = &sync.Mutex{}
	}
}

func (s *memJobStore) snapshot(id string) *models.PrintJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (s *memJobStore) Create(ctx context.Context, job *models.PrintJob) error {
	s.put(job)
	return nil
}

func (s *memJobStore) GetByID(ctx context.Context, id string) (*models.PrintJob, error) {
	job := s.snapshot(id)
	if job == nil {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (s *memJobStore) GetByToken(ctx context.Context, token string) (*models.PrintJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.CapabilityToken == token {
			copied := *job
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memJobStore) ListByOwner(ctx context.Context, ownerKey string) ([]models.PrintJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PrintJob
	for _, job := range s.jobs {
		if job.OwnerKey == ownerKey {
			out = append(out, *job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memJobStore) PurgeTerminalByOwner(ctx context.Context, ownerKey string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for id, job := range s.jobs {
		if job.OwnerKey == ownerKey && job.Status != models.JobStatusPending {
			keys = append(keys, job.FileKey)
			delete(s.jobs, id)
		}
	}
	return keys, nil
}

func (s *memJobStore) WithJobLock(ctx context.Context, id string, fn func(ctx context.Context, job *models.PrintJob, mut repository.JobMutator) error) error {
	s.mu.Lock()
	lock, ok := s.locks[id]
	s.mu.Unlock()
	if !ok {
		return sql.ErrNoRows
	}

	lock.Lock()
	defer lock.Unlock()

	stored := s.snapshot(id)
	if stored == nil {
		return sql.ErrNoRows
	}

	working := *stored
	if err := fn(ctx, &working, &memMutator{job: &working}); err != nil {
		return err
	}
	s.put(&working)
	return nil
}

type memMutator struct {
	job *models.PrintJob
}

func (m *memMutator) MarkExpired(ctx context.Context, id string) error {
	if m.job.Status != models.JobStatusPending {
		return sql.ErrNoRows
	}
	m.job.Status = models.JobStatusExpired
	return nil
}

func (m *memMutator) MarkPrinted(ctx context.Context, id string, printedAt time.Time, rotatedToken string) error {
	if m.job.Status != models.JobStatusPending {
		return sql.ErrNoRows
	}
	m.job.Status = models.JobStatusPrinted
	m.job.PrintedAt = &printedAt
	m.job.CapabilityToken = rotatedToken
	return nil
}

func (m *memMutator) RecordFailedAttempt(ctx context.Context, id string, attempts int, lock bool) error {
	if m.job.Status != models.JobStatusPending {
		return sql.ErrNoRows
	}
	m.job.Attempts = attempts
	if lock {
		m.job.Status = models.JobStatusLocked
	}
	return nil
}

// memObjectStore is an in-memory object store with switchable failures.
type memObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failGet bool
	failPut bool
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string][]byte{}}
}

func (s *memObjectStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return fmt.Errorf("object store put failed")
	}
	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, body); err != nil {
		return err
	}
	s.objects[key] = buf.Bytes()
	return nil
}

func (s *memObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return nil, fmt.Errorf("object store get failed")
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (s *memObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}
