package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/EncryptEx/ichack26/internal"
)

type FilePaths struct {
	Users     string
	Dreams    string
	Comments  string
	Overrides string
	// Roster seeds users.json when it does not exist yet. Empty means the
	// built-in roster.
	Roster    string
}

// collection is one JSON file with its own debounced save worker.
type collection struct {
	name   string
	signal chan struct{}
	save   func() error
}

type FileStorage struct {
	users     map[string]*internal.User         // id -> User
	tokens    map[string]string                 // token -> user id
	dreams    []*internal.Dream                 // sorted newest first
	dreamByID map[string]*internal.Dream        // id -> Dream
	comments  map[string][]*internal.Comment    // record id -> comments in arrival order
	overrides map[string]*internal.TimeOverride // user id + date -> override
	mu        sync.RWMutex

	paths        FilePaths
	collections  map[string]*collection
	shutdownChan chan struct{}
	saveDelay    time.Duration
	wg           sync.WaitGroup
	closeOnce    sync.Once
	logger       internal.Logger
}

func NewFileStorage(paths FilePaths, logger internal.Logger) (*FileStorage, error) {
	return newFileStorage(paths, logger, 500*time.Millisecond)
}

func newFileStorage(paths FilePaths, logger internal.Logger, saveDelay time.Duration) (*FileStorage, error) {
	s := &FileStorage{
		users:        make(map[string]*internal.User),
		tokens:       make(map[string]string),
		dreamByID:    make(map[string]*internal.Dream),
		comments:     make(map[string][]*internal.Comment),
		overrides:    make(map[string]*internal.TimeOverride),
		paths:        paths,
		shutdownChan: make(chan struct{}),
		saveDelay:    saveDelay,
		logger:       logger,
	}

	for _, p := range []string{paths.Users, paths.Dreams, paths.Comments, paths.Overrides} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}

	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}
	if err := s.loadDreams(); err != nil {
		logger.Errorf("storage: failed to load dreams: %v", err)
		return nil, err
	}
	if err := s.loadComments(); err != nil {
		logger.Errorf("storage: failed to load comments: %v", err)
		return nil, err
	}
	if err := s.loadOverrides(); err != nil {
		logger.Errorf("storage: failed to load overrides: %v", err)
		return nil, err
	}

	s.collections = map[string]*collection{
		"users":     {name: "users", save: s.saveUsers},
		"dreams":    {name: "dreams", save: s.saveDreams},
		"comments":  {name: "comments", save: s.saveComments},
		"overrides": {name: "overrides", save: s.saveOverrides},
	}
	for _, c := range s.collections {
		c.signal = make(chan struct{}, 1)
		s.wg.Add(1)
		go s.saveWorker(c)
	}

	return s, nil
}

// loadJSON decodes path into dst. A missing or empty file leaves dst untouched.
func loadJSON(path string, dst interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *FileStorage) loadUsers() error {
	var users []*internal.User
	if _, err := os.Stat(s.paths.Users); os.IsNotExist(err) {
		users, err = LoadRoster(s.paths.Roster)
		if err != nil {
			return err
		}
		if err := atomicWriteFileJSON(s.paths.Users, users); err != nil {
			return err
		}
		s.logger.Infof("storage: seeded %d users into %s", len(users), s.paths.Users)
	} else if err := loadJSON(s.paths.Users, &users); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		if u.Token != "" {
			s.tokens[u.Token] = u.ID
		}
	}
	return nil
}

func (s *FileStorage) loadDreams() error {
	var dreams []*internal.Dream
	if err := loadJSON(s.paths.Dreams, &dreams); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range dreams {
		s.dreamByID[d.ID] = d
	}
	s.dreams = dreams
	sort.SliceStable(s.dreams, func(i, j int) bool {
		return s.dreams[i].Date.After(s.dreams[j].Date)
	})
	return nil
}

func (s *FileStorage) loadComments() error {
	var comments []*internal.Comment
	if err := loadJSON(s.paths.Comments, &comments); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range comments {
		s.comments[c.RecordID] = append(s.comments[c.RecordID], c)
	}
	return nil
}

func (s *FileStorage) loadOverrides() error {
	var overrides []*internal.TimeOverride
	if err := loadJSON(s.paths.Overrides, &overrides); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range overrides {
		s.overrides[overrideKey(o.UserID, o.Date)] = o
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return atomicWriteFileJSON(s.paths.Users, users)
}

func (s *FileStorage) saveDreams() error {
	s.mu.RLock()
	dreams := make([]internal.Dream, 0, len(s.dreams))
	for _, d := range s.dreams {
		dreams = append(dreams, *d)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.paths.Dreams, dreams)
}

func (s *FileStorage) saveComments() error {
	s.mu.RLock()
	comments := make([]internal.Comment, 0)
	for _, list := range s.comments {
		for _, c := range list {
			comments = append(comments, *c)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp.Before(comments[j].Timestamp)
	})
	return atomicWriteFileJSON(s.paths.Comments, comments)
}

func (s *FileStorage) saveOverrides() error {
	s.mu.RLock()
	overrides := make([]internal.TimeOverride, 0, len(s.overrides))
	for _, o := range s.overrides {
		overrides = append(overrides, *o)
	}
	s.mu.RUnlock()

	sort.Slice(overrides, func(i, j int) bool {
		return overrideKey(overrides[i].UserID, overrides[i].Date) < overrideKey(overrides[j].UserID, overrides[j].Date)
	})
	return atomicWriteFileJSON(s.paths.Overrides, overrides)
}

// saveWorker batches writes for one collection so bursts of changes hit disk once.
func (s *FileStorage) saveWorker(c *collection) {
	defer s.wg.Done()

	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-c.signal:
			pending = true
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := c.save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", c.name, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) markDirty(name string) {
	select {
	case s.collections[name].signal <- struct{}{}:
	default:
	}
}

// Close stops the save workers and writes every collection synchronously.
func (s *FileStorage) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.wg.Wait()
		for _, name := range []string{"users", "dreams", "comments", "overrides"} {
			if err := s.collections[name].save(); err != nil {
				errs = append(errs, fmt.Errorf("storage: save %s: %w", name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// --- UserRepository ---
func (s *FileStorage) ListUsers(ctx context.Context) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("storage: user %q: %w", id, internal.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *FileStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, fmt.Errorf("storage: token: %w", internal.ErrNotFound)
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *FileStorage) RenameUser(ctx context.Context, id, name string) (*internal.User, error) {
	s.mu.Lock()
	u, ok := s.users[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("storage: user %q: %w", id, internal.ErrNotFound)
	}
	u.Name = name
	cp := *u
	s.mu.Unlock()

	s.markDirty("users")
	return &cp, nil
}

func (s *FileStorage) EnsureUser(ctx context.Context, u *internal.User) (*internal.User, error) {
	s.mu.Lock()
	if existing, ok := s.users[u.ID]; ok {
		cp := *existing
		s.mu.Unlock()
		return &cp, nil
	}
	stored := *u
	stored.Token = ""
	s.users[stored.ID] = &stored
	cp := stored
	s.mu.Unlock()

	s.markDirty("users")
	return &cp, nil
}

// --- DreamRepository ---
func (s *FileStorage) SaveDream(ctx context.Context, dream *internal.Dream) error {
	s.mu.Lock()
	d := *dream
	s.dreamByID[d.ID] = &d
	// Insert keeping newest first; equal dates keep arrival order newest first.
	i := sort.Search(len(s.dreams), func(i int) bool {
		return !s.dreams[i].Date.After(d.Date)
	})
	s.dreams = append(s.dreams, nil)
	copy(s.dreams[i+1:], s.dreams[i:])
	s.dreams[i] = &d
	s.mu.Unlock()

	s.markDirty("dreams")
	return nil
}

func (s *FileStorage) GetDream(ctx context.Context, id string) (*internal.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dreamByID[id]
	if !ok {
		return nil, fmt.Errorf("storage: dream %q: %w", id, internal.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (s *FileStorage) ListDreams(ctx context.Context, userID string, limit int) ([]internal.Dream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dreams := []internal.Dream{}
	for _, d := range s.dreams {
		if userID != "" && d.UserID != userID {
			continue
		}
		dreams = append(dreams, *d)
		if limit > 0 && len(dreams) == limit {
			break
		}
	}
	return dreams, nil
}

// --- CommentRepository ---
func (s *FileStorage) AddComment(ctx context.Context, c *internal.Comment) error {
	s.mu.Lock()
	cp := *c
	s.comments[c.RecordID] = append(s.comments[c.RecordID], &cp)
	s.mu.Unlock()

	s.markDirty("comments")
	return nil
}

func (s *FileStorage) ListComments(ctx context.Context, recordID string) ([]internal.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.comments[recordID]
	comments := make([]internal.Comment, len(list))
	for i, c := range list {
		comments[i] = *c
	}
	return comments, nil
}

// --- OverrideRepository ---
func (s *FileStorage) SetOverride(ctx context.Context, o *internal.TimeOverride) error {
	s.mu.Lock()
	cp := *o
	s.overrides[overrideKey(o.UserID, o.Date)] = &cp
	s.mu.Unlock()

	s.markDirty("overrides")
	return nil
}

func (s *FileStorage) GetOverride(ctx context.Context, userID, date string) (*internal.TimeOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[overrideKey(userID, date)]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func overrideKey(userID, date string) string {
	return userID + "|" + date
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
