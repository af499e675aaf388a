// Package memory is an in-process implementation of the storage interfaces.
// It backs the "memory" database driver and the handler tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ya_projects/internal/models"
	"ya_projects/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	// Now is used for User.DateJoined, News.Date and Comment.Created
	// when the caller leaves them zero.
	Now func() time.Time

	lastID   int64
	users    map[int64]models.User
	news     map[int64]models.News
	comments map[int64]models.Comment
	notes    map[int64]models.Note
}

var (
	_ storage.UserStore    = (*Store)(nil)
	_ storage.NewsStore    = (*Store)(nil)
	_ storage.CommentStore = (*Store)(nil)
	_ storage.NoteStore    = (*Store)(nil)
)

func New() *Store {
	return &Store{
		Now:      time.Now,
		users:    make(map[int64]models.User),
		news:     make(map[int64]models.News),
		comments: make(map[int64]models.Comment),
		notes:    make(map[int64]models.Note),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return fmt.Errorf("CreateUser: %w", storage.ErrConflict)
		}
	}
	u.ID = s.nextID()
	if u.DateJoined.IsZero() {
		u.DateJoined = s.Now()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) UserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("UserByID: %w", storage.ErrNotFound)
	}
	return &u, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("UserByUsername: %w", storage.ErrNotFound)
}

func (s *Store) CreateNews(_ context.Context, n *models.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.Link != "" && s.hasLink(n.Link) {
		return fmt.Errorf("CreateNews: %w", storage.ErrConflict)
	}
	s.insertNews(n)
	return nil
}

func (s *Store) ImportNews(_ context.Context, n *models.News) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.Link != "" && s.hasLink(n.Link) {
		return false, nil
	}
	s.insertNews(n)
	return true, nil
}

func (s *Store) hasLink(link string) bool {
	for _, existing := range s.news {
		if existing.Link == link {
			return true
		}
	}
	return false
}

func (s *Store) insertNews(n *models.News) {
	n.ID = s.nextID()
	if n.Date.IsZero() {
		n.Date = s.Now()
	}
	s.news[n.ID] = *n
}

func (s *Store) NewsByID(_ context.Context, id int64) (*models.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.news[id]
	if !ok {
		return nil, fmt.Errorf("NewsByID: %w", storage.ErrNotFound)
	}
	return &n, nil
}

func (s *Store) ListNews(_ context.Context, limit, offset int) ([]models.News, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.News, 0, len(s.news))
	for _, n := range s.news {
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID > all[j].ID
	})
	return window(all, limit, offset), nil
}

func (s *Store) CountNews(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.news), nil
}

func (s *Store) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.news[c.NewsID]; !ok {
		return fmt.Errorf("CreateComment: news %d: %w", c.NewsID, storage.ErrNotFound)
	}
	author, ok := s.users[c.AuthorID]
	if !ok {
		return fmt.Errorf("CreateComment: user %d: %w", c.AuthorID, storage.ErrNotFound)
	}
	c.ID = s.nextID()
	c.AuthorName = author.Username
	if c.Created.IsZero() {
		c.Created = s.Now()
	}
	s.comments[c.ID] = *c
	return nil
}

func (s *Store) CommentByID(_ context.Context, id int64) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("CommentByID: %w", storage.ErrNotFound)
	}
	c.AuthorName = s.users[c.AuthorID].Username
	return &c, nil
}

func (s *Store) UpdateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.comments[c.ID]
	if !ok {
		return fmt.Errorf("UpdateComment: %w", storage.ErrNotFound)
	}
	existing.Text = c.Text
	s.comments[c.ID] = existing
	return nil
}

func (s *Store) DeleteComment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return fmt.Errorf("DeleteComment: %w", storage.ErrNotFound)
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) CommentsByNews(_ context.Context, newsID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Comment
	for _, c := range s.comments {
		if c.NewsID == newsID {
			c.AuthorName = s.users[c.AuthorID].Username
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Created.Equal(result[j].Created) {
			return result[i].Created.Before(result[j].Created)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) CreateNote(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(n.AuthorID, n.Slug, 0) {
		return fmt.Errorf("CreateNote: %w", storage.ErrConflict)
	}
	n.ID = s.nextID()
	s.notes[n.ID] = *n
	return nil
}

func (s *Store) NoteBySlug(_ context.Context, authorID int64, slug string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notes {
		if n.AuthorID == authorID && n.Slug == slug {
			return &n, nil
		}
	}
	return nil, fmt.Errorf("NoteBySlug: %w", storage.ErrNotFound)
}

func (s *Store) NotesByAuthor(_ context.Context, authorID int64) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Note
	for _, n := range s.notes {
		if n.AuthorID == authorID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateNote(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.notes[n.ID]
	if !ok {
		return fmt.Errorf("UpdateNote: %w", storage.ErrNotFound)
	}
	if s.slugTaken(existing.AuthorID, n.Slug, n.ID) {
		return fmt.Errorf("UpdateNote: %w", storage.ErrConflict)
	}
	existing.Title = n.Title
	existing.Text = n.Text
	existing.Slug = n.Slug
	s.notes[n.ID] = existing
	return nil
}

func (s *Store) DeleteNote(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return fmt.Errorf("DeleteNote: %w", storage.ErrNotFound)
	}
	delete(s.notes, id)
	return nil
}

func (s *Store) SlugTaken(_ context.Context, authorID int64, slug string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slugTaken(authorID, slug, excludeID), nil
}

func (s *Store) slugTaken(authorID int64, slug string, excludeID int64) bool {
	for _, n := range s.notes {
		if n.AuthorID == authorID && n.Slug == slug && n.ID != excludeID {
			return true
		}
	}
	return false
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
