// Package testutil provides hand-written mocks for the domain repository
// and client interfaces.
package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caloria-app/caloria-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID    map[uuid.UUID]*domain.User
	ByEmail map[string]*domain.User

	CreateFn     func(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateFn     func(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:    make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	m.AddUser(&created)
	return &created, nil
}

// Update updates an existing user
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	existing, ok := m.ByID[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(m.ByEmail, existing.Email)
	updated := *user
	updated.UpdatedAt = time.Now().UTC()
	m.AddUser(&updated)
	return &updated, nil
}

// UpdateTargetCalories updates only the target calories field
func (m *MockUserRepository) UpdateTargetCalories(ctx context.Context, id uuid.UUID, targetCalories int) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	updated := *user
	updated.TargetCalories = &targetCalories
	updated.UpdatedAt = time.Now().UTC()
	m.AddUser(&updated)
	return &updated, nil
}

// MockRefreshTokenRepository is a mock implementation of domain.RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mu     sync.Mutex
	Tokens map[uuid.UUID]*domain.RefreshToken

	UpsertFn func(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	DeleteFn func(ctx context.Context, userID uuid.UUID) error
	FindFn   func(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error)
}

// NewMockRefreshTokenRepository creates a new MockRefreshTokenRepository
func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{
		Tokens: make(map[uuid.UUID]*domain.RefreshToken),
	}
}

// Upsert stores or replaces the user's refresh token
func (m *MockRefreshTokenRepository) Upsert(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, userID, token, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[userID] = &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// FindByUser retrieves the user's refresh token
func (m *MockRefreshTokenRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if token, ok := m.Tokens[userID]; ok {
		return token, nil
	}
	return nil, domain.ErrRefreshTokenNotFound
}

// DeleteByUser removes the user's refresh token
func (m *MockRefreshTokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Tokens, userID)
	return nil
}

// MockDiaryRepository is a mock implementation of domain.DiaryRepository
type MockDiaryRepository struct {
	Diaries map[uuid.UUID]*domain.Diary

	CreateFn func(ctx context.Context, diary *domain.Diary) (*domain.Diary, error)
}

// NewMockDiaryRepository creates a new MockDiaryRepository
func NewMockDiaryRepository() *MockDiaryRepository {
	return &MockDiaryRepository{
		Diaries: make(map[uuid.UUID]*domain.Diary),
	}
}

// AddDiary adds a diary entry to the mock repository (helper for tests)
func (m *MockDiaryRepository) AddDiary(diary *domain.Diary) {
	m.Diaries[diary.ID] = diary
}

// Create creates a new diary entry
func (m *MockDiaryRepository) Create(ctx context.Context, diary *domain.Diary) (*domain.Diary, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, diary)
	}
	created := *diary
	created.ID = uuid.New()
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	m.Diaries[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a diary entry by ID
func (m *MockDiaryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Diary, error) {
	if diary, ok := m.Diaries[id]; ok {
		return diary, nil
	}
	return nil, domain.ErrDiaryNotFound
}

// GetByUser retrieves all diary entries for a user
func (m *MockDiaryRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Diary, error) {
	diaries := []*domain.Diary{}
	for _, diary := range m.Diaries {
		if diary.UserID == userID {
			diaries = append(diaries, diary)
		}
	}
	return diaries, nil
}

// GetByPeriod retrieves a user's diary entries within a time range
func (m *MockDiaryRepository) GetByPeriod(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Diary, error) {
	diaries := []*domain.Diary{}
	for _, diary := range m.Diaries {
		if diary.UserID == userID && !diary.CreatedAt.Before(start) && !diary.CreatedAt.After(end) {
			diaries = append(diaries, diary)
		}
	}
	return diaries, nil
}

// Update updates a diary entry
func (m *MockDiaryRepository) Update(ctx context.Context, diary *domain.Diary) (*domain.Diary, error) {
	if _, ok := m.Diaries[diary.ID]; !ok {
		return nil, domain.ErrDiaryNotFound
	}
	updated := *diary
	updated.UpdatedAt = time.Now().UTC()
	m.Diaries[updated.ID] = &updated
	return &updated, nil
}

// Delete removes a diary entry
func (m *MockDiaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.Diaries[id]; !ok {
		return domain.ErrDiaryNotFound
	}
	delete(m.Diaries, id)
	return nil
}

// MockVisionAnalyzer is a mock implementation of domain.VisionAnalyzer
type MockVisionAnalyzer struct {
	AnalyzeFn func(ctx context.Context, image domain.FoodImage, description string) (*domain.FoodAnalysis, error)
	Calls     int
}

// AnalyzeFood analyzes a food image
func (m *MockVisionAnalyzer) AnalyzeFood(ctx context.Context, image domain.FoodImage, description string) (*domain.FoodAnalysis, error) {
	m.Calls++
	if m.AnalyzeFn != nil {
		return m.AnalyzeFn(ctx, image, description)
	}
	return &domain.FoodAnalysis{
		Ingredients:   []string{"rice"},
		TotalCalories: 200,
		Breakdown:     map[string]float64{"rice": 200},
	}, nil
}

// MockAssistantClient is a mock implementation of domain.AssistantClient
type MockAssistantClient struct {
	SingleFn func(ctx context.Context, prompt string) (*domain.AssistantResponse, error)
	StreamFn func(ctx context.Context, prompt string) (<-chan domain.AssistantResponse, <-chan error)
}

// SingleResponse returns a complete assistant reply
func (m *MockAssistantClient) SingleResponse(ctx context.Context, prompt string) (*domain.AssistantResponse, error) {
	if m.SingleFn != nil {
		return m.SingleFn(ctx, prompt)
	}
	return &domain.AssistantResponse{Content: "mock response"}, nil
}

// StreamResponse streams an assistant reply
func (m *MockAssistantClient) StreamResponse(ctx context.Context, prompt string) (<-chan domain.AssistantResponse, <-chan error) {
	if m.StreamFn != nil {
		return m.StreamFn(ctx, prompt)
	}
	out := make(chan domain.AssistantResponse, 1)
	errCh := make(chan error, 1)
	out <- domain.AssistantResponse{Content: "mock response"}
	close(out)
	close(errCh)
	return out, errCh
}

// MockImageStore is an in-memory implementation of storage.ImageRepository
type MockImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte

	UploadErr error
	DeleteErr error
}

// NewMockImageStore creates a new MockImageStore
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory
func (m *MockImageStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes the object from memory
func (m *MockImageStore) Delete(ctx context.Context, objectPath string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake presigned URL for the object
func (m *MockImageStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}
