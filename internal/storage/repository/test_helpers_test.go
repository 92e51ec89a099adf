package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/newsroom/internal/migrations"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, email, role string, premiumValid *time.Time) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO users (email, name, photo, role, premium_valid)
		VALUES ($1, $2, $3, $4, $5)`,
		email, "Test "+email, "https://img.example/"+email, role, premiumValid)
	require.NoError(t, err)
}

// CreateArticle создает тестовую статью в заданном статусе и возвращает её id
func (f *TestDataFactory) CreateArticle(t *testing.T, title, authorEmail string, status models.ArticleStatus,
	publisher string, tags []string) string {
	t.Helper()
	if tags == nil {
		tags = []string{}
	}
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO articles (title, publisher, tags, author_email, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id::text`,
		title, publisher, tags, authorEmail, string(status)).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyViews проверяет счётчик просмотров статьи
func (v *TestVerification) VerifyViews(t *testing.T, id string, expected int64) {
	t.Helper()
	var views int64
	require.NoError(t, v.storage.DB.QueryRow("SELECT views FROM articles WHERE id = $1", id).Scan(&views))
	require.Equal(t, expected, views)
}

// VerifyArticleStatus проверяет статус статьи
func (v *TestVerification) VerifyArticleStatus(t *testing.T, id string, expected models.ArticleStatus) {
	t.Helper()
	var status string
	require.NoError(t, v.storage.DB.QueryRow("SELECT status FROM articles WHERE id = $1", id).Scan(&status))
	require.Equal(t, string(expected), status)
}

// VerifyPremiumValidNull проверяет, что срок подписки сброшен
func (v *TestVerification) VerifyPremiumValidNull(t *testing.T, email string, expectNull bool) {
	t.Helper()
	var isNull bool
	require.NoError(t, v.storage.DB.QueryRow("SELECT premium_valid IS NULL FROM users WHERE email = $1", email).Scan(&isNull))
	require.Equal(t, expectNull, isNull)
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to apply migrations")

	return storage
}

func truncate(t *testing.T, s *Storage) {
	t.Helper()
	_, err := s.DB.Exec(`TRUNCATE articles, users`)
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }
