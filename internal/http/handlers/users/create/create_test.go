package create

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) CreateUser(ctx context.Context, req models.DummyUser) (*models.User, bool, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Bool(1), args.Error(2)
	}
	return nil, false, args.Error(2)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	user := &models.User{Email: "a@x.com", Name: "A", Role: models.RoleUser}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "new user",
			body: `{"name":"A","email":"a@x.com","photo":"https://img.example/a.png"}`,
			setupMock: func(m *MockService) {
				m.On("CreateUser", mock.Anything, models.DummyUser{Name: "A", Email: "a@x.com", Photo: "https://img.example/a.png"}).
					Return(user, true, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"created":true`,
		},
		{
			name: "existing user",
			body: `{"name":"A","email":"a@x.com"}`,
			setupMock: func(m *MockService) {
				m.On("CreateUser", mock.Anything, mock.Anything).Return(user, false, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"created":false`,
		},
		{
			name:           "invalid email",
			body:           `{"name":"A","email":"nope"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `must be a valid email`,
		},
		{
			name:           "not json",
			body:           `hello`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name: "storage down",
			body: `{"name":"A","email":"a@x.com"}`,
			setupMock: func(m *MockService) {
				m.On("CreateUser", mock.Anything, mock.Anything).Return(nil, false, models.ErrUnavailable).Once()
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"kind":"unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
