package get

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsroom/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) Get(ctx context.Context, id string, viewer *models.Identity) (*models.Article, error) {
	args := m.Called(ctx, id, viewer)
	if res := args.Get(0); res != nil {
		return res.(*models.Article), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGetHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := uuid.NewString()
	reader := models.Identity{Email: "r@x.com", Role: models.RoleUser}

	tests := []struct {
		name           string
		id             string
		identity       *models.Identity
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "anonymous reader",
			id:   id,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id, (*models.Identity)(nil)).
					Return(&models.Article{ID: id, Title: "A", Views: 1}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"views":1`,
		},
		{
			name:     "viewer forwarded",
			id:       id,
			identity: &reader,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id, &reader).Return(&models.Article{ID: id}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   id,
		},
		{
			name:     "premium without subscription",
			id:       id,
			identity: &reader,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id, &reader).Return(nil, models.ErrPremiumRequired).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"kind":"premium_required"`,
		},
		{
			name: "missing",
			id:   id,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, id, mock.Anything).Return(nil, models.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"kind":"not_found"`,
		},
		{
			name:           "malformed id",
			id:             "42",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid article id`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/articles/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.identity != nil {
				ctx = middlewarectx.WithIdentity(ctx, *tt.identity)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
