package premium

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/newsroom/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) SetPremium(ctx context.Context, id string, premium bool) (*models.Article, error) {
	args := m.Called(ctx, id, premium)
	if res := args.Get(0); res != nil {
		return res.(*models.Article), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPremiumHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := uuid.NewString()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "turn on",
			body: `{"isPremium":true}`,
			setupMock: func(m *MockService) {
				m.On("SetPremium", mock.Anything, id, true).Return(&models.Article{ID: id, IsPremium: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isPremium":true`,
		},
		{
			name: "turn off",
			body: `{"isPremium":false}`,
			setupMock: func(m *MockService) {
				m.On("SetPremium", mock.Anything, id, false).Return(&models.Article{ID: id}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isPremium":false`,
		},
		{
			name:           "flag missing",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field IsPremium is a required field`,
		},
		{
			name: "missing article",
			body: `{"isPremium":true}`,
			setupMock: func(m *MockService) {
				m.On("SetPremium", mock.Anything, id, true).Return(nil, models.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"kind":"not_found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPut, "/admin/articles/x/premium", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
