package remove

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

func (m *MockService) Remove(ctx context.Context, editor models.Identity, id string) (int, error) {
	args := m.Called(ctx, editor, id)
	return args.Int(0), args.Error(1)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := uuid.NewString()
	caller := models.Identity{Email: "a@x.com"}

	tests := []struct {
		name           string
		deleted        int
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "deleted", deleted: 1, expectedStatus: http.StatusOK, expectedBody: `"deleted":1`},
		{name: "already gone", deleted: 0, expectedStatus: http.StatusOK, expectedBody: `"deleted":0`},
		{name: "foreign article", err: models.ErrForbidden, expectedStatus: http.StatusForbidden, expectedBody: `"kind":"forbidden"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Remove", mock.Anything, caller, id).Return(tt.deleted, tt.err).Once()

			req := httptest.NewRequest(http.MethodDelete, "/articles/"+id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithIdentity(ctx, caller))

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
