package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-candidate-backend/internal/delivery/http/middleware"
	v1 "go-candidate-backend/internal/delivery/http/v1"
	"go-candidate-backend/internal/domain"
	"go-candidate-backend/pkg/apperror"
	"go-candidate-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCandidateUsecase struct {
	mock.Mock
}

func (m *MockCandidateUsecase) Store(ctx context.Context, input *domain.StoreCandidateInput) (*domain.Candidate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateUsecase) Show(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateUsecase) Update(ctx context.Context, id int64, input *domain.UpdateCandidateInput) (*domain.Candidate, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateUsecase) Delete(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *MockCandidateUsecase) List(ctx context.Context, query domain.CandidateQuery) ([]domain.Candidate, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Candidate), args.Get(1).(int64), args.Error(2)
}

func setupRouter(uc domain.CandidateUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Init()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	v1.NewCandidateHandler(r.Group("/v1"), uc)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStoreHandler(t *testing.T) {
	t.Run("Created candidate comes back in the envelope", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		uc.On("Store", mock.Anything, mock.AnythingOfType("*domain.StoreCandidateInput")).
			Return(&domain.Candidate{
				ID: 1, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", FullName: "Jane Doe",
				Skills: []domain.Tag{{ID: 7, Name: "Ruby", Slug: "ruby"}},
			}, nil)

		w := perform(setupRouter(uc), http.MethodPost, "/v1/candidates",
			`{"user_id":"u1","email":"jane@example.com","first_name":"Jane","last_name":"Doe","skills":[{"name":"Ruby"}]}`)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Success bool             `json:"success"`
			Data    domain.Candidate `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Jane Doe", resp.Data.FullName)
		require.Len(t, resp.Data.Skills, 1)
		assert.Equal(t, "ruby", resp.Data.Skills[0].Slug)
	})

	t.Run("Validation failure renders the field map", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		uc.On("Store", mock.Anything, mock.Anything).
			Return(nil, apperror.Validation(map[string][]string{
				"email": {"The email field is required."},
			}))

		w := perform(setupRouter(uc), http.MethodPost, "/v1/candidates", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Success bool                `json:"success"`
			Message string              `json:"message"`
			Error   map[string][]string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "The given data was invalid.", resp.Message)
		assert.Equal(t, []string{"The email field is required."}, resp.Error["email"])
	})

	t.Run("Malformed JSON is a 400", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		w := perform(setupRouter(uc), http.MethodPost, "/v1/candidates", `{"email":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
	})
}

func TestShowHandler(t *testing.T) {
	t.Run("Unknown candidate is a 404", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		uc.On("Show", mock.Anything, int64(42)).Return(nil, apperror.NotFound("Candidate not found"))

		w := perform(setupRouter(uc), http.MethodGet, "/v1/candidates/42", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Non-numeric id is a 400", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		w := perform(setupRouter(uc), http.MethodGet, "/v1/candidates/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
	})
}

func TestUpdateHandler(t *testing.T) {
	t.Run("PATCH routes to the same update", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		uc.On("Update", mock.Anything, int64(5), mock.AnythingOfType("*domain.UpdateCandidateInput")).
			Return(&domain.Candidate{ID: 5}, nil)

		w := perform(setupRouter(uc), http.MethodPatch, "/v1/candidates/5", `{"user_id":"u1"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Empty skills array survives binding as present", func(t *testing.T) {
		uc := new(MockCandidateUsecase)
		var captured *domain.UpdateCandidateInput
		uc.On("Update", mock.Anything, int64(5), mock.Anything).
			Run(func(args mock.Arguments) { captured = args.Get(2).(*domain.UpdateCandidateInput) }).
			Return(&domain.Candidate{ID: 5}, nil)

		perform(setupRouter(uc), http.MethodPut, "/v1/candidates/5", `{"user_id":"u1","skills":[]}`)

		require.NotNil(t, captured.Skills)
		assert.Empty(t, *captured.Skills)
		assert.Nil(t, captured.FocusAreas)
	})
}

func TestDeleteHandler(t *testing.T) {
	uc := new(MockCandidateUsecase)
	uc.On("Delete", mock.Anything, int64(5)).
		Return(&domain.Candidate{ID: 5, Email: "jane@example.com"}, nil)

	w := perform(setupRouter(uc), http.MethodDelete, "/v1/candidates/5", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.Candidate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jane@example.com", resp.Data.Email)
}

func TestListHandler(t *testing.T) {
	uc := new(MockCandidateUsecase)

	var captured domain.CandidateQuery
	uc.On("List", mock.Anything, mock.AnythingOfType("domain.CandidateQuery")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.CandidateQuery) }).
		Return([]domain.Candidate{{ID: 1}}, int64(1), nil)

	w := perform(setupRouter(uc), http.MethodGet,
		"/v1/candidates?search=golang&perPage=25&page=2&willing_to_move=true&salary_min=50000", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "golang", captured.Search)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 25, captured.PerPage)
	require.NotNil(t, captured.WillingToMove)
	assert.True(t, *captured.WillingToMove)
	require.NotNil(t, captured.SalaryMin)
	assert.Equal(t, int64(50000), *captured.SalaryMin)

	var resp struct {
		Data struct {
			Total   int64 `json:"total"`
			Page    int   `json:"page"`
			PerPage int   `json:"per_page"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Page)
	assert.Equal(t, 25, resp.Data.PerPage)
}
