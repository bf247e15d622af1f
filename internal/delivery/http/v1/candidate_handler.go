package v1

import (
	"net/http"
	"strconv"

	"go-candidate-backend/internal/delivery/http/response"
	"go-candidate-backend/internal/domain"
	"go-candidate-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(r *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := r.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.POST("", handler.Store)
		candidates.GET("/:id", handler.Show)
		candidates.PUT("/:id", handler.Update)
		candidates.PATCH("/:id", handler.Update)
		candidates.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List candidates
// @Description  List candidates with structured filters or free-text search, paginated
// @Tags         candidates
// @Produce      json
// @Param        search           query     string  false  "Free-text search term"
// @Param        page             query     int     false  "Page number (1-indexed)"
// @Param        perPage          query     int     false  "Page size (default 10)"
// @Param        status           query     string  false  "Filter by status"
// @Param        source           query     string  false  "Filter by source"
// @Param        user_id          query     string  false  "Filter by owning user"
// @Param        willing_to_move  query     bool    false  "Filter by willingness to move"
// @Param        salary_min       query     int     false  "Minimum salary expectation"
// @Param        salary_max       query     int     false  "Maximum salary expectation"
// @Success      200  {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "10"))

	query := domain.CandidateQuery{
		Search:        c.Query("search"),
		Status:        queryString(c, "status"),
		Source:        queryString(c, "source"),
		UserID:        queryString(c, "user_id"),
		WillingToMove: queryBool(c, "willing_to_move"),
		SalaryMin:     queryInt64(c, "salary_min"),
		SalaryMax:     queryInt64(c, "salary_max"),
		Page:          page,
		PerPage:       perPage,
	}

	candidates, total, err := h.candidateUC.List(c, query)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate list", gin.H{
		"candidates": candidates,
		"total":      total,
		"page":       page,
		"per_page":   perPage,
	})
}

// Store godoc
// @Summary      Create a candidate
// @Description  Create a candidate with optional attributes, skills, and focus areas
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        candidate  body      domain.StoreCandidateInput  true  "Candidate JSON"
// @Success      201  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates [post]
func (h *CandidateHandler) Store(c *gin.Context) {
	var input domain.StoreCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	candidate, err := h.candidateUC.Store(c, &input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate created", candidate)
}

// Show godoc
// @Summary      Get a candidate
// @Description  Get one candidate with attributes, skills, and focus areas
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) Show(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	candidate, err := h.candidateUC.Show(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate details", candidate)
}

// Update godoc
// @Summary      Update a candidate
// @Description  Apply a partial update; skills/focus_areas present in the payload fully replace the existing sets
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id         path      int                          true  "Candidate ID"
// @Param        candidate  body      domain.UpdateCandidateInput  true  "Candidate JSON"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var input domain.UpdateCandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	candidate, err := h.candidateUC.Update(c, id, &input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// Delete godoc
// @Summary      Delete a candidate
// @Description  Delete a candidate; owned attributes are removed, shared tags are detached
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	candidate, err := h.candidateUC.Delete(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate deleted", candidate)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}

func queryString(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok && value != "" {
		return &value
	}
	return nil
}

func queryBool(c *gin.Context, key string) *bool {
	if value, ok := c.GetQuery(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return &parsed
		}
	}
	return nil
}

func queryInt64(c *gin.Context, key string) *int64 {
	if value, ok := c.GetQuery(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return &parsed
		}
	}
	return nil
}
