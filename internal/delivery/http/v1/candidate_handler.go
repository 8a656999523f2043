package v1

import (
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(protected, admin *gin.RouterGroup, candidateUC domain.CandidateUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	candidates := protected.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.GET("/:id", handler.Get)
	}

	contacts := protected.Group("/contact-requests")
	{
		contacts.POST("", handler.RequestContact)
		contacts.GET("/me", handler.MyContactRequests)
	}

	admin.PATCH("/candidates/:id", handler.Update)
	admin.GET("/candidates/export", handler.Export)
}

// List godoc
// @Summary      List candidates
// @Description  Search by name, role or skills; filter by seniority and availability
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        search        query  string  false  "Free text search"
// @Param        seniority     query  string  false  "Seniority"
// @Param        availability  query  string  false  "Availability"
// @Param        page          query  int     false  "Page number"
// @Param        page_size     query  int     false  "Items per page (max 100)"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	var filter domain.CandidateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(bindError(err))
		return
	}
	page, err := h.candidateUC.ListCandidates(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidates", page)
}

// Get godoc
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "Candidate not found")
	if !ok {
		return
	}
	candidate, err := h.candidateUC.GetCandidate(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate", candidate)
}

// RequestContact godoc
// @Summary      Ask the boutique to arrange contact with candidates
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.ContactRequestInput  true  "Selected candidates"
// @Success      201   {object}  response.Response{data=domain.ContactRequest}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /contact-requests [post]
func (h *CandidateHandler) RequestContact(c *gin.Context) {
	var input domain.ContactRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return
	}
	req, err := h.candidateUC.RequestContact(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Contact request sent", req)
}

// MyContactRequests godoc
// @Summary      List my contact requests
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.ContactRequest}
// @Router       /contact-requests/me [get]
func (h *CandidateHandler) MyContactRequests(c *gin.Context) {
	list, err := h.candidateUC.ListMyContactRequests(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Contact requests", list)
}

// Update godoc
// @Summary      Edit a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Candidate ID"
// @Param        body  body      domain.CandidatePatch  true  "Fields to change"
// @Success      200   {object}  response.Response{data=domain.Candidate}
// @Router       /admin/candidates/{id} [patch]
func (h *CandidateHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "Candidate not found")
	if !ok {
		return
	}
	var patch domain.CandidatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(bindError(err))
		return
	}
	candidate, err := h.candidateUC.UpdateCandidate(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// Export godoc
// @Summary      Export candidates to Excel
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /admin/candidates/export [get]
func (h *CandidateHandler) Export(c *gin.Context) {
	export, err := h.candidateUC.ExportCandidates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.File(c, export.Filename, export.ContentType, export.Data)
}
