package v1

import (
	"fmt"
	"io"
	"net/http"

	"candidate-boutique/internal/delivery/http/response"
	"candidate-boutique/internal/domain"
	"candidate-boutique/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrationUC domain.RegistrationUsecase
	cvMaxBytes     int64
}

func NewRegistrationHandler(public, admin *gin.RouterGroup, registrationUC domain.RegistrationUsecase, cvMaxBytes int) {
	handler := &RegistrationHandler{registrationUC: registrationUC, cvMaxBytes: int64(cvMaxBytes)}

	registrations := public.Group("/registrations")
	{
		registrations.POST("/candidates", handler.SubmitCandidate)
		registrations.POST("/recruiters", handler.SubmitRecruiter)
	}

	review := admin.Group("/registrations")
	{
		review.GET("/candidates", handler.ListCandidates)
		review.GET("/candidates/:id/cv", handler.CandidateCV)
		review.POST("/candidates/:id/approve", handler.ApproveCandidate)
		review.POST("/candidates/:id/reject", handler.RejectCandidate)

		review.GET("/recruiters", handler.ListRecruiters)
		review.POST("/recruiters/:id/approve", handler.ApproveRecruiter)
		review.POST("/recruiters/:id/reject", handler.RejectRecruiter)
	}
}

// SubmitCandidate godoc
// @Summary      Submit a candidate registration
// @Tags         registrations
// @Accept       multipart/form-data
// @Produce      json
// @Param        full_name       formData  string  true   "Full name"
// @Param        email           formData  string  true   "Email"
// @Param        specialization  formData  string  true   "Specialization"
// @Param        experience      formData  string  true   "Experience"
// @Param        linkedin_url    formData  string  false  "LinkedIn profile"
// @Param        source          formData  string  false  "How did you hear about us"
// @Param        message         formData  string  false  "Message"
// @Param        cv              formData  file    true   "CV (PDF)"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /registrations/candidates [post]
func (h *RegistrationHandler) SubmitCandidate(c *gin.Context) {
	// room for the form fields on top of the file
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cvMaxBytes+1<<20)

	var form domain.CandidateRegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		c.Error(bindError(err))
		return
	}

	fh, err := c.FormFile("cv")
	if err != nil {
		c.Error(apperror.BadRequest("CV file is required"))
		return
	}
	if fh.Size > h.cvMaxBytes {
		c.Error(apperror.BadRequest(fmt.Sprintf("CV file must not exceed %d MB", h.cvMaxBytes>>20)))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read CV file"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.cvMaxBytes+1))
	if err != nil {
		c.Error(apperror.BadRequest("Could not read CV file"))
		return
	}

	reg, err := h.registrationUC.SubmitCandidateRegistration(c.Request.Context(), form, domain.CVUpload{Filename: fh.Filename, Data: data})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration submitted", gin.H{"id": reg.ID})
}

// SubmitRecruiter godoc
// @Summary      Submit a recruiter (company) registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RecruiterRegistrationForm  true  "Company details"
// @Success      201   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /registrations/recruiters [post]
func (h *RegistrationHandler) SubmitRecruiter(c *gin.Context) {
	var form domain.RecruiterRegistrationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(bindError(err))
		return
	}
	reg, err := h.registrationUC.SubmitRecruiterRegistration(c.Request.Context(), form)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration submitted", gin.H{"id": reg.ID})
}

// ListCandidates godoc
// @Summary      List candidate registrations
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status     query  string  false  "pending, accepted or rejected"
// @Param        page       query  int     false  "Page number"
// @Param        page_size  query  int     false  "Items per page"
// @Success      200  {object}  response.Response
// @Router       /admin/registrations/candidates [get]
func (h *RegistrationHandler) ListCandidates(c *gin.Context) {
	var filter domain.RegistrationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(bindError(err))
		return
	}
	page, err := h.registrationUC.ListCandidateRegistrations(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate registrations", page)
}

// CandidateCV godoc
// @Summary      Get a short-lived CV download link
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Registration ID"
// @Success      200  {object}  response.Response
// @Router       /admin/registrations/candidates/{id}/cv [get]
func (h *RegistrationHandler) CandidateCV(c *gin.Context) {
	id, ok := pathID(c, "id", "Registration not found")
	if !ok {
		return
	}
	url, err := h.registrationUC.GetCandidateRegistrationCV(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "CV link", gin.H{"url": url})
}

// ApproveCandidate godoc
// @Summary      Approve a candidate registration
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Registration ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      409  {object}  response.Response
// @Router       /admin/registrations/candidates/{id}/approve [post]
func (h *RegistrationHandler) ApproveCandidate(c *gin.Context) {
	id, ok := pathID(c, "id", "Registration not found")
	if !ok {
		return
	}
	candidate, err := h.registrationUC.ApproveCandidateRegistration(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Registration approved", candidate)
}

// RejectCandidate godoc
// @Summary      Reject a candidate registration
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Registration ID"
// @Param        body  body      domain.RejectInput  false  "Reason"
// @Success      200   {object}  response.Response
// @Router       /admin/registrations/candidates/{id}/reject [post]
func (h *RegistrationHandler) RejectCandidate(c *gin.Context) {
	id, ok := pathID(c, "id", "Registration not found")
	if !ok {
		return
	}
	input, ok := bindReject(c)
	if !ok {
		return
	}
	if err := h.registrationUC.RejectCandidateRegistration(c.Request.Context(), id, input.Reason); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Registration rejected", nil)
}

// ListRecruiters godoc
// @Summary      List recruiter registrations
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "pending, accepted or rejected"
// @Success      200  {object}  response.Response
// @Router       /admin/registrations/recruiters [get]
func (h *RegistrationHandler) ListRecruiters(c *gin.Context) {
	var filter domain.RegistrationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(bindError(err))
		return
	}
	page, err := h.registrationUC.ListRecruiterRegistrations(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter registrations", page)
}

// ApproveRecruiter godoc
// @Summary      Approve a recruiter registration and send an invitation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Registration ID"
// @Success      200  {object}  response.Response{data=domain.Invitation}
// @Router       /admin/registrations/recruiters/{id}/approve [post]
func (h *RegistrationHandler) ApproveRecruiter(c *gin.Context) {
	id, ok := pathID(c, "id", "Registration not found")
	if !ok {
		return
	}
	inv, err := h.registrationUC.ApproveRecruiterRegistration(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Registration approved, invitation sent", inv)
}

// RejectRecruiter godoc
// @Summary      Reject a recruiter registration
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true   "Registration ID"
// @Param        body  body      domain.RejectInput  false  "Reason"
// @Success      200   {object}  response.Response
// @Router       /admin/registrations/recruiters/{id}/reject [post]
func (h *RegistrationHandler) RejectRecruiter(c *gin.Context) {
	id, ok := pathID(c, "id", "Registration not found")
	if !ok {
		return
	}
	input, ok := bindReject(c)
	if !ok {
		return
	}
	if err := h.registrationUC.RejectRecruiterRegistration(c.Request.Context(), id, input.Reason); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Registration rejected", nil)
}

// bindReject accepts an empty body.
func bindReject(c *gin.Context) (domain.RejectInput, bool) {
	var input domain.RejectInput
	if c.Request.ContentLength == 0 {
		return input, true
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(bindError(err))
		return input, false
	}
	return input, true
}
