package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flerr-server/internal/domain/model"
	"flerr-server/internal/domain/ports/repository"
	"flerr-server/internal/usecase"
)

type promoRequest struct {
	Code string `json:"code"`
}

// promoPreviewDTO is the nested promoCode object in a validate response:
// enough for the client to describe what the code grants, nothing about
// usage counters or notes.
type promoPreviewDTO struct {
	Code   string     `json:"code"`
	Scope  string     `json:"scope"`
	Course *courseDTO `json:"course,omitempty"`
}

type promoValidateResponse struct {
	Valid     bool             `json:"valid"`
	PromoCode *promoPreviewDTO `json:"promoCode,omitempty"`
}

func (s *Server) handleValidatePromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	pc, course, err := s.promoUC.Validate(r.Context(), claimsFrom(r.Context()).UserID, req.Code)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	preview := &promoPreviewDTO{Code: pc.Code, Scope: string(pc.Scope)}
	if course != nil {
		dto := toCourseDTO(course)
		preview.Course = &dto
	}
	writeJSON(w, http.StatusOK, promoValidateResponse{Valid: true, PromoCode: preview})
}

type promoActivateResponse struct {
	Message string     `json:"message"`
	Scope   string     `json:"scope"`
	Course  *courseDTO `json:"course,omitempty"`
}

func (s *Server) handleActivatePromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	res, err := s.promoUC.Activate(r.Context(), claimsFrom(r.Context()).UserID, req.Code, clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	resp := promoActivateResponse{Message: "promo code activated", Scope: string(res.Scope)}
	if res.Course != nil {
		dto := toCourseDTO(res.Course)
		resp.Course = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

type promoCreateRequest struct {
	Code      string     `json:"code"`
	Scope     string     `json:"scope"`
	CourseID  *string    `json:"courseId"`
	MaxUses   int        `json:"maxUses"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsActive  *bool      `json:"isActive"`
	Notes     string     `json:"notes"`
}

func (s *Server) handleCreatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req promoCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	pc, err := s.promoUC.Create(r.Context(), usecase.PromoCreateInput{
		Code:      req.Code,
		Scope:     model.PromoScope(req.Scope),
		CourseID:  req.CourseID,
		MaxUses:   req.MaxUses,
		ExpiresAt: req.ExpiresAt,
		IsActive:  active,
		Notes:     req.Notes,
		CreatedBy: claimsFrom(r.Context()).UserID,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPromoCodeDTO(pc))
}

type promoUpdateRequest struct {
	MaxUses     *int       `json:"maxUses"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	ClearExpiry bool       `json:"clearExpiry"`
	IsActive    *bool      `json:"isActive"`
	Notes       *string    `json:"notes"`
}

func (s *Server) handleUpdatePromoCode(w http.ResponseWriter, r *http.Request) {
	var req promoUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	pc, err := s.promoUC.Update(r.Context(), chi.URLParam(r, "id"), usecase.PromoPatch{
		MaxUses:     req.MaxUses,
		ExpiresAt:   req.ExpiresAt,
		ClearExpiry: req.ClearExpiry,
		IsActive:    req.IsActive,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPromoCodeDTO(pc))
}

func (s *Server) handleDeletePromoCode(w http.ResponseWriter, r *http.Request) {
	if err := s.promoUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetPromoCode(w http.ResponseWriter, r *http.Request) {
	pc, err := s.promoUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toPromoCodeDTO(pc))
}

func (s *Server) handleListPromoCodes(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	f := repository.PromoCodeFilter{Scope: model.PromoScope(r.URL.Query().Get("scope"))}
	if v := r.URL.Query().Get("active"); v != "" {
		active := v == "true"
		f.IsActive = &active
	}
	codes, total, err := s.promoUC.List(r.Context(), f, offset, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	items := make([]promoCodeDTO, 0, len(codes))
	for _, pc := range codes {
		items = append(items, toPromoCodeDTO(pc))
	}
	writeJSON(w, http.StatusOK, pageDTO{Items: items, Total: total})
}

func (s *Server) handleListActivations(w http.ResponseWriter, r *http.Request) {
	offset, limit := pagination(r)
	acts, total, err := s.promoUC.ListActivations(r.Context(), offset, limit)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	items := make([]activationDTO, 0, len(acts))
	for _, a := range acts {
		items = append(items, toActivationDTO(a))
	}
	writeJSON(w, http.StatusOK, pageDTO{Items: items, Total: total})
}
