package web

import (
	"net/http"

	"flerr-server/internal/domain"
	"flerr-server/internal/domain/model"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type tokenResponse struct {
	User        userDTO `json:"user"`
	AccessToken string  `json:"accessToken"`
}

func (s *Server) issueSession(w http.ResponseWriter, user *model.User, status int) {
	access, err := s.auth.IssueAccess(user)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	refresh, err := s.auth.IssueRefresh(user)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	s.auth.SetRefreshCookie(w, refresh)
	writeJSON(w, status, tokenResponse{User: toUserDTO(user), AccessToken: access})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.authUC.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	s.issueSession(w, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	s.issueSession(w, user, http.StatusOK)
}

// handleRefresh rotates the session from the refresh cookie. The user is
// reloaded so role changes and deletions take effect at most one access-token
// lifetime late.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeError(w, s.log, domain.ErrInvalidToken)
		return
	}
	claims, err := s.auth.ParseRefresh(cookie.Value)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.authUC.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, s.log, domain.ErrInvalidToken)
		return
	}
	s.issueSession(w, user, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.ClearRefreshCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.authUC.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.authUC.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.authUC.Me(r.Context(), claimsFrom(r.Context()).UserID)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}
