package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/panvault/internal/common"
	"github.com/dmitrijs2005/panvault/internal/server/models"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type panRequest struct {
	PANCard string `json:"panCard"`
}

type accountDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    accountDTO `json:"user"`
}

type profileDTO struct {
	accountDTO
	PANCards []string `json:"panCards"`
}

func toAccountDTO(a *models.Account) accountDTO {
	return accountDTO{ID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

func (s *HTTPServer) signupHandler(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	res, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, authResponse{Success: true, Token: res.Token, User: toAccountDTO(res.Account)})
}

func (s *HTTPServer) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	res, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, authResponse{Success: true, Token: res.Token, User: toAccountDTO(res.Account)})
}

func (s *HTTPServer) meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	profile, err := s.accounts.Profile(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dto := profileDTO{accountDTO: toAccountDTO(profile.Account), PANCards: profile.PANs}
	if dto.PANCards == nil {
		dto.PANCards = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"user": dto})
}

func (s *HTTPServer) addPANHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req panRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	if err := s.accounts.AddPAN(r.Context(), claims.UserID, req.PANCard); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) removePANHandler(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req panRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, common.ErrorValidation)
		return
	}

	if err := s.accounts.RemovePAN(r.Context(), claims.UserID, req.PANCard); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) verifyPANHandler(w http.ResponseWriter, r *http.Request) {
	pan := r.URL.Query().Get("pan")

	name, ok, err := s.accounts.VerifyPAN(pan)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Name not found in registry. Please enter manually.",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "name": name})
}

func (s *HTTPServer) listAccountsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.accounts.Accounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dtos := make([]accountDTO, 0, len(list))
	for _, a := range list {
		dtos = append(dtos, toAccountDTO(a))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"accounts": dtos})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps sentinel errors to status codes. Auth failures are
// reported uniformly so the response does not reveal which part of the
// credential was wrong.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var msg string

	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorInvalidPAN):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		status = http.StatusUnauthorized
		msg = "unauthorized"
	case errors.Is(err, common.ErrorForbidden):
		status = http.StatusForbidden
		msg = "forbidden"
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorPANNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, common.ErrorAlreadyExists), errors.Is(err, common.ErrorPANExists):
		status = http.StatusConflict
		msg = err.Error()
	default:
		status = http.StatusInternalServerError
		msg = "internal error"
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	}

	s.writeJSON(w, status, map[string]string{"error": msg})
}
