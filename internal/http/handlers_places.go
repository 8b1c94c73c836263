package http

import (
	"net/http"
	"time"

	"github.com/coder-dipesh/equilo/internal/core"
)

type placeResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func toPlaceResponse(p *core.Place) placeResponse {
	return placeResponse{ID: p.ID, Name: p.Name, CreatedBy: p.CreatedBy, CreatedAt: p.CreatedAt}
}

type memberResponse struct {
	UserID      int64           `json:"user_id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name"`
	Role        core.MemberRole `json:"role"`
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := s.svc.ListPlaces(r.Context(), currentUserID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]placeResponse, 0, len(places))
	for i := range places {
		out = append(out, toPlaceResponse(&places[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	place, err := s.svc.CreatePlace(r.Context(), currentUserID(r), req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPlaceResponse(place))
}

func (s *Server) handleGetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	place, err := s.svc.GetPlace(r.Context(), currentUserID(r), placeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaceResponse(place))
}

func (s *Server) handleRenamePlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	place, err := s.svc.RenamePlace(r.Context(), currentUserID(r), placeID, req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaceResponse(place))
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	if err := s.svc.DeletePlace(r.Context(), currentUserID(r), placeID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	members, err := s.svc.ListMembers(r.Context(), currentUserID(r), placeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse{
			UserID:      m.User.ID,
			Username:    m.User.Username,
			DisplayName: m.User.DisplayName,
			Role:        m.Role,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	targetID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := s.svc.RemoveMember(r.Context(), currentUserID(r), placeID, targetID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	categories, err := s.svc.ListCategories(r.Context(), currentUserID(r), placeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryResponse{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := s.svc.CreateCategory(r.Context(), currentUserID(r), placeID, req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, categoryResponse{ID: category.ID, Name: category.Name})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	category, err := s.svc.GetCategory(r.Context(), currentUserID(r), placeID, categoryID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categoryResponse{ID: category.ID, Name: category.Name})
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := s.svc.RenameCategory(r.Context(), currentUserID(r), placeID, categoryID, req.Name)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categoryResponse{ID: category.ID, Name: category.Name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.svc.DeleteCategory(r.Context(), currentUserID(r), placeID, categoryID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
