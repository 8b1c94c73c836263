package http

import (
	"net/http"
	"time"

	"github.com/coder-dipesh/equilo/internal/core"
)

type inviteResponse struct {
	ID        int64             `json:"id"`
	PlaceID   int64             `json:"place_id"`
	Token     string            `json:"token"`
	Email     string            `json:"email,omitempty"`
	Status    core.InviteStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func toInviteResponse(inv *core.PlaceInvite) inviteResponse {
	return inviteResponse{
		ID:        inv.ID,
		PlaceID:   inv.PlaceID,
		Token:     inv.Token,
		Email:     inv.Email,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt,
		ExpiresAt: inv.ExpiresAt,
	}
}

func (s *Server) handleListInvites(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	invites, err := s.svc.ListInvites(r.Context(), currentUserID(r), placeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		out = append(out, toInviteResponse(&invites[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invite, err := s.svc.CreateInvite(r.Context(), currentUserID(r), placeID, req.Email)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toInviteResponse(invite))
}

func (s *Server) handleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	inviteID, err := pathID(r, "inviteID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid invite id")
		return
	}

	if err := s.svc.RevokeInvite(r.Context(), currentUserID(r), placeID, inviteID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetInvite previews an invite. It is unauthenticated so the invited
// person can see where they are headed before registering.
func (s *Server) handleGetInvite(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.GetInvite(r.Context(), r.PathValue("token"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"place_name": view.PlaceName,
		"status":     view.Invite.Status,
		"email":      view.Invite.Email,
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	place, err := s.svc.Join(r.Context(), currentUserID(r), r.PathValue("token"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPlaceResponse(place))
}
