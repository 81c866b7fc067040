package http

import (
	"encoding/json"
	"net/http"
	"time"

	"clube/internal/core"
	"clube/internal/log"
	"clube/internal/services"
)

// memberPayload is the request body for registration and update.
type memberPayload struct {
	Name          string   `json:"name"`
	BirthDate     string   `json:"birth_date"`
	Unit          string   `json:"unit"`
	Class         string   `json:"class"`
	Specialties   []string `json:"specialties"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	GuardianName  string   `json:"guardian_name"`
	GuardianPhone string   `json:"guardian_phone"`
}

func (p memberPayload) draft() services.MemberDraft {
	return services.MemberDraft{
		Name:          sanitizeInput(p.Name),
		BirthDate:     sanitizeInput(p.BirthDate),
		Unit:          sanitizeInput(p.Unit),
		Class:         sanitizeInput(p.Class),
		Specialties:   p.Specialties,
		Phone:         sanitizeInput(p.Phone),
		Email:         sanitizeInput(p.Email),
		Address:       sanitizeInput(p.Address),
		GuardianName:  sanitizeInput(p.GuardianName),
		GuardianPhone: sanitizeInput(p.GuardianPhone),
	}
}

type memberJSON struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Age           int      `json:"age"`
	BirthDate     string   `json:"birth_date"`
	Unit          string   `json:"unit"`
	Class         string   `json:"class"`
	Specialties   []string `json:"specialties"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	Address       string   `json:"address,omitempty"`
	GuardianName  string   `json:"guardian_name,omitempty"`
	GuardianPhone string   `json:"guardian_phone,omitempty"`
	RegisteredAt  string   `json:"registered_at"`
	Active        bool     `json:"active"`
}

func toMemberJSON(m core.Member) memberJSON {
	specialties := m.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return memberJSON{
		ID:            m.ID,
		Name:          m.Name,
		Age:           m.Age,
		BirthDate:     m.BirthDate.Format("2006-01-02"),
		Unit:          m.Unit,
		Class:         m.Class,
		Specialties:   specialties,
		Phone:         m.Phone,
		Email:         m.Email,
		Address:       m.Address,
		GuardianName:  m.GuardianName,
		GuardianPhone: m.GuardianPhone,
		RegisteredAt:  m.RegisteredAt.Format(time.RFC3339),
		Active:        m.Active,
	}
}

func toMemberListJSON(members []core.Member) []memberJSON {
	out := make([]memberJSON, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberJSON(m))
	}
	return out
}

func (s *Server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var payload memberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := s.registry.Register(r.Context(), payload.draft())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Member registered",
		log.FieldMemberID, member.ID, log.FieldMemberName, member.Name, "unit", member.Unit)
	writeJSON(w, http.StatusCreated, toMemberJSON(member))
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	var payload memberPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := s.registry.Update(r.Context(), id, payload.draft())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberJSON(member))
}

func (s *Server) handleDeactivateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := s.registry.Deactivate(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Member deactivated", log.FieldMemberID, id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": false})
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	member, err := s.registry.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberJSON(member))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	search := sanitizeInput(r.URL.Query().Get("search"))
	page := parsePage(r)

	result, err := s.registry.List(r.Context(), search, page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"members":   toMemberListJSON(result.Members),
		"total":     result.Total,
		"page":      result.Page,
		"per_page":  result.PerPage,
		"last_page": result.LastPage,
	})
}

// handleMemberDues lists one member's dues history, newest period first.
func (s *Server) handleMemberDues(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if _, err := s.registry.Get(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	dues, err := s.dues.ListForMember(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"member_id": id,
		"dues":      toDueListJSON(dues),
	})
}
