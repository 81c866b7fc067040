package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clube/internal/core"
)

// MemberDraft carries the operator-supplied fields for a registration or an
// update. Age never appears here: it is always derived from the birth date.
type MemberDraft struct {
	Name          string
	BirthDate     string // YYYY-MM-DD
	Unit          string
	Class         string
	Specialties   []string
	Phone         string
	Email         string
	Address       string
	GuardianName  string
	GuardianPhone string
}

// MemberPage is one page of the member listing.
type MemberPage struct {
	Members  []core.Member
	Total    int
	Page     int
	PerPage  int
	LastPage int
}

// Registry manages member records.
type Registry struct {
	store   MemberStore
	perPage int
	now     func() time.Time
}

func NewRegistry(store MemberStore, perPage int) *Registry {
	return &Registry{store: store, perPage: perPage, now: time.Now}
}

// Register validates the draft, derives the age and inserts an active member.
func (s *Registry) Register(ctx context.Context, draft MemberDraft) (core.Member, error) {
	member, err := s.memberFromDraft(draft)
	if err != nil {
		return core.Member{}, err
	}

	created, err := s.store.CreateMember(ctx, member)
	if err != nil {
		return core.Member{}, fmt.Errorf("register member: %w", err)
	}
	return created, nil
}

// Update revalidates the draft and recomputes the age, the only moments the
// stored age snapshot changes.
func (s *Registry) Update(ctx context.Context, id int64, draft MemberDraft) (core.Member, error) {
	member, err := s.memberFromDraft(draft)
	if err != nil {
		return core.Member{}, err
	}
	member.ID = id

	updated, err := s.store.UpdateMember(ctx, member)
	if err != nil {
		return core.Member{}, fmt.Errorf("update member %d: %w", id, err)
	}
	return updated, nil
}

// Deactivate flips the member inactive. Calling it twice is a no-op.
func (s *Registry) Deactivate(ctx context.Context, id int64) error {
	if err := s.store.DeactivateMember(ctx, id); err != nil {
		return fmt.Errorf("deactivate member %d: %w", id, err)
	}
	return nil
}

func (s *Registry) Get(ctx context.Context, id int64) (core.Member, error) {
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		return core.Member{}, fmt.Errorf("get member %d: %w", id, err)
	}
	return m, nil
}

// List returns one page of active members ordered by name. The search term
// is a case-sensitive name substring.
func (s *Registry) List(ctx context.Context, search string, page int) (MemberPage, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.perPage

	members, total, err := s.store.ListMembers(ctx, search, s.perPage, offset)
	if err != nil {
		return MemberPage{}, fmt.Errorf("list members: %w", err)
	}

	lastPage := (total + s.perPage - 1) / s.perPage
	if lastPage < 1 {
		lastPage = 1
	}

	slog.DebugContext(ctx, "Members listed",
		"search", search, "page", page, "total", total)

	return MemberPage{
		Members:  members,
		Total:    total,
		Page:     page,
		PerPage:  s.perPage,
		LastPage: lastPage,
	}, nil
}

func (s *Registry) memberFromDraft(draft MemberDraft) (core.Member, error) {
	birth, err := time.Parse("2006-01-02", strings.TrimSpace(draft.BirthDate))
	if err != nil {
		return core.Member{}, core.ErrInvalidBirthDate
	}

	member := core.Member{
		Name:          strings.TrimSpace(draft.Name),
		BirthDate:     birth,
		Age:           core.ComputeAge(birth, s.now().UTC()),
		Unit:          strings.TrimSpace(draft.Unit),
		Class:         strings.TrimSpace(draft.Class),
		Specialties:   draft.Specialties,
		Phone:         strings.TrimSpace(draft.Phone),
		Email:         strings.TrimSpace(draft.Email),
		Address:       strings.TrimSpace(draft.Address),
		GuardianName:  strings.TrimSpace(draft.GuardianName),
		GuardianPhone: strings.TrimSpace(draft.GuardianPhone),
	}
	if member.Specialties == nil {
		member.Specialties = []string{}
	}
	if err := member.Validate(); err != nil {
		return core.Member{}, err
	}
	return member, nil
}
