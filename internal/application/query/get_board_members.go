package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/board"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET BOARD MEMBERS QUERY
// Admin panel listing of the review board.
// ══════════════════════════════════════════════════════════════════════════════

// BoardMemberDTO is a member as returned to the admin panel.
type BoardMemberDTO struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetBoardMembersResult holds all board members, sorted by name.
type GetBoardMembersResult struct {
	Members []BoardMemberDTO `json:"members"`
}

// GetBoardMembersHandler handles board member listing.
type GetBoardMembersHandler struct {
	members board.Repository
}

// NewGetBoardMembersHandler creates the handler.
func NewGetBoardMembersHandler(members board.Repository) *GetBoardMembersHandler {
	return &GetBoardMembersHandler{members: members}
}

// Handle executes the query.
func (h *GetBoardMembersHandler) Handle(ctx context.Context) (*GetBoardMembersResult, error) {
	members, err := h.members.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board members: %w", err)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].Name < members[j].Name
	})

	result := &GetBoardMembersResult{Members: make([]BoardMemberDTO, 0, len(members))}
	for _, m := range members {
		result.Members = append(result.Members, BoardMemberDTO{
			Email:     m.Email.String(),
			Name:      m.Name,
			IsAdmin:   m.IsAdmin,
			CreatedAt: m.CreatedAt,
		})
	}
	return result, nil
}
