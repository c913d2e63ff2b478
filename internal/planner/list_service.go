package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/expointel/internal/application"
	"github.com/example/expointel/internal/persistence"
)

const namedListLimit = 500

// ListService manages the planner's named shortlist collections. Membership
// is set-like but ordered: adds append, re-adds are no-ops, and explicit
// reorders must permute the current members.
type ListService struct {
	lists       persistence.ExhibitorListRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewListService constructs a ListService with the provided dependencies.
func NewListService(lists persistence.ExhibitorListRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ListService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListService{
		lists:       lists,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateList stores a new empty named list.
func (s *ListService) CreateList(ctx context.Context, principal application.Principal, params CreateListParams) (persistence.ExhibitorList, error) {
	vErr := &application.ValidationError{}
	if params.ExpoID == "" {
		vErr.FieldErrors = map[string]string{"expo_id": "expo_id is required"}
		return persistence.ExhibitorList{}, vErr
	}
	name := params.Name
	if name == "" {
		name = "My Shortlist"
	}

	list := persistence.ExhibitorList{
		ID:           s.idGenerator(),
		UserID:       principal.UserID,
		ExpoID:       params.ExpoID,
		Name:         name,
		ExhibitorIDs: []string{},
		CreatedAt:    s.now().UTC(),
	}
	if err := s.lists.CreateList(ctx, list); err != nil {
		return persistence.ExhibitorList{}, fmt.Errorf("failed to create list: %w", err)
	}

	s.logger.InfoContext(ctx, "list created", "service", "ListService", "list_id", list.ID)
	return list, nil
}

// ListLists returns the caller's named lists.
func (s *ListService) ListLists(ctx context.Context, principal application.Principal, expoID string) ([]persistence.ExhibitorList, error) {
	lists, err := s.lists.ListLists(ctx, principal.UserID, expoID, namedListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlists: %w", err)
	}
	return lists, nil
}

// AddExhibitor appends an exhibitor to an owned list. Adding a member that is
// already present is a no-op.
func (s *ListService) AddExhibitor(ctx context.Context, principal application.Principal, listID, exhibitorID string) error {
	if exhibitorID == "" {
		return &application.ValidationError{FieldErrors: map[string]string{"exhibitor_id": "exhibitor_id is required"}}
	}

	list, err := s.loadOwned(ctx, principal, listID)
	if err != nil {
		return err
	}

	for _, member := range list.ExhibitorIDs {
		if member == exhibitorID {
			return nil
		}
	}

	members := append(list.ExhibitorIDs, exhibitorID)
	if err := s.lists.UpdateListMembers(ctx, listID, principal.UserID, members); err != nil {
		return fmt.Errorf("failed to add exhibitor: %w", err)
	}
	return nil
}

// RemoveExhibitor removes an exhibitor from an owned list. Removing an absent
// member is a no-op.
func (s *ListService) RemoveExhibitor(ctx context.Context, principal application.Principal, listID, exhibitorID string) error {
	list, err := s.loadOwned(ctx, principal, listID)
	if err != nil {
		return err
	}

	members := make([]string, 0, len(list.ExhibitorIDs))
	for _, member := range list.ExhibitorIDs {
		if member != exhibitorID {
			members = append(members, member)
		}
	}
	if len(members) == len(list.ExhibitorIDs) {
		return nil
	}

	if err := s.lists.UpdateListMembers(ctx, listID, principal.UserID, members); err != nil {
		return fmt.Errorf("failed to remove exhibitor: %w", err)
	}
	return nil
}

// Reorder replaces the member order of an owned list. The submitted sequence
// must be an exact permutation of the current members.
func (s *ListService) Reorder(ctx context.Context, principal application.Principal, listID string, exhibitorIDs []string) error {
	list, err := s.loadOwned(ctx, principal, listID)
	if err != nil {
		return err
	}

	if !isPermutation(list.ExhibitorIDs, exhibitorIDs) {
		return &application.ValidationError{FieldErrors: map[string]string{
			"exhibitor_ids": "submitted order must contain exactly the current members",
		}}
	}

	if err := s.lists.UpdateListMembers(ctx, listID, principal.UserID, exhibitorIDs); err != nil {
		return fmt.Errorf("failed to reorder list: %w", err)
	}
	return nil
}

// DeleteList removes an owned list.
func (s *ListService) DeleteList(ctx context.Context, principal application.Principal, listID string) error {
	if err := s.lists.DeleteList(ctx, listID, principal.UserID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

func (s *ListService) loadOwned(ctx context.Context, principal application.Principal, listID string) (persistence.ExhibitorList, error) {
	list, err := s.lists.GetList(ctx, listID, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.ExhibitorList{}, application.ErrNotFound
		}
		return persistence.ExhibitorList{}, fmt.Errorf("failed to load list: %w", err)
	}
	return list, nil
}

func isPermutation(current, submitted []string) bool {
	if len(current) != len(submitted) {
		return false
	}
	counts := make(map[string]int, len(current))
	for _, member := range current {
		counts[member]++
	}
	for _, member := range submitted {
		counts[member]--
		if counts[member] < 0 {
			return false
		}
	}
	return true
}
