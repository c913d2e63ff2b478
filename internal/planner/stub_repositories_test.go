package planner

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/example/expointel/internal/persistence"
)

// In-memory repository stubs mirroring the sqlite implementations closely
// enough for service-level tests.

type stubExpoRepository struct {
	mu    sync.Mutex
	expos []persistence.Expo
}

func newStubExpoRepository() *stubExpoRepository {
	return &stubExpoRepository{}
}

func (r *stubExpoRepository) CreateExpo(_ context.Context, expo persistence.Expo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expos = append(r.expos, expo)
	return nil
}

func (r *stubExpoRepository) GetExpo(_ context.Context, id string) (persistence.Expo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, expo := range r.expos {
		if expo.ID == id {
			return expo, nil
		}
	}
	return persistence.Expo{}, persistence.ErrNotFound
}

func (r *stubExpoRepository) ListExpos(_ context.Context, filter persistence.ExpoFilter, limit int) ([]persistence.Expo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]persistence.Expo, 0, len(r.expos))
	for _, expo := range r.expos {
		if filter.Region != "" && !containsFold(expo.Region, filter.Region) {
			continue
		}
		if filter.Industry != "" && !containsFold(expo.Industry, filter.Industry) {
			continue
		}
		matched = append(matched, expo)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (r *stubExpoRepository) CountExpos(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.expos)), nil
}

func (r *stubExpoRepository) ExpoFieldValues(_ context.Context) (persistence.ExpoFieldValues, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	values := persistence.ExpoFieldValues{}
	for _, expo := range r.expos {
		if expo.Region != "" {
			values.Regions = appendUnique(values.Regions, expo.Region)
		}
		if expo.Industry != "" {
			values.Industries = appendUnique(values.Industries, expo.Industry)
		}
	}
	sort.Strings(values.Regions)
	sort.Strings(values.Industries)
	return values, nil
}

type stubExhibitorRepository struct {
	mu         sync.Mutex
	exhibitors []persistence.Exhibitor
}

func newStubExhibitorRepository() *stubExhibitorRepository {
	return &stubExhibitorRepository{}
}

func (r *stubExhibitorRepository) CreateExhibitor(_ context.Context, exhibitor persistence.Exhibitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exhibitors = append(r.exhibitors, exhibitor)
	return nil
}

func (r *stubExhibitorRepository) CreateExhibitors(ctx context.Context, exhibitors []persistence.Exhibitor) error {
	for _, exhibitor := range exhibitors {
		if err := r.CreateExhibitor(ctx, exhibitor); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubExhibitorRepository) GetExhibitor(_ context.Context, id string) (persistence.Exhibitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, exhibitor := range r.exhibitors {
		if exhibitor.ID == id {
			return exhibitor, nil
		}
	}
	return persistence.Exhibitor{}, persistence.ErrNotFound
}

func (r *stubExhibitorRepository) ListExhibitors(_ context.Context, filter persistence.ExhibitorFilter, limit int) ([]persistence.Exhibitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]persistence.Exhibitor, 0, len(r.exhibitors))
	for _, exhibitor := range r.exhibitors {
		if filter.ExpoID != "" && exhibitor.ExpoID != filter.ExpoID {
			continue
		}
		if filter.Industry != "" && !containsFold(exhibitor.Industry, filter.Industry) {
			continue
		}
		if filter.HQ != "" && !containsFold(exhibitor.HQ, filter.HQ) {
			continue
		}
		if filter.Name != "" && !containsFold(exhibitor.Company, filter.Name) {
			continue
		}
		matched = append(matched, exhibitor)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (r *stubExhibitorRepository) CountExhibitors(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.exhibitors)), nil
}

func (r *stubExhibitorRepository) ExhibitorOptions(_ context.Context) (persistence.ExhibitorOptions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	options := persistence.ExhibitorOptions{}
	for _, exhibitor := range r.exhibitors {
		if exhibitor.HQ != "" {
			options.HQs = appendUnique(options.HQs, exhibitor.HQ)
		}
		if exhibitor.Industry != "" {
			options.Industries = appendUnique(options.Industries, exhibitor.Industry)
		}
		for _, solution := range exhibitor.Solutions {
			if solution != "" {
				options.Solutions = appendUnique(options.Solutions, solution)
			}
		}
	}
	sort.Strings(options.HQs)
	sort.Strings(options.Industries)
	sort.Strings(options.Solutions)
	return options, nil
}

type stubUserRepository struct {
	mu    sync.Mutex
	users []persistence.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{}
}

func (r *stubUserRepository) CreateUser(_ context.Context, user persistence.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return persistence.ErrDuplicate
		}
	}
	r.users = append(r.users, user)
	return nil
}

func (r *stubUserRepository) GetUser(_ context.Context, id string) (persistence.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (r *stubUserRepository) GetUserByEmail(_ context.Context, email string) (persistence.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func (r *stubUserRepository) ListUsers(_ context.Context, limit int) ([]persistence.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]persistence.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
		if len(users) == limit {
			break
		}
	}
	return users, nil
}

func (r *stubUserRepository) UpdateUserRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Role = role
			return nil
		}
	}
	return persistence.ErrNotFound
}

type stubListRepository struct {
	mu    sync.Mutex
	lists []persistence.ExhibitorList
}

func newStubListRepository() *stubListRepository {
	return &stubListRepository{}
}

func (r *stubListRepository) CreateList(_ context.Context, list persistence.ExhibitorList) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, list)
	return nil
}

func (r *stubListRepository) GetList(_ context.Context, id, userID string) (persistence.ExhibitorList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, list := range r.lists {
		if list.ID == id && list.UserID == userID {
			return list, nil
		}
	}
	return persistence.ExhibitorList{}, persistence.ErrNotFound
}

func (r *stubListRepository) ListLists(_ context.Context, userID, expoID string, limit int) ([]persistence.ExhibitorList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]persistence.ExhibitorList, 0, len(r.lists))
	for _, list := range r.lists {
		if list.UserID != userID {
			continue
		}
		if expoID != "" && list.ExpoID != expoID {
			continue
		}
		matched = append(matched, list)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (r *stubListRepository) UpdateListMembers(_ context.Context, id, userID string, exhibitorIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.lists {
		if r.lists[i].ID == id && r.lists[i].UserID == userID {
			r.lists[i].ExhibitorIDs = append([]string(nil), exhibitorIDs...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *stubListRepository) DeleteList(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.lists {
		if r.lists[i].ID == id && r.lists[i].UserID == userID {
			r.lists = append(r.lists[:i], r.lists[i+1:]...)
			return nil
		}
	}
	return nil
}

type stubAgendaRepository struct {
	mu      sync.Mutex
	agendas []persistence.Agenda
}

func newStubAgendaRepository() *stubAgendaRepository {
	return &stubAgendaRepository{}
}

func (r *stubAgendaRepository) CreateAgenda(_ context.Context, agenda persistence.Agenda) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agendas = append(r.agendas, agenda)
	return nil
}

func (r *stubAgendaRepository) GetAgenda(_ context.Context, id, userID string) (persistence.Agenda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, agenda := range r.agendas {
		if agenda.ID == id && agenda.UserID == userID {
			return agenda, nil
		}
	}
	return persistence.Agenda{}, persistence.ErrNotFound
}

func (r *stubAgendaRepository) ListAgendas(_ context.Context, userID, expoID string, limit int) ([]persistence.Agenda, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]persistence.Agenda, 0, len(r.agendas))
	for _, agenda := range r.agendas {
		if agenda.UserID != userID {
			continue
		}
		if expoID != "" && agenda.ExpoID != expoID {
			continue
		}
		matched = append(matched, agenda)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (r *stubAgendaRepository) DeleteAgenda(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agendas {
		if r.agendas[i].ID == id && r.agendas[i].UserID == userID {
			r.agendas = append(r.agendas[:i], r.agendas[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubAgendaRepository) AddMeeting(_ context.Context, agendaID, userID string, meeting persistence.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agendas {
		if r.agendas[i].ID == agendaID && r.agendas[i].UserID == userID {
			r.agendas[i].Meetings = append(r.agendas[i].Meetings, meeting)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (r *stubAgendaRepository) UpdateMeeting(_ context.Context, agendaID, userID, meetingID string, patch persistence.MeetingPatch) (persistence.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agendas {
		if r.agendas[i].ID != agendaID || r.agendas[i].UserID != userID {
			continue
		}
		for j := range r.agendas[i].Meetings {
			meeting := &r.agendas[i].Meetings[j]
			if meeting.ID != meetingID {
				continue
			}
			if patch.Time != nil {
				meeting.Time = *patch.Time
			}
			if patch.Agenda != nil {
				meeting.Agenda = *patch.Agenda
			}
			if patch.Status != nil {
				meeting.Status = *patch.Status
			}
			if patch.Notes != nil {
				meeting.Notes = *patch.Notes
			}
			if patch.VisitingCard != nil {
				meeting.VisitingCard = patch.VisitingCard
			}
			if patch.VoiceNote != nil {
				meeting.VoiceNote = patch.VoiceNote
			}
			if patch.Transcript != nil {
				meeting.Transcript = patch.Transcript
			}
			if patch.ActionItems != nil {
				meeting.ActionItems = patch.ActionItems
			}
			if patch.CheckedIn != nil {
				meeting.CheckedIn = *patch.CheckedIn
			}
			return *meeting, nil
		}
		return persistence.Meeting{}, persistence.ErrNotFound
	}
	return persistence.Meeting{}, persistence.ErrNotFound
}

func containsFold(value, fragment string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(fragment))
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
