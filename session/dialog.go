package session

import (
	"sort"
	"sync"

	"github.com/benleytuano/taskmap-frontend/models"
)

// MemberPicker is the state of one add-assignee or add-watcher dialog. It is
// constructed fresh when the dialog opens, holding a snapshot of the user
// directory, and discarded when it closes; no dialog state is shared.
type MemberPicker struct {
	mu       sync.Mutex
	users    []models.User
	search   string
	selected map[int64]bool
}

func NewMemberPicker(users []models.User) *MemberPicker {
	return &MemberPicker{users: users, selected: map[int64]bool{}}
}

func (p *MemberPicker) SetSearch(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = text
}

func (p *MemberPicker) Search() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.search
}

// Toggle flips a user in or out of the selection (multi-add).
func (p *MemberPicker) Toggle(userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected[userID] {
		delete(p.selected, userID)
	} else {
		p.selected[userID] = true
	}
}

// Selected returns the chosen user ids in stable order.
func (p *MemberPicker) Selected() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]int64, 0, len(p.selected))
	for id := range p.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Users returns the directory snapshot taken when the dialog opened.
func (p *MemberPicker) Users() []models.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.User, len(p.users))
	copy(out, p.users)
	return out
}
