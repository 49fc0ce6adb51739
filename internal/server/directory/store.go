// Package directory is the authoritative in-memory state for users, groups
// and group membership.
//
// Users are fixed at construction. Groups and member sets are published as
// immutable snapshots behind atomic pointers: writers copy, modify and swap
// while holding the lock for their collection, and readers load the current
// snapshot without locking. A reader therefore sees each mutation either
// fully applied or not at all.
//
// Two locks guard the writers. groupsMu serialises changes to the group
// table, membersMu serialises changes to member sets. Group changes take
// both, in that order, so a member change never lands on a group being
// removed. Existence and uniqueness checks run inside the same critical
// section as the change they guard, so concurrent AddGroup calls always
// receive distinct, dense ids.
//
// Events are emitted before the lock is released: observers receive them in
// the order the changes were applied.
package directory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/server/events"
	"github.com/Jan540/account-manager/internal/server/models"
	"github.com/Jan540/account-manager/internal/server/seed"
)

// FirstGroupID is allocated when the store holds no groups.
const FirstGroupID = 1

type memberSet map[int]models.User

type group struct {
	id      int
	name    string
	members atomic.Pointer[memberSet]
}

type groupTable map[int]*group

type Store struct {
	users   map[int]models.User
	byLogin map[string]models.User

	groupsMu  sync.Mutex
	membersMu sync.Mutex
	groups    atomic.Pointer[groupTable]

	emitter events.Emitter
	now     func() time.Time
}

// New builds a store from loaded seed data. Duplicate memberships collapse.
// A nil emitter discards events.
func New(d *seed.Data, em events.Emitter) (*Store, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if em == nil {
		em = events.Discard{}
	}

	s := &Store{
		users:   make(map[int]models.User, len(d.Users)),
		byLogin: make(map[string]models.User, len(d.Users)),
		emitter: em,
		now:     time.Now,
	}
	for id, u := range d.Users {
		s.users[id] = u
		s.byLogin[u.Login] = u
	}

	table := make(groupTable, len(d.Groups))
	for id, g := range d.Groups {
		members := make(memberSet)
		for _, uid := range d.Memberships[id] {
			members[uid] = s.users[uid]
		}
		rec := &group{id: id, name: g.Name}
		rec.members.Store(&members)
		table[id] = rec
	}
	s.groups.Store(&table)

	return s, nil
}

// User returns the user with the given id.
func (s *Store) User(uid int) (models.User, bool) {
	u, ok := s.users[uid]
	return u, ok
}

// UserByLogin returns the user with the given login name.
func (s *Store) UserByLogin(login string) (models.User, bool) {
	u, ok := s.byLogin[login]
	return u, ok
}

// ListUsers returns all users ordered by last name, then first name.
func (s *Store) ListUsers() []models.User {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortUsers(out)
	return out
}

// ListGroups returns all groups ordered by name, each with its members
// ordered like ListUsers.
func (s *Store) ListGroups() []models.Group {
	table := *s.groups.Load()

	out := make([]models.Group, 0, len(table))
	for _, g := range table {
		out = append(out, g.snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Group returns a snapshot of the group with the given id.
func (s *Store) Group(gid int) (models.Group, bool) {
	g, ok := (*s.groups.Load())[gid]
	if !ok {
		return models.Group{}, false
	}
	return g.snapshot(), true
}

// AddGroup creates an empty group and returns its id, one more than the
// highest existing id.
func (s *Store) AddGroup(ctx context.Context, name string) (int, error) {
	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	current := *s.groups.Load()
	next := FirstGroupID
	for id, g := range current {
		if g.name == name {
			return 0, common.ErrDuplicateGroupName
		}
		if id >= next {
			next = id + 1
		}
	}

	rec := &group{id: next, name: name}
	empty := make(memberSet)
	rec.members.Store(&empty)

	table := current.clone()
	table[next] = rec
	s.groups.Store(&table)

	s.emit(ctx, events.Event{Kind: events.KindGroupAdded, GroupID: next, GroupName: name})
	return next, nil
}

// RemoveGroup deletes the group together with its member set.
func (s *Store) RemoveGroup(ctx context.Context, gid int) error {
	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	current := *s.groups.Load()
	rec, ok := current[gid]
	if !ok {
		return common.ErrGroupNotFound
	}

	table := current.clone()
	delete(table, gid)
	s.groups.Store(&table)

	s.emit(ctx, events.Event{Kind: events.KindGroupRemoved, GroupID: gid, GroupName: rec.name})
	return nil
}

// AddMembership puts the user into the group. Adding an existing member
// leaves the set unchanged.
func (s *Store) AddMembership(ctx context.Context, gid, uid int) error {
	return s.changeMembers(ctx, gid, uid, events.KindMemberAdded, func(m memberSet, u models.User) {
		m[u.ID] = u
	})
}

// RemoveMembership takes the user out of the group. Removing a user who is
// not a member succeeds without changing anything.
func (s *Store) RemoveMembership(ctx context.Context, gid, uid int) error {
	return s.changeMembers(ctx, gid, uid, events.KindMemberRemoved, func(m memberSet, u models.User) {
		delete(m, u.ID)
	})
}

func (s *Store) changeMembers(ctx context.Context, gid, uid int, kind events.Kind, apply func(memberSet, models.User)) error {
	user, ok := s.users[uid]
	if !ok {
		return common.ErrUserNotFound
	}

	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	rec, ok := (*s.groups.Load())[gid]
	if !ok {
		return common.ErrGroupNotFound
	}

	members := rec.members.Load().clone()
	apply(members, user)
	rec.members.Store(&members)

	s.emit(ctx, events.Event{Kind: kind, GroupID: gid, GroupName: rec.name, UserID: uid, Login: user.Login})
	return nil
}

func (s *Store) emit(ctx context.Context, e events.Event) {
	e.At = s.now()
	s.emitter.Emit(ctx, e)
}

func (g *group) snapshot() models.Group {
	members := *g.members.Load()
	users := make([]models.User, 0, len(members))
	for _, u := range members {
		users = append(users, u)
	}
	sortUsers(users)
	return models.Group{ID: g.id, Name: g.name, Users: users}
}

func (t groupTable) clone() groupTable {
	out := make(groupTable, len(t)+1)
	for id, g := range t {
		out[id] = g
	}
	return out
}

func (m *memberSet) clone() memberSet {
	out := make(memberSet, len(*m)+1)
	for id, u := range *m {
		out[id] = u
	}
	return out
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool { return models.LessByName(users[i], users[j]) })
}
