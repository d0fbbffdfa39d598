package service

// In-memory fakes for the store interfaces.  They mirror the repository
// semantics the services rely on: sql.ErrNoRows for missing rows, the
// repository sentinel errors for duplicates and the compare-and-set on
// session hashes.

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/thanhng/workchat/internal/model"
	"github.com/thanhng/workchat/internal/queue"
	"github.com/thanhng/workchat/internal/repository"
)

// --- users ---

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, email, username, firstName, lastName, passwordHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	f.nextID++
	f.users[f.nextID] = model.User{
		ID:           f.nextID,
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
	}
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) SetActive(ctx context.Context, id uint64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Active = active
	f.users[id] = u
	return nil
}

// --- sessions ---

type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   uint64
	sessions map[uint64]model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uint64]model.Session{}}
}

func (f *fakeSessionStore) Create(ctx context.Context, userID uint64, hash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sessions[f.nextID] = model.Session{ID: f.nextID, UserID: userID, Hash: hash}
	return f.nextID, nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id uint64) (model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return model.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeSessionStore) UpdateHashIfMatches(ctx context.Context, id uint64, oldHash, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.Hash != oldHash {
		return repository.ErrHashMismatch
	}
	s.Hash = newHash
	f.sessions[id] = s
	return nil
}

func (f *fakeSessionStore) DeleteByID(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) DeleteAllForUser(ctx context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, id)
		}
	}
	return nil
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// --- notifier ---

type fakeNotifier struct {
	mu     sync.Mutex
	events []queue.EmailEvent
	err    error
}

func (f *fakeNotifier) PublishEmail(ctx context.Context, ev queue.EmailEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeNotifier) sent() []queue.EmailEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.EmailEvent(nil), f.events...)
}

// --- members ---

type fakeMemberStore struct {
	mu      sync.Mutex
	nextID  uint64
	members map[uint64]model.Member
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: map[uint64]model.Member{}}
}

func (f *fakeMemberStore) add(userID, workspaceID uint64, role string) model.Member {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m := model.Member{ID: f.nextID, UserID: userID, WorkspaceID: workspaceID, Role: role}
	f.members[m.ID] = m
	return m
}

func (f *fakeMemberStore) Create(ctx context.Context, userID, workspaceID uint64, role string) (uint64, error) {
	f.mu.Lock()
	for _, m := range f.members {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			f.mu.Unlock()
			return 0, repository.ErrDuplicateMember
		}
	}
	f.mu.Unlock()
	return f.add(userID, workspaceID, role).ID, nil
}

func (f *fakeMemberStore) CreateBulk(ctx context.Context, workspaceID uint64, userIDs []uint64) error {
	for _, uid := range userIDs {
		if _, err := f.Create(ctx, uid, workspaceID, model.RoleMember); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMemberStore) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uint64) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.UserID == userID && m.WorkspaceID == workspaceID {
			return m, nil
		}
	}
	return model.Member{}, sql.ErrNoRows
}

func (f *fakeMemberStore) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return model.Member{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeMemberStore) CountByWorkspaceAndIDs(ctx context.Context, workspaceID uint64, memberIDs []uint64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range memberIDs {
		if m, ok := f.members[id]; ok && m.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (f *fakeMemberStore) ListByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Member
	for _, m := range f.members {
		if m.WorkspaceID == workspaceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMemberStore) TransferRole(ctx context.Context, fromMemberID, toMemberID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, okFrom := f.members[fromMemberID]
	to, okTo := f.members[toMemberID]
	if !okFrom || !okTo || from.Role != model.RoleAdmin || to.Role != model.RoleMember {
		return sql.ErrNoRows
	}
	from.Role = model.RoleMember
	to.Role = model.RoleAdmin
	f.members[fromMemberID] = from
	f.members[toMemberID] = to
	return nil
}

func (f *fakeMemberStore) Delete(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.members[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.members, id)
	return nil
}

// DeleteGuardingLastAdmin performs the check and the delete under one
// lock, matching the single transaction the repository runs.
func (f *fakeMemberStore) DeleteGuardingLastAdmin(ctx context.Context, id, workspaceID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok || m.WorkspaceID != workspaceID {
		return sql.ErrNoRows
	}
	if m.Role == model.RoleAdmin {
		admins := 0
		for _, other := range f.members {
			if other.WorkspaceID == workspaceID && other.Role == model.RoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return repository.ErrLastAdmin
		}
	}
	delete(f.members, id)
	return nil
}

// --- workspaces ---

type fakeWorkspaceStore struct {
	nextID     uint64
	workspaces map[uint64]model.Workspace
	members    *fakeMemberStore
	deleted    []uint64
}

func newFakeWorkspaceStore(members *fakeMemberStore) *fakeWorkspaceStore {
	return &fakeWorkspaceStore{workspaces: map[uint64]model.Workspace{}, members: members}
}

func (f *fakeWorkspaceStore) CreateWithAdmin(ctx context.Context, name, joinCode string, ownerID uint64) (model.Workspace, error) {
	f.nextID++
	ws := model.Workspace{ID: f.nextID, Name: name, JoinCode: joinCode, OwnerID: ownerID}
	f.workspaces[ws.ID] = ws
	f.members.add(ownerID, ws.ID, model.RoleAdmin)
	return ws, nil
}

func (f *fakeWorkspaceStore) GetByID(ctx context.Context, id uint64) (model.Workspace, error) {
	ws, ok := f.workspaces[id]
	if !ok {
		return model.Workspace{}, sql.ErrNoRows
	}
	return ws, nil
}

func (f *fakeWorkspaceStore) GetByJoinCode(ctx context.Context, joinCode string) (model.Workspace, error) {
	for _, ws := range f.workspaces {
		if ws.JoinCode == joinCode {
			return ws, nil
		}
	}
	return model.Workspace{}, sql.ErrNoRows
}

func (f *fakeWorkspaceStore) UpdateName(ctx context.Context, id uint64, name string) error {
	ws, ok := f.workspaces[id]
	if !ok {
		return sql.ErrNoRows
	}
	ws.Name = name
	f.workspaces[id] = ws
	return nil
}

func (f *fakeWorkspaceStore) UpdateJoinCode(ctx context.Context, id uint64, joinCode string) error {
	ws, ok := f.workspaces[id]
	if !ok {
		return sql.ErrNoRows
	}
	ws.JoinCode = joinCode
	f.workspaces[id] = ws
	return nil
}

func (f *fakeWorkspaceStore) ListByUser(ctx context.Context, userID uint64) ([]model.Workspace, error) {
	var out []model.Workspace
	for _, m := range f.members.members {
		if m.UserID == userID {
			if ws, ok := f.workspaces[m.WorkspaceID]; ok {
				out = append(out, ws)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeWorkspaceStore) DeleteCascade(ctx context.Context, id uint64) error {
	if _, ok := f.workspaces[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.workspaces, id)
	for mid, m := range f.members.members {
		if m.WorkspaceID == id {
			delete(f.members.members, mid)
		}
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// --- channels ---

type fakeChannelStore struct {
	nextID         uint64
	channels       map[uint64]model.Channel
	channelMembers map[uint64]map[uint64]bool // channel id -> member id set
	deleted        []uint64
}

func newFakeChannelStore() *fakeChannelStore {
	return &fakeChannelStore{
		channels:       map[uint64]model.Channel{},
		channelMembers: map[uint64]map[uint64]bool{},
	}
}

func (f *fakeChannelStore) Create(ctx context.Context, workspaceID uint64, name string, isPrivate bool) (uint64, error) {
	f.nextID++
	f.channels[f.nextID] = model.Channel{ID: f.nextID, WorkspaceID: workspaceID, Name: name, IsPrivate: isPrivate}
	return f.nextID, nil
}

func (f *fakeChannelStore) GetByID(ctx context.Context, id uint64) (model.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return model.Channel{}, sql.ErrNoRows
	}
	return ch, nil
}

func (f *fakeChannelStore) Update(ctx context.Context, id uint64, name string, isPrivate bool) error {
	ch, ok := f.channels[id]
	if !ok {
		return sql.ErrNoRows
	}
	ch.Name = name
	ch.IsPrivate = isPrivate
	f.channels[id] = ch
	return nil
}

func (f *fakeChannelStore) DeleteWithMessages(ctx context.Context, id uint64) error {
	if _, ok := f.channels[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.channels, id)
	delete(f.channelMembers, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeChannelStore) ListPublicByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Channel, error) {
	var out []model.Channel
	for _, ch := range f.channels {
		if ch.WorkspaceID == workspaceID && !ch.IsPrivate {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeChannelStore) IsChannelMember(ctx context.Context, channelID, memberID uint64) (bool, error) {
	return f.channelMembers[channelID][memberID], nil
}

func (f *fakeChannelStore) AddChannelMember(ctx context.Context, channelID, memberID uint64) error {
	if f.channelMembers[channelID] == nil {
		f.channelMembers[channelID] = map[uint64]bool{}
	}
	f.channelMembers[channelID][memberID] = true
	return nil
}

func (f *fakeChannelStore) RemoveChannelMember(ctx context.Context, channelID, memberID uint64) error {
	delete(f.channelMembers[channelID], memberID)
	return nil
}

// --- conversations ---

type fakeConversationStore struct {
	nextID        uint64
	conversations map[uint64]model.Conversation
	participants  map[uint64]map[uint64]bool // conversation id -> member id set
	deleted       []uint64
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: map[uint64]model.Conversation{},
		participants:  map[uint64]map[uint64]bool{},
	}
}

func (f *fakeConversationStore) CreateWithParticipants(ctx context.Context, workspaceID, createdBy uint64, memberIDs []uint64) (uint64, error) {
	f.nextID++
	f.conversations[f.nextID] = model.Conversation{ID: f.nextID, WorkspaceID: workspaceID, CreatedBy: createdBy}
	set := map[uint64]bool{}
	for _, id := range memberIDs {
		set[id] = true
	}
	f.participants[f.nextID] = set
	return f.nextID, nil
}

func (f *fakeConversationStore) GetByID(ctx context.Context, id uint64) (model.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return model.Conversation{}, sql.ErrNoRows
	}
	return conv, nil
}

func (f *fakeConversationStore) ListByWorkspace(ctx context.Context, workspaceID uint64) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, conv := range f.conversations {
		if conv.WorkspaceID == workspaceID {
			out = append(out, conv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConversationStore) Participants(ctx context.Context, conversationID uint64) ([]model.ConversationParticipant, error) {
	var out []model.ConversationParticipant
	for memberID := range f.participants[conversationID] {
		out = append(out, model.ConversationParticipant{ConversationID: conversationID, MemberID: memberID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out, nil
}

func (f *fakeConversationStore) IsParticipant(ctx context.Context, conversationID, memberID uint64) (bool, error) {
	return f.participants[conversationID][memberID], nil
}

func (f *fakeConversationStore) AddParticipant(ctx context.Context, conversationID, memberID uint64) error {
	if f.participants[conversationID] == nil {
		f.participants[conversationID] = map[uint64]bool{}
	}
	f.participants[conversationID][memberID] = true
	return nil
}

func (f *fakeConversationStore) RemoveParticipant(ctx context.Context, conversationID, memberID uint64) error {
	delete(f.participants[conversationID], memberID)
	return nil
}

func (f *fakeConversationStore) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.conversations[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.conversations, id)
	delete(f.participants, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// --- messages ---

type fakeMessageStore struct {
	nextID   uint64
	messages map[uint64]model.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: map[uint64]model.Message{}}
}

func (f *fakeMessageStore) Create(ctx context.Context, m model.Message) (uint64, error) {
	f.nextID++
	m.ID = f.nextID
	f.messages[m.ID] = m
	return m.ID, nil
}

func (f *fakeMessageStore) GetByID(ctx context.Context, id uint64) (model.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return model.Message{}, sql.ErrNoRows
	}
	return m, nil
}

func (f *fakeMessageStore) UpdateContent(ctx context.Context, id uint64, content string) error {
	m, ok := f.messages[id]
	if !ok {
		return sql.ErrNoRows
	}
	m.Content = content
	f.messages[id] = m
	return nil
}

func (f *fakeMessageStore) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.messages[id]; !ok {
		return sql.ErrNoRows
	}
	for mid, m := range f.messages {
		if m.ParentMessageID != nil && *m.ParentMessageID == id {
			delete(f.messages, mid)
		}
	}
	delete(f.messages, id)
	return nil
}

func (f *fakeMessageStore) ListByChannel(ctx context.Context, channelID uint64, limit, offset int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.ChannelID != nil && *m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

func (f *fakeMessageStore) ListByConversation(ctx context.Context, conversationID uint64, limit, offset int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.ConversationID != nil && *m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (f *fakeMessageStore) CountByConversation(ctx context.Context, conversationID uint64) (int, error) {
	n := 0
	for _, m := range f.messages {
		if m.ConversationID != nil && *m.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

func page(msgs []model.Message, limit, offset int) []model.Message {
	if offset >= len(msgs) {
		return nil
	}
	msgs = msgs[offset:]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs
}

func ptr(v uint64) *uint64 { return &v }
