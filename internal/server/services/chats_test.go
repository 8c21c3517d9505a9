package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/weekend/internal/common"
	"github.com/dmitrijs2005/weekend/internal/logging"
	"github.com/dmitrijs2005/weekend/internal/server/auth"
	"github.com/dmitrijs2005/weekend/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T) (*ChatService, *fakeRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)

	rm := newFakeRepoManager()
	for _, name := range []string{"alice", "bob", "carol"} {
		rm.addUser(name, auth.NormalUser)
	}
	rm.c.byID["c-team"] = &models.Chat{ID: "c-team", Name: "team", OwnerID: "u-alice", OwnerName: "alice"}
	rm.c.members["c-team"] = map[string]bool{"u-alice": true, "u-bob": true}

	return NewChatService(db, rm, logging.Nop{}), rm
}

func TestChatCreate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	rm.addUser("alice", auth.NormalUser)
	rm.addUser("bob", auth.NormalUser)
	s := NewChatService(db, rm, logging.Nop{})

	chat, err := s.Create(context.Background(), identity("alice"), "pair", []string{"bob", "alice"})
	require.NoError(t, err)
	assert.Equal(t, "u-alice", chat.OwnerID)
	assert.Equal(t, "alice", chat.OwnerName)
	assert.Equal(t, map[string]bool{"u-alice": true, "u-bob": true}, rm.c.members[chat.ID])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatCreate_RollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := newFakeRepoManager()
	rm.addUser("alice", auth.NormalUser)
	rm.c.addErr = errBoom
	s := NewChatService(db, rm, logging.Nop{})

	_, err := s.Create(context.Background(), identity("alice"), "solo", nil)
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatCreate_Rejections(t *testing.T) {
	s, _ := newChatFixture(t)

	_, err := s.Create(context.Background(), identity("alice"), " ", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Create(context.Background(), identity("alice"), "x", []string{"nobody"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Create(context.Background(), identity("ghost"), "x", nil)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestChatAddMember(t *testing.T) {
	s, rm := newChatFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.AddMember(ctx, identity("bob"), "c-team", "carol"), common.ErrorForbidden)
	assert.ErrorIs(t, s.AddMember(ctx, identity("alice"), "c-404", "carol"), common.ErrorNotFound)
	assert.ErrorIs(t, s.AddMember(ctx, identity("alice"), "c-team", "nobody"), common.ErrorValidation)
	require.NoError(t, s.AddMember(ctx, identity("alice"), "c-team", "carol"))
	assert.True(t, rm.c.members["c-team"]["u-carol"])

	mine, err := s.ListMine(ctx, identity("carol"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "c-team", mine[0].ID)
}

func TestChatSend(t *testing.T) {
	s, rm := newChatFixture(t)
	ctx := context.Background()
	rm.c.byID["c-other"] = &models.Chat{ID: "c-other", Name: "other", OwnerID: "u-carol"}
	rm.c.members["c-other"] = map[string]bool{"u-carol": true, "u-alice": true}

	first, err := s.Send(ctx, identity("alice"), "c-team", "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.AuthorName)
	assert.Nil(t, first.Reply)

	reply, err := s.Send(ctx, identity("bob"), "c-team", first.ID, "hi")
	require.NoError(t, err)
	require.NotNil(t, reply.Reply)
	assert.Equal(t, "hello", reply.Reply.Content)

	elsewhere, err := s.Send(ctx, identity("alice"), "c-other", "", "psst")
	require.NoError(t, err)

	tests := []struct {
		name    string
		user    string
		chatID  string
		replyID string
		content string
		wantErr error
	}{
		{"not a member", "carol", "c-team", "", "let me in", common.ErrorNotMember},
		{"unknown chat", "alice", "c-404", "", "hi", common.ErrorNotFound},
		{"empty content", "alice", "c-team", "", "  ", common.ErrorValidation},
		{"unknown reply", "alice", "c-team", "m-404", "hi", common.ErrorValidation},
		{"reply in other chat", "alice", "c-team", elsewhere.ID, "hi", common.ErrorValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Send(ctx, identity(tt.user), tt.chatID, tt.replyID, tt.content)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Len(t, rm.c.messages, 3)
}

func TestChatMessages(t *testing.T) {
	s, rm := newChatFixture(t)
	ctx := context.Background()

	first, err := s.Send(ctx, identity("alice"), "c-team", "", "hello")
	require.NoError(t, err)
	_, err = s.Send(ctx, identity("bob"), "c-team", first.ID, "hi")
	require.NoError(t, err)

	list, err := s.Messages(ctx, identity("bob"), "c-team")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hello", list[0].Content)
	assert.Nil(t, list[0].Reply)
	require.NotNil(t, list[1].Reply)
	assert.Equal(t, first.ID, list[1].Reply.ID)

	_, err = s.Messages(ctx, identity("carol"), "c-team")
	assert.ErrorIs(t, err, common.ErrorNotMember)

	rm.c.err = errBoom
	_, err = s.Messages(ctx, identity("bob"), "c-team")
	assert.ErrorIs(t, err, errBoom)
}

func TestChatMessages_ReplyOlderThanPage(t *testing.T) {
	s, rm := newChatFixture(t)
	ctx := context.Background()

	old, err := s.Send(ctx, identity("alice"), "c-team", "", "ancient")
	require.NoError(t, err)
	for i := 0; i < MessagePageSize; i++ {
		_, err := s.Send(ctx, identity("bob"), "c-team", "", "filler")
		require.NoError(t, err)
	}
	_, err = s.Send(ctx, identity("bob"), "c-team", old.ID, "re: ancient")
	require.NoError(t, err)

	list, err := s.Messages(ctx, identity("alice"), "c-team")
	require.NoError(t, err)
	require.Len(t, list, MessagePageSize)
	last := list[len(list)-1]
	require.NotNil(t, last.Reply)
	assert.Equal(t, "ancient", last.Reply.Content)
	assert.Len(t, rm.c.messages, MessagePageSize+2)
}
