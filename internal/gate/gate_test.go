package gate

import (
	"context"
	"errors"
	"testing"

	tg "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-cybersec-bot/internal/logging"
)

// stubMembership scripts the platform's getChatMember answer.
type stubMembership struct {
	member *models.ChatMember
	err    error

	gotChatID any
	gotUserID int64
}

func (s *stubMembership) GetChatMember(ctx context.Context, params *tg.GetChatMemberParams) (*models.ChatMember, error) {
	s.gotChatID = params.ChatID
	s.gotUserID = params.UserID
	if s.err != nil {
		return nil, s.err
	}
	return s.member, nil
}

func TestIsAuthorizedStatuses(t *testing.T) {
	logging.Init()
	cases := []struct {
		name string
		typ  models.ChatMemberType
		want bool
	}{
		{"member", models.ChatMemberTypeMember, true},
		{"owner", models.ChatMemberTypeOwner, true},
		{"administrator", models.ChatMemberTypeAdministrator, true},
		{"restricted", models.ChatMemberTypeRestricted, true},
		{"banned", models.ChatMemberTypeBanned, true},
		{"left", models.ChatMemberTypeLeft, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubMembership{member: &models.ChatMember{Type: tc.typ}}
			g := New(stub, "p2p_LRN")
			if got := g.IsAuthorized(context.Background(), 42); got != tc.want {
				t.Fatalf("IsAuthorized = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsAuthorizedFailsClosed(t *testing.T) {
	logging.Init()
	stub := &stubMembership{err: errors.New("network down")}
	g := New(stub, "p2p_LRN")
	if g.IsAuthorized(context.Background(), 42) {
		t.Fatal("lookup failure must deny access")
	}
}

func TestLookupTargetsGatingChannel(t *testing.T) {
	logging.Init()
	stub := &stubMembership{member: &models.ChatMember{Type: models.ChatMemberTypeMember}}
	g := New(stub, "p2p_LRN")
	g.IsAuthorized(context.Background(), 42)
	if stub.gotChatID != "@p2p_LRN" {
		t.Fatalf("chat id = %v, want @p2p_LRN", stub.gotChatID)
	}
	if stub.gotUserID != 42 {
		t.Fatalf("user id = %d, want 42", stub.gotUserID)
	}
}

func TestJoinURL(t *testing.T) {
	g := New(&stubMembership{}, "p2p_LRN")
	if got := g.JoinURL(); got != "https://t.me/p2p_LRN" {
		t.Fatalf("JoinURL = %q", got)
	}
}
