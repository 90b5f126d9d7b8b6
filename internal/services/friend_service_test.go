package services

import (
	"testing"

	"github.com/mehrdadh/hangout_bot/pkg/errors"
)

func TestSendRequest_AndAccept(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	pending, err := env.friendSvc.PendingRequestsFor(bob.ID)
	if err != nil {
		t.Fatalf("PendingRequestsFor() error = %v", err)
	}
	if len(pending) != 1 || pending[0].SenderID != alice.ID {
		t.Fatalf("pending = %+v, want one request from alice", pending)
	}

	if _, err := env.friendSvc.Accept(request.ID, bob.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	// Edge symmetry: both directions must exist
	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		areFriends, err := env.friendSvc.AreFriends(pair[0], pair[1])
		if err != nil {
			t.Fatalf("AreFriends() error = %v", err)
		}
		if !areFriends {
			t.Errorf("AreFriends(%d, %d) = false, want true", pair[0], pair[1])
		}
	}

	friends, err := env.friendSvc.FriendsOf(alice.ID)
	if err != nil {
		t.Fatalf("FriendsOf() error = %v", err)
	}
	if len(friends) != 1 || friends[0].ID != bob.ID {
		t.Errorf("FriendsOf(alice) = %+v, want [bob]", friends)
	}
}

func TestSendRequest_ToSelf(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.friendSvc.SendRequest(alice.ID, alice.ID)
	if !errors.Is(err, errors.ErrCodeConflict) {
		t.Errorf("SendRequest(self) error = %v, want CONFLICT", err)
	}
}

func TestSendRequest_UnknownRecipient(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.friendSvc.SendRequest(alice.ID, 9999)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SendRequest(unknown) error = %v, want NOT_FOUND", err)
	}
}

func TestSendRequest_DuplicateBlocked(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	if _, err := env.friendSvc.SendRequest(alice.ID, bob.ID); err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	// Same direction while pending
	if _, err := env.friendSvc.SendRequest(alice.ID, bob.ID); !errors.Is(err, errors.ErrCodeConflict) {
		t.Errorf("duplicate SendRequest error = %v, want CONFLICT", err)
	}

	// Reverse direction while pending
	if _, err := env.friendSvc.SendRequest(bob.ID, alice.ID); !errors.Is(err, errors.ErrCodeConflict) {
		t.Errorf("reverse SendRequest error = %v, want CONFLICT", err)
	}
}

func TestSendRequest_AfterAcceptBlocked(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	if _, err := env.friendSvc.Accept(request.ID, bob.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	if _, err := env.friendSvc.SendRequest(alice.ID, bob.ID); !errors.Is(err, errors.ErrCodeConflict) {
		t.Errorf("SendRequest after accept error = %v, want CONFLICT", err)
	}
}

func TestAccept_WrongRecipient(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	if _, err := env.friendSvc.Accept(request.ID, carol.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Accept() by non-recipient error = %v, want NOT_FOUND", err)
	}
}

func TestAccept_Twice(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	if _, err := env.friendSvc.Accept(request.ID, bob.ID); err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}

	if _, err := env.friendSvc.Accept(request.ID, bob.ID); !errors.Is(err, errors.ErrCodeAlreadyProcessed) {
		t.Errorf("second Accept() error = %v, want ALREADY_PROCESSED", err)
	}

	// The double accept must not have duplicated edges
	friends, err := env.friendSvc.FriendsOf(alice.ID)
	if err != nil {
		t.Fatalf("FriendsOf() error = %v", err)
	}
	if len(friends) != 1 {
		t.Errorf("FriendsOf(alice) has %d entries, want 1", len(friends))
	}
}

func TestReject_AllowsResend(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	if err := env.friendSvc.Reject(request.ID, bob.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	areFriends, _ := env.friendSvc.AreFriends(alice.ID, bob.ID)
	if areFriends {
		t.Error("AreFriends() = true after reject, want false")
	}

	// Rejection is not a permanent block in either direction
	if _, err := env.friendSvc.SendRequest(alice.ID, bob.ID); err != nil {
		t.Errorf("SendRequest after reject error = %v, want nil", err)
	}
}

func TestReject_Twice(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	if err := env.friendSvc.Reject(request.ID, bob.ID); err != nil {
		t.Fatalf("first Reject() error = %v", err)
	}
	if err := env.friendSvc.Reject(request.ID, bob.ID); !errors.Is(err, errors.ErrCodeAlreadyProcessed) {
		t.Errorf("second Reject() error = %v, want ALREADY_PROCESSED", err)
	}
}
