package services

import (
	"sync"
	"testing"

	"github.com/mehrdadh/hangout_bot/pkg/errors"
)

// The store's uniqueness constraints, not the pre-checks, are what decide
// races. These tests fire both calls concurrently and assert exactly one
// winner.

func TestOpenRound_ConcurrentOpens(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newHangoutService(staticSearcher(nil))
	group, members := newGroupWithMembers(t, env)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.OpenRound(group.ID, members[i].ID)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errors.ErrCodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("concurrent opens: %d successes, %d conflicts, want 1 and 1", successes, conflicts)
	}
}

func TestSubmitResponse_ConcurrentDuplicates(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newHangoutService(staticSearcher(nil))
	group, members := newGroupWithMembers(t, env)

	round, err := svc.OpenRound(group.ID, members[0].ID)
	if err != nil {
		t.Fatalf("OpenRound() error = %v", err)
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.SubmitResponse(round.ID, members[1].ID, validConstraints())
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errors.ErrCodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("concurrent submits: %d successes, %d conflicts, want 1 and 1", successes, conflicts)
	}

	readiness, err := svc.GetReadiness(round.ID)
	if err != nil {
		t.Fatalf("GetReadiness() error = %v", err)
	}
	if readiness.ResponsesReceived != 1 {
		t.Errorf("ResponsesReceived = %d, want 1", readiness.ResponsesReceived)
	}
}

func TestAccept_ConcurrentAcceptReject(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	request, err := env.friendSvc.SendRequest(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	results := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, results[0] = env.friendSvc.Accept(request.ID, bob.ID)
	}()
	go func() {
		defer wg.Done()
		results[1] = env.friendSvc.Reject(request.ID, bob.ID)
	}()
	wg.Wait()

	successes, processed := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, errors.ErrCodeAlreadyProcessed):
			processed++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || processed != 1 {
		t.Errorf("concurrent accept/reject: %d successes, %d already-processed, want 1 and 1", successes, processed)
	}
}
