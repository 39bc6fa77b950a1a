package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type fakeRequestRepo struct {
	requests map[uuid.UUID]*repository.MatchRequest

	// when set, the next CreateWithTerms fails as if a concurrent insert
	// won the unique pair index, after registering the winner row.
	concurrentWinner *repository.MatchRequest

	createCalls int
	mergeCalls  int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[uuid.UUID]*repository.MatchRequest{}}
}

func (f *fakeRequestRepo) FindActiveByPair(_ context.Context, senderID, receiverID uuid.UUID) (repository.MatchRequest, error) {
	for _, mr := range f.requests {
		if mr.SenderID == senderID && mr.ReceiverID == receiverID &&
			(mr.Status == repository.StatusPending || mr.Status == repository.StatusAccepted) {
			return *mr, nil
		}
	}
	return repository.MatchRequest{}, repository.ErrMatchRequestNotFound
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id uuid.UUID) (repository.MatchRequest, error) {
	mr, ok := f.requests[id]
	if !ok {
		return repository.MatchRequest{}, repository.ErrMatchRequestNotFound
	}
	return *mr, nil
}

func (f *fakeRequestRepo) CreateWithTerms(_ context.Context, mr repository.MatchRequest) (repository.MatchRequest, error) {
	f.createCalls++
	if f.concurrentWinner != nil {
		winner := f.concurrentWinner
		f.concurrentWinner = nil
		f.requests[winner.ID] = winner
		return repository.MatchRequest{}, repository.ErrActivePairExists
	}
	mr.Status = repository.StatusPending
	f.requests[mr.ID] = &mr
	return mr, nil
}

func (f *fakeRequestRepo) MergeTerms(_ context.Context, requestID uuid.UUID, offered, requested []repository.RequestSkill) (repository.MatchRequest, error) {
	f.mergeCalls++
	mr, ok := f.requests[requestID]
	if !ok {
		return repository.MatchRequest{}, repository.ErrMatchRequestNotFound
	}
	mr.SkillsOffered = mergeTermsBySkill(mr.SkillsOffered, offered)
	mr.SkillsRequested = mergeTermsBySkill(mr.SkillsRequested, requested)
	return *mr, nil
}

func mergeTermsBySkill(existing, incoming []repository.RequestSkill) []repository.RequestSkill {
	seen := map[uuid.UUID]struct{}{}
	for _, t := range existing {
		seen[t.SkillID] = struct{}{}
	}
	for _, t := range incoming {
		if _, ok := seen[t.SkillID]; ok {
			continue
		}
		seen[t.SkillID] = struct{}{}
		existing = append(existing, t)
	}
	return existing
}

func (f *fakeRequestRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (repository.MatchRequest, error) {
	mr, ok := f.requests[id]
	if !ok {
		return repository.MatchRequest{}, repository.ErrMatchRequestNotFound
	}
	mr.Status = status
	return *mr, nil
}

func (f *fakeRequestRepo) ListIncoming(context.Context, uuid.UUID) ([]repository.RequestDetail, error) {
	return nil, nil
}

func (f *fakeRequestRepo) ListSent(context.Context, uuid.UUID) ([]repository.RequestDetail, error) {
	return nil, nil
}

type mockUserSkillLookup struct {
	byID map[uuid.UUID]repository.UserSkill
	err  error
}

func (m mockUserSkillLookup) FindByUserID(context.Context, uuid.UUID, string) ([]repository.UserSkill, error) {
	return nil, nil
}
func (m mockUserSkillLookup) FindByID(context.Context, uuid.UUID) (repository.UserSkill, error) {
	return repository.UserSkill{}, repository.ErrUserSkillNotFound
}
func (m mockUserSkillLookup) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]repository.UserSkill, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[uuid.UUID]repository.UserSkill{}
	for _, id := range ids {
		if us, ok := m.byID[id]; ok {
			out[id] = us
		}
	}
	return out, nil
}
func (m mockUserSkillLookup) Create(context.Context, repository.UserSkill) (repository.UserSkill, error) {
	return repository.UserSkill{}, nil
}
func (m mockUserSkillLookup) Update(context.Context, repository.UserSkill) (repository.UserSkill, error) {
	return repository.UserSkill{}, nil
}
func (m mockUserSkillLookup) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (m mockUserSkillLookup) FindOffersForSkills(context.Context, []uuid.UUID, uuid.UUID) ([]repository.MatchRow, error) {
	return nil, nil
}
func (m mockUserSkillLookup) FindRequestsForSkills(context.Context, []uuid.UUID, uuid.UUID) ([]repository.MatchRow, error) {
	return nil, nil
}

type mockUserRepo struct {
	byID map[uuid.UUID]user.User
}

func (m mockUserRepo) CreateUser(context.Context, user.User) error { return nil }
func (m mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
func (m mockUserRepo) GetUserByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m mockUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (m mockUserRepo) UpdateProfile(context.Context, uuid.UUID, user.UpdateProfileFields) error {
	return nil
}

type recordingNotifier struct {
	received  []uuid.UUID
	responded []string
}

func (n *recordingNotifier) MatchRequestReceived(_, requestID uuid.UUID, _ bool) {
	n.received = append(n.received, requestID)
}

func (n *recordingNotifier) MatchRequestResponded(_, _ uuid.UUID, status string) {
	n.responded = append(n.responded, status)
}

type requestFixture struct {
	alice uuid.UUID
	bob   uuid.UUID

	p1 uuid.UUID // alice offers Python
	p2 uuid.UUID // alice offers Piano
	d1 uuid.UUID // bob offers Design

	requests *fakeRequestRepo
	skills   mockUserSkillLookup
	users    mockUserRepo
	notifier *recordingNotifier
	svc      *MatchRequestService
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		alice:    uuid.New(),
		bob:      uuid.New(),
		p1:       uuid.New(),
		p2:       uuid.New(),
		d1:       uuid.New(),
		requests: newFakeRequestRepo(),
		notifier: &recordingNotifier{},
	}
	f.skills = mockUserSkillLookup{byID: map[uuid.UUID]repository.UserSkill{
		f.p1: {ID: f.p1, UserID: f.alice, SkillID: uuid.New(), SkillName: "Python"},
		f.p2: {ID: f.p2, UserID: f.alice, SkillID: uuid.New(), SkillName: "Piano"},
		f.d1: {ID: f.d1, UserID: f.bob, SkillID: uuid.New(), SkillName: "Design"},
	}}
	f.users = mockUserRepo{byID: map[uuid.UUID]user.User{
		f.alice: {ID: f.alice, Name: "Alice"},
		f.bob:   {ID: f.bob, Name: "Bob"},
	}}
	f.svc = NewMatchRequestUsecase(f.requests, f.skills, f.users, f.notifier, nil)
	return f
}

func (f *requestFixture) send(t *testing.T, offered, requested []uuid.UUID) MatchRequestResult {
	t.Helper()
	res, err := f.svc.SendOrUpdate(context.Background(), f.alice, SendRequestInput{
		ReceiverID:            f.bob,
		OfferedUserSkillIDs:   offered,
		RequestedUserSkillIDs: requested,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return res
}

func TestMatchRequestSendOrUpdate_CreatesPending(t *testing.T) {
	f := newRequestFixture()

	res := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})

	if !res.Created {
		t.Fatalf("expected created=true")
	}
	if res.Request.Status != repository.StatusPending {
		t.Fatalf("expected Pending, got %s", res.Request.Status)
	}
	if res.Sender.Name != "Alice" || res.Receiver.Name != "Bob" {
		t.Fatalf("unexpected parties: %s -> %s", res.Sender.Name, res.Receiver.Name)
	}
	if len(f.notifier.received) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.received))
	}
}

func TestMatchRequestSendOrUpdate_MergesAndDeduplicates(t *testing.T) {
	f := newRequestFixture()

	first := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})
	second := f.send(t, []uuid.UUID{f.p2}, []uuid.UUID{f.d1})

	if second.Created {
		t.Fatalf("expected merge, not create")
	}
	if second.Request.ID != first.Request.ID {
		t.Fatalf("expected same request, got %s and %s", first.Request.ID, second.Request.ID)
	}
	if len(second.Request.SkillsOffered) != 2 {
		t.Fatalf("expected 2 offered terms, got %d", len(second.Request.SkillsOffered))
	}
	if len(second.Request.SkillsRequested) != 1 {
		t.Fatalf("expected requested terms deduplicated to 1, got %d", len(second.Request.SkillsRequested))
	}
	if second.Request.Status != repository.StatusPending {
		t.Fatalf("expected status to remain Pending, got %s", second.Request.Status)
	}
}

func TestMatchRequestSendOrUpdate_MergesIntoAccepted(t *testing.T) {
	f := newRequestFixture()

	first := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})
	if _, err := f.svc.Respond(context.Background(), first.Request.ID, f.bob, repository.StatusAccepted); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	second := f.send(t, []uuid.UUID{f.p2}, []uuid.UUID{f.d1})
	if second.Created {
		t.Fatalf("expected merge into accepted request")
	}
	if second.Request.Status != repository.StatusAccepted {
		t.Fatalf("expected Accepted, got %s", second.Request.Status)
	}
}

func TestMatchRequestSendOrUpdate_NewRequestAfterRejection(t *testing.T) {
	f := newRequestFixture()

	first := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})
	if _, err := f.svc.Respond(context.Background(), first.Request.ID, f.bob, repository.StatusRejected); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	second := f.send(t, []uuid.UUID{f.p2}, []uuid.UUID{f.d1})
	if !second.Created {
		t.Fatalf("expected a fresh request after rejection")
	}
	if second.Request.ID == first.Request.ID {
		t.Fatalf("expected a new request id")
	}
}

func TestMatchRequestSendOrUpdate_Validation(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.SendOrUpdate(context.Background(), f.alice, SendRequestInput{
		ReceiverID:          f.bob,
		OfferedUserSkillIDs: []uuid.UUID{f.p1},
	})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}

	_, err = f.svc.SendOrUpdate(context.Background(), f.alice, SendRequestInput{
		ReceiverID:            f.alice,
		OfferedUserSkillIDs:   []uuid.UUID{f.p1},
		RequestedUserSkillIDs: []uuid.UUID{f.d1},
	})
	if !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("expected ErrSelfRequest, got %v", err)
	}

	_, err = f.svc.SendOrUpdate(context.Background(), f.alice, SendRequestInput{
		ReceiverID:            f.bob,
		OfferedUserSkillIDs:   []uuid.UUID{uuid.New()},
		RequestedUserSkillIDs: []uuid.UUID{f.d1},
	})
	if !errors.Is(err, ErrSkillRefNotFound) {
		t.Fatalf("expected ErrSkillRefNotFound, got %v", err)
	}
}

func TestMatchRequestSendOrUpdate_RequestedTermsMustBeReceiverOwned(t *testing.T) {
	f := newRequestFixture()

	// p2 belongs to the sender, so it cannot be requested from the receiver.
	_, err := f.svc.SendOrUpdate(context.Background(), f.alice, SendRequestInput{
		ReceiverID:            f.bob,
		OfferedUserSkillIDs:   []uuid.UUID{f.p1},
		RequestedUserSkillIDs: []uuid.UUID{f.p2},
	})
	if !errors.Is(err, ErrSkillNotOwned) {
		t.Fatalf("expected ErrSkillNotOwned, got %v", err)
	}
}

func TestMatchRequestSendOrUpdate_ConcurrentCreateFoldsIntoWinner(t *testing.T) {
	f := newRequestFixture()

	winnerID := uuid.New()
	f.requests.concurrentWinner = &repository.MatchRequest{
		ID:         winnerID,
		SenderID:   f.alice,
		ReceiverID: f.bob,
		Status:     repository.StatusPending,
		SkillsOffered: []repository.RequestSkill{
			{UserSkillID: f.p1, SkillID: f.skills.byID[f.p1].SkillID, SkillName: "Python"},
		},
	}

	res := f.send(t, []uuid.UUID{f.p2}, []uuid.UUID{f.d1})

	if res.Created {
		t.Fatalf("expected the losing create to fold into a merge")
	}
	if res.Request.ID != winnerID {
		t.Fatalf("expected winner request %s, got %s", winnerID, res.Request.ID)
	}
	if f.requests.mergeCalls != 1 {
		t.Fatalf("expected exactly one merge, got %d", f.requests.mergeCalls)
	}
	if len(res.Request.SkillsOffered) != 2 {
		t.Fatalf("expected merged offered terms, got %d", len(res.Request.SkillsOffered))
	}
}

func TestMatchRequestRespond_ReceiverAccepts(t *testing.T) {
	f := newRequestFixture()
	created := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})

	updated, err := f.svc.Respond(context.Background(), created.Request.ID, f.bob, repository.StatusAccepted)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Status != repository.StatusAccepted {
		t.Fatalf("expected Accepted, got %s", updated.Status)
	}
	if len(f.notifier.responded) != 1 || f.notifier.responded[0] != repository.StatusAccepted {
		t.Fatalf("expected sender notified of acceptance, got %v", f.notifier.responded)
	}
}

func TestMatchRequestRespond_SenderCannotRespond(t *testing.T) {
	f := newRequestFixture()
	created := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})

	if _, err := f.svc.Respond(context.Background(), created.Request.ID, f.bob, repository.StatusAccepted); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err := f.svc.Respond(context.Background(), created.Request.ID, f.alice, repository.StatusRejected)
	if !errors.Is(err, ErrNotReceiver) {
		t.Fatalf("expected ErrNotReceiver, got %v", err)
	}

	got, _ := f.requests.GetByID(context.Background(), created.Request.ID)
	if got.Status != repository.StatusAccepted {
		t.Fatalf("expected status to remain Accepted, got %s", got.Status)
	}
}

func TestMatchRequestRespond_InvalidStatus(t *testing.T) {
	f := newRequestFixture()
	created := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})

	_, err := f.svc.Respond(context.Background(), created.Request.ID, f.bob, "Pending")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestMatchRequestRespond_AlreadyResponded(t *testing.T) {
	f := newRequestFixture()
	created := f.send(t, []uuid.UUID{f.p1}, []uuid.UUID{f.d1})

	if _, err := f.svc.Respond(context.Background(), created.Request.ID, f.bob, repository.StatusRejected); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, err := f.svc.Respond(context.Background(), created.Request.ID, f.bob, repository.StatusAccepted)
	if !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("expected ErrAlreadyResponded, got %v", err)
	}
}

func TestMatchRequestRespond_NotFound(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.Respond(context.Background(), uuid.New(), f.bob, repository.StatusAccepted)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}
