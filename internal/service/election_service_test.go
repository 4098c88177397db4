package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evote-api/internal/domain"
	"evote-api/internal/repository"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "hunter2"
)

// recordingDeliverer captures delivered codes for assertions.
type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []string
}

func (d *recordingDeliverer) Deliver(_ context.Context, _, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, code)
	return nil
}

func newTestEngine(t *testing.T) (*ElectionService, repository.SnapshotStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	engine := NewElectionService(store, &recordingDeliverer{}, zap.NewNop(), testAdminEmail, testAdminPassword)
	require.NoError(t, engine.Load(context.Background()))
	return engine, store
}

// stubOTP makes the engine issue a fixed sequence of codes.
func stubOTP(engine *ElectionService, codes ...string) {
	i := 0
	engine.generateOTP = func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func adminUser() *domain.User {
	return &domain.User{Email: testAdminEmail, Role: domain.RoleAdmin}
}

func registerAndVerify(t *testing.T, engine *ElectionService, email, code string) *domain.User {
	t.Helper()
	stubOTP(engine, code)
	require.NoError(t, engine.RegisterVoter(context.Background(), email))
	user, err := engine.VerifyOTP(context.Background(), email, code)
	require.NoError(t, err)
	return user
}

func TestLoad_SeedsDemoCandidatesWhenSnapshotAbsent(t *testing.T) {
	engine, store := newTestEngine(t)

	candidates := engine.Candidates()
	assert.Len(t, candidates, 6)

	// The seed is persisted immediately, not just held in memory.
	raw, ok, err := store.Load(context.Background(), repository.SnapshotCandidates)
	require.NoError(t, err)
	require.True(t, ok)
	var persisted []domain.Candidate
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, candidates, persisted)
}

func TestLoad_PrefersExistingSnapshots(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, repository.SnapshotCandidates,
		`[{"id":"x1","name":"Solo","department":"President","bio":"","imageUrl":"","votes":3}]`))
	require.NoError(t, store.Save(ctx, repository.SnapshotVoters,
		`[{"email":"a@b.com","hasVoted":true}]`))

	engine := NewElectionService(store, &recordingDeliverer{}, zap.NewNop(), testAdminEmail, testAdminPassword)
	require.NoError(t, engine.Load(ctx))

	candidates := engine.Candidates()
	require.Len(t, candidates, 1)
	assert.Equal(t, "x1", candidates[0].ID)
	assert.Equal(t, 3, candidates[0].Votes)

	err := engine.RegisterVoter(ctx, "a@b.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestRegisterVoter_IssuesAndDeliversCode(t *testing.T) {
	store := repository.NewMemoryStore()
	deliverer := &recordingDeliverer{}
	engine := NewElectionService(store, deliverer, zap.NewNop(), testAdminEmail, testAdminPassword)
	ctx := context.Background()
	require.NoError(t, engine.Load(ctx))
	stubOTP(engine, "483920")

	require.NoError(t, engine.RegisterVoter(ctx, "a@b.com"))

	// The registry record is written before the delivery signal.
	voters, err := engine.Voters(adminUser())
	require.NoError(t, err)
	require.Len(t, voters, 1)
	assert.Equal(t, "483920", voters[0].OTP)
	assert.False(t, voters[0].HasVoted)

	assert.Eventually(t, func() bool {
		deliverer.mu.Lock()
		defer deliverer.mu.Unlock()
		return len(deliverer.delivered) == 1 && deliverer.delivered[0] == "483920"
	}, time.Second, 10*time.Millisecond)
}

func TestRegisterVoter_ReissueInvalidatesPriorCode(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	stubOTP(engine, "111111", "222222")
	require.NoError(t, engine.RegisterVoter(ctx, "a@b.com"))
	require.NoError(t, engine.RegisterVoter(ctx, "a@b.com"))

	_, err := engine.VerifyOTP(ctx, "a@b.com", "111111")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	user, err := engine.VerifyOTP(ctx, "a@b.com", "222222")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVoter, user.Role)

	// Re-registration never duplicates the record.
	voters, err := engine.Voters(adminUser())
	require.NoError(t, err)
	assert.Len(t, voters, 1)
}

func TestVerifyOTP_Rejections(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.VerifyOTP(ctx, "nobody@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrNotRegistered)

	stubOTP(engine, "483920")
	require.NoError(t, engine.RegisterVoter(ctx, "a@b.com"))

	_, err = engine.VerifyOTP(ctx, "a@b.com", "000000")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestVerifyOTP_NotConsumedByVerification(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerAndVerify(t, engine, "a@b.com", "654321")

	// The code stays valid for repeat verification until a vote is cast.
	_, err := engine.VerifyOTP(ctx, "a@b.com", "654321")
	assert.NoError(t, err)
}

func TestCastVote_FullScenario(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	before := engine.Candidates()
	votesBefore := make(map[string]int, len(before))
	for _, c := range before {
		votesBefore[c.ID] = c.Votes
	}

	user := registerAndVerify(t, engine, "a@b.com", "111111")

	selections := domain.VoteSelection{
		domain.DepartmentPresident:     "c1",
		domain.DepartmentVicePresident: "c3",
		domain.DepartmentSecretary:     "c5",
		domain.DepartmentTreasurer:     "c6",
	}
	require.NoError(t, engine.CastVote(ctx, user, selections))

	after := engine.Candidates()
	for _, c := range after {
		switch c.ID {
		case "c1", "c3", "c5", "c6":
			assert.Equal(t, votesBefore[c.ID]+1, c.Votes, "candidate %s", c.ID)
		default:
			assert.Equal(t, votesBefore[c.ID], c.Votes, "candidate %s", c.ID)
		}
	}

	voters, err := engine.Voters(adminUser())
	require.NoError(t, err)
	require.Len(t, voters, 1)
	assert.True(t, voters[0].HasVoted)
	assert.Empty(t, voters[0].OTP)
}

func TestCastVote_ExactlyOnce(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	user := registerAndVerify(t, engine, "a@b.com", "111111")
	require.NoError(t, engine.CastVote(ctx, user, domain.VoteSelection{domain.DepartmentPresident: "c1"}))

	// Any further engine-mutating call for the email is rejected.
	err := engine.CastVote(ctx, user, domain.VoteSelection{domain.DepartmentPresident: "c2"})
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	err = engine.RegisterVoter(ctx, "a@b.com")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	_, err = engine.VerifyOTP(ctx, "a@b.com", "111111")
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestCastVote_DuplicateCandidateAcrossDepartments(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	user := registerAndVerify(t, engine, "a@b.com", "111111")

	// c1 selected for two races still gets exactly one increment.
	selections := domain.VoteSelection{
		domain.DepartmentPresident:     "c1",
		domain.DepartmentVicePresident: "c1",
	}
	require.NoError(t, engine.CastVote(ctx, user, selections))

	for _, c := range engine.Candidates() {
		if c.ID == "c1" {
			assert.Equal(t, 46, c.Votes)
		}
	}
}

func TestCastVote_PartialSelectionAndUnknownIDs(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	user := registerAndVerify(t, engine, "a@b.com", "111111")

	// Only the departments present receive a vote; an id that matches no
	// candidate (e.g. one removed mid-ballot) is ignored.
	selections := domain.VoteSelection{
		domain.DepartmentPresident: "c2",
		domain.DepartmentSecretary: "gone",
	}
	require.NoError(t, engine.CastVote(ctx, user, selections))

	for _, c := range engine.Candidates() {
		switch c.ID {
		case "c2":
			assert.Equal(t, 39, c.Votes)
		case "c5":
			assert.Equal(t, 55, c.Votes)
		}
	}

	voters, err := engine.Voters(adminUser())
	require.NoError(t, err)
	assert.True(t, voters[0].HasVoted)
}

func TestCastVote_RequiresVoterSession(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	err := engine.CastVote(ctx, nil, domain.VoteSelection{domain.DepartmentPresident: "c1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = engine.CastVote(ctx, adminUser(), domain.VoteSelection{domain.DepartmentPresident: "c1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// failingStore rejects multi-key writes to prove castVote commits nothing
// when persistence fails.
type failingStore struct {
	repository.SnapshotStore
}

func (f *failingStore) SaveAll(context.Context, map[string]string) error {
	return assert.AnError
}

func TestCastVote_AtomicUnderPersistFailure(t *testing.T) {
	mem := repository.NewMemoryStore()
	engine := NewElectionService(&failingStore{SnapshotStore: mem}, &recordingDeliverer{}, zap.NewNop(), testAdminEmail, testAdminPassword)
	ctx := context.Background()
	require.NoError(t, engine.Load(ctx))

	user := registerAndVerify(t, engine, "a@b.com", "111111")

	err := engine.CastVote(ctx, user, domain.VoteSelection{domain.DepartmentPresident: "c1"})
	require.Error(t, err)

	// Neither side of the transition happened: counters untouched, voter
	// still pending with a live code.
	for _, c := range engine.Candidates() {
		if c.ID == "c1" {
			assert.Equal(t, 45, c.Votes)
		}
	}
	voters, verr := engine.Voters(adminUser())
	require.NoError(t, verr)
	assert.False(t, voters[0].HasVoted)
	assert.Equal(t, "111111", voters[0].OTP)

	_, err = engine.VerifyOTP(ctx, "a@b.com", "111111")
	assert.NoError(t, err)
}

func TestPersistence_RoundTripIsByteIdentical(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	user := registerAndVerify(t, engine, "a@b.com", "111111")
	require.NoError(t, engine.RegisterVoter(ctx, "b@c.com"))
	require.NoError(t, engine.CastVote(ctx, user, domain.VoteSelection{domain.DepartmentPresident: "c1"}))

	candidatesRaw, _, err := store.Load(ctx, repository.SnapshotCandidates)
	require.NoError(t, err)
	votersRaw, _, err := store.Load(ctx, repository.SnapshotVoters)
	require.NoError(t, err)

	// Reload into a second engine backed by the same store and re-serialize.
	reloaded := NewElectionService(store, &recordingDeliverer{}, zap.NewNop(), testAdminEmail, testAdminPassword)
	require.NoError(t, reloaded.Load(ctx))

	candidatesAgain, err := json.Marshal(reloaded.Candidates())
	require.NoError(t, err)
	votersList, err := reloaded.Voters(adminUser())
	require.NoError(t, err)
	votersAgain, err := json.Marshal(votersList)
	require.NoError(t, err)

	assert.Equal(t, candidatesRaw, string(candidatesAgain))
	assert.Equal(t, votersRaw, string(votersAgain))
}

func TestCandidateRegistry_AdminGuard(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	voter := &domain.User{Email: "a@b.com", Role: domain.RoleVoter}
	form := domain.CandidateForm{Name: "New Person", Department: domain.DepartmentSecretary}

	before := engine.Candidates()

	_, err := engine.AddCandidate(ctx, nil, form)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = engine.AddCandidate(ctx, voter, form)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.ErrorIs(t, engine.RemoveCandidate(ctx, voter, "c1"), domain.ErrUnauthorized)
	assert.ErrorIs(t, engine.UpdateCandidate(ctx, voter, before[0]), domain.ErrUnauthorized)

	assert.Equal(t, before, engine.Candidates())
}

func TestCandidateRegistry_CRUD(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	admin := adminUser()

	added, err := engine.AddCandidate(ctx, admin, domain.CandidateForm{
		Name:       "New Person",
		Department: domain.DepartmentSecretary,
		Bio:        "bio",
		ImageURL:   "https://example.com/p.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Zero(t, added.Votes)
	assert.Len(t, engine.Candidates(), 7)

	updated := *added
	updated.Name = "Renamed Person"
	updated.Votes = 10 // wholesale replace, counter included
	require.NoError(t, engine.UpdateCandidate(ctx, admin, updated))
	found := false
	for _, c := range engine.Candidates() {
		if c.ID == added.ID {
			found = true
			assert.Equal(t, "Renamed Person", c.Name)
			assert.Equal(t, 10, c.Votes)
		}
	}
	require.True(t, found)

	// Unknown id: no change, no error.
	ghost := updated
	ghost.ID = "ghost"
	require.NoError(t, engine.UpdateCandidate(ctx, admin, ghost))
	assert.Len(t, engine.Candidates(), 7)

	require.NoError(t, engine.RemoveCandidate(ctx, admin, added.ID))
	assert.Len(t, engine.Candidates(), 6)
	assert.ErrorIs(t, engine.RemoveCandidate(ctx, admin, added.ID), domain.ErrNotFound)
}

func TestLoginAdmin(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, _, err := engine.LoginAdmin(ctx, testAdminEmail, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = engine.LoginAdmin(ctx, "someone@else.com", testAdminPassword)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, status, err := engine.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.False(t, status.PriorSessionActive)

	_, ok, err := store.Load(ctx, repository.SnapshotAdminSession)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginAdmin_SingleSessionHeuristicIsAdvisory(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	base := time.Now()
	engine.now = func() time.Time { return base }
	_, _, err := engine.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	// A second login inside the window reports the live marker but is still
	// permitted, matching the reference behavior (a known gap, not a lock).
	engine.now = func() time.Time { return base.Add(10 * time.Minute) }
	user, status, err := engine.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	assert.NotNil(t, user)
	assert.True(t, status.PriorSessionActive)
	require.NotNil(t, status.PriorStartedAt)
	assert.Equal(t, base.UnixMilli(), status.PriorStartedAt.UnixMilli())

	// Past the window the marker is stale and not reported.
	engine.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, status, err = engine.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	assert.False(t, status.PriorSessionActive)
}

func TestLogout_ClearsMarkerForAdminOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	admin, _, err := engine.LoginAdmin(ctx, testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	// A voter logout leaves the admin marker alone.
	require.NoError(t, engine.Logout(ctx, &domain.User{Email: "a@b.com", Role: domain.RoleVoter}))
	_, ok, err := store.Load(ctx, repository.SnapshotAdminSession)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, engine.Logout(ctx, admin))
	_, ok, err = store.Load(ctx, repository.SnapshotAdminSession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResults(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	user := registerAndVerify(t, engine, "a@b.com", "111111")
	require.NoError(t, engine.CastVote(ctx, user, domain.VoteSelection{domain.DepartmentPresident: "c2"}))

	results := engine.Results()
	require.Len(t, results.Departments, 4)
	assert.Equal(t, 1, results.BallotsCast)

	president := results.Departments[0]
	assert.Equal(t, domain.DepartmentPresident, president.Department)
	require.Len(t, president.Candidates, 2)
	assert.Equal(t, "c1", president.Candidates[0].ID) // 45 > 39
	assert.Equal(t, 1, president.Candidates[0].Rank)
	assert.True(t, president.Candidates[0].IsLeading)
	assert.Equal(t, "c2", president.Candidates[1].ID)
	assert.Equal(t, 39, president.Candidates[1].Votes)
	assert.Equal(t, 84, president.TotalVotes)
	assert.InDelta(t, 53.57, president.Candidates[0].Percentage, 0.01)
}
