package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"evote-api/internal/domain"
	"evote-api/internal/repository"
)

// adminSessionWindow is how long an admin session marker is considered live
// for the single-device heuristic.
const adminSessionWindow = time.Hour

// AdminSessionStatus reports the single-admin-session check performed at
// login. The check is advisory: a live prior session is surfaced to the
// caller but never blocks the login.
type AdminSessionStatus struct {
	PriorSessionActive bool       `json:"prior_session_active"`
	PriorStartedAt     *time.Time `json:"prior_started_at,omitempty"`
}

// ElectionService owns the canonical candidate list and voter registry and is
// the sole mutator of persisted election state. Every operation validates
// before touching state, writes the snapshot, and only then commits the
// in-memory copy, so a failed persist never leaves the two views disagreeing.
//
// One mutex serializes all operations; the original ran on a single-threaded
// event loop and the engine keeps that execution model under HTTP concurrency.
type ElectionService struct {
	mu    sync.Mutex
	store repository.SnapshotStore

	candidates []domain.Candidate
	voters     []domain.Voter

	deliverer OTPDeliverer
	logger    *zap.Logger

	adminEmail    string
	adminPassword string

	// Seams for deterministic tests.
	generateOTP func() (string, error)
	now         func() time.Time
}

// NewElectionService creates the engine. Call Load before serving traffic.
func NewElectionService(store repository.SnapshotStore, deliverer OTPDeliverer, logger *zap.Logger, adminEmail, adminPassword string) *ElectionService {
	return &ElectionService{
		store:         store,
		deliverer:     deliverer,
		logger:        logger,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		generateOTP:   GenerateOTP,
		now:           time.Now,
	}
}

// Load reads the persisted snapshots into memory. A missing candidate
// snapshot seeds the demo ballot so a fresh deployment has something to show.
func (s *ElectionService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.store.Load(ctx, repository.SnapshotCandidates)
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.candidates); err != nil {
			return fmt.Errorf("corrupt candidates snapshot: %w", err)
		}
	} else {
		s.candidates = domain.SeedCandidates()
		if err := s.persistCandidates(ctx, s.candidates); err != nil {
			return err
		}
		s.logger.Info("seeded demo candidates", zap.Int("count", len(s.candidates)))
	}

	raw, ok, err = s.store.Load(ctx, repository.SnapshotVoters)
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.voters); err != nil {
			return fmt.Errorf("corrupt voters snapshot: %w", err)
		}
	} else {
		s.voters = []domain.Voter{}
		if err := s.persistVoters(ctx, s.voters); err != nil {
			return err
		}
	}

	s.logger.Info("election state loaded",
		zap.Int("candidates", len(s.candidates)),
		zap.Int("voters", len(s.voters)))
	return nil
}

// Candidates returns a copy of the ballot.
func (s *ElectionService) Candidates() []domain.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCandidates(s.candidates)
}

// Voters returns a copy of the registry; admin only.
func (s *ElectionService) Voters(actor *domain.User) ([]domain.Voter, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Voter, len(s.voters))
	copy(out, s.voters)
	return out, nil
}

// AddCandidate appends a candidate with a fresh id and a zero vote counter.
// There is deliberately no duplicate-name check.
func (s *ElectionService) AddCandidate(ctx context.Context, actor *domain.User, form domain.CandidateForm) (*domain.Candidate, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if form.Name == "" {
		return nil, fmt.Errorf("candidate name is required")
	}
	if !form.Department.IsValid() {
		return nil, fmt.Errorf("unknown department %q", form.Department)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := domain.Candidate{
		ID:         uuid.NewString(),
		Name:       form.Name,
		Department: form.Department,
		Bio:        form.Bio,
		ImageURL:   form.ImageURL,
		Votes:      0,
	}

	next := append(cloneCandidates(s.candidates), candidate)
	if err := s.persistCandidates(ctx, next); err != nil {
		return nil, err
	}
	s.candidates = next

	s.logger.Info("candidate added",
		zap.String("candidate_id", candidate.ID),
		zap.String("department", string(candidate.Department)))
	return &candidate, nil
}

// RemoveCandidate deletes a candidate. There is no guard against an
// in-progress ballot still referencing the id; such a selection simply stops
// matching anything at cast time.
func (s *ElectionService) RemoveCandidate(ctx context.Context, actor *domain.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Candidate, 0, len(s.candidates))
	found := false
	for _, c := range s.candidates {
		if c.ID == id {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		return domain.ErrNotFound
	}

	if err := s.persistCandidates(ctx, next); err != nil {
		return err
	}
	s.candidates = next

	s.logger.Info("candidate removed", zap.String("candidate_id", id))
	return nil
}

// UpdateCandidate replaces the record matching the id wholesale. An unknown
// id changes nothing and is not an error, matching the reference behavior.
func (s *ElectionService) UpdateCandidate(ctx context.Context, actor *domain.User, candidate domain.Candidate) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if !candidate.Department.IsValid() {
		return fmt.Errorf("unknown department %q", candidate.Department)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneCandidates(s.candidates)
	changed := false
	for i := range next {
		if next[i].ID == candidate.ID {
			next[i] = candidate
			changed = true
		}
	}
	if !changed {
		return nil
	}

	if err := s.persistCandidates(ctx, next); err != nil {
		return err
	}
	s.candidates = next

	s.logger.Info("candidate updated", zap.String("candidate_id", candidate.ID))
	return nil
}

// RegisterVoter issues a fresh one-time code for the email, creating the
// registry record or replacing its previous code. Retrying before
// verification simply reissues, invalidating the prior code. The registry
// snapshot is persisted before the delivery signal fires.
func (s *ElectionService) RegisterVoter(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.voterIndex(email)
	if idx >= 0 && s.voters[idx].HasVoted {
		return domain.ErrAlreadyVoted
	}

	code, err := s.generateOTP()
	if err != nil {
		return err
	}

	next := make([]domain.Voter, len(s.voters))
	copy(next, s.voters)
	if idx >= 0 {
		next[idx].OTP = code
	} else {
		next = append(next, domain.Voter{Email: email, HasVoted: false, OTP: code})
	}

	if err := s.persistVoters(ctx, next); err != nil {
		return err
	}
	s.voters = next

	s.logger.Info("otp issued", zap.String("email", email))

	// Delivery is fire-and-forget; the registry write above already happened,
	// so a concurrent verify can only ever see the new code.
	go s.deliver(email, code)
	return nil
}

// VerifyOTP checks the submitted code and, on success, establishes a voter
// session. Verification does not consume the code: it stays valid for repeat
// attempts until a vote is cast or a new code is issued.
func (s *ElectionService) VerifyOTP(ctx context.Context, email, code string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.voterIndex(email)
	if idx < 0 {
		return nil, domain.ErrNotRegistered
	}
	voter := s.voters[idx]
	if voter.HasVoted {
		return nil, domain.ErrAlreadyVoted
	}
	if voter.OTP == "" || voter.OTP != code {
		return nil, domain.ErrInvalidCode
	}

	s.logger.Info("voter verified", zap.String("email", email))
	return &domain.User{Email: email, Role: domain.RoleVoter}, nil
}

// CastVote applies the ballot: one increment per distinct candidate id in the
// selection, then marks the voter voted and clears the code. Both snapshots
// are written in a single atomic store operation; in-memory state commits
// only after that write succeeds. Partial selections are accepted; ids that
// match no candidate are ignored.
func (s *ElectionService) CastVote(ctx context.Context, actor *domain.User, selections domain.VoteSelection) error {
	if actor == nil || actor.Role != domain.RoleVoter {
		return domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.voterIndex(actor.Email)
	if idx < 0 {
		return domain.ErrNotRegistered
	}
	if s.voters[idx].HasVoted {
		return domain.ErrAlreadyVoted
	}

	// A candidate selected for two departments still gets a single increment.
	chosen := make(map[string]bool, len(selections))
	for _, candidateID := range selections {
		chosen[candidateID] = true
	}

	nextCandidates := cloneCandidates(s.candidates)
	for i := range nextCandidates {
		if chosen[nextCandidates[i].ID] {
			nextCandidates[i].Votes++
		}
	}

	nextVoters := make([]domain.Voter, len(s.voters))
	copy(nextVoters, s.voters)
	nextVoters[idx].HasVoted = true
	nextVoters[idx].OTP = ""

	candidatesPayload, err := json.Marshal(nextCandidates)
	if err != nil {
		return fmt.Errorf("failed to serialize candidates: %w", err)
	}
	votersPayload, err := json.Marshal(nextVoters)
	if err != nil {
		return fmt.Errorf("failed to serialize voters: %w", err)
	}

	if err := s.store.SaveAll(ctx, map[string]string{
		repository.SnapshotCandidates: string(candidatesPayload),
		repository.SnapshotVoters:     string(votersPayload),
	}); err != nil {
		return fmt.Errorf("failed to persist ballot: %w", err)
	}

	s.candidates = nextCandidates
	s.voters = nextVoters

	s.logger.Info("ballot cast",
		zap.String("email", actor.Email),
		zap.Int("departments", len(selections)))
	return nil
}

// LoginAdmin checks the configured credentials and records the session
// marker. A prior marker younger than the session window is reported but does
// not block the login; the heuristic is advisory only.
func (s *ElectionService) LoginAdmin(ctx context.Context, email, password string) (*domain.User, *AdminSessionStatus, error) {
	if email != s.adminEmail || password != s.adminPassword {
		return nil, nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := &AdminSessionStatus{}
	raw, ok, err := s.store.Load(ctx, repository.SnapshotAdminSession)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		if millis, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			startedAt := time.UnixMilli(millis)
			if s.now().Sub(startedAt) < adminSessionWindow {
				status.PriorSessionActive = true
				status.PriorStartedAt = &startedAt
				s.logger.Warn("admin login while another session marker is live",
					zap.Time("prior_started_at", startedAt))
			}
		}
	}

	marker := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.store.Save(ctx, repository.SnapshotAdminSession, marker); err != nil {
		return nil, nil, err
	}

	s.logger.Info("admin logged in", zap.Bool("prior_session_active", status.PriorSessionActive))
	return &domain.User{Email: email, Role: domain.RoleAdmin}, status, nil
}

// Logout clears the admin session marker when the departing session is an
// admin one. Voter logouts touch nothing.
func (s *ElectionService) Logout(ctx context.Context, actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, repository.SnapshotAdminSession); err != nil {
		return err
	}
	s.logger.Info("admin session marker cleared")
	return nil
}

// Results computes the live per-department tally.
func (s *ElectionService) Results() domain.ElectionResults {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := domain.ElectionResults{
		Departments: make([]domain.DepartmentResult, 0, 4),
		LastUpdate:  s.now().UTC(),
	}

	for _, dept := range domain.Departments() {
		var standings []domain.CandidateStanding
		deptTotal := 0
		for _, c := range s.candidates {
			if c.Department != dept {
				continue
			}
			standings = append(standings, domain.CandidateStanding{Candidate: c})
			deptTotal += c.Votes
		}

		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].Votes > standings[j].Votes
		})
		for i := range standings {
			standings[i].Rank = i + 1
			if deptTotal > 0 {
				standings[i].Percentage = float64(standings[i].Votes) / float64(deptTotal) * 100
			}
			standings[i].IsLeading = i == 0 && standings[i].Votes > 0
		}

		results.Departments = append(results.Departments, domain.DepartmentResult{
			Department: dept,
			Candidates: standings,
			TotalVotes: deptTotal,
		})
		results.TotalVotes += deptTotal
	}

	for _, v := range s.voters {
		if v.HasVoted {
			results.BallotsCast++
		}
	}
	return results
}

// deliver hands the code to the out-of-band channel. Errors are logged, not
// surfaced: issuance already succeeded and cannot be aborted.
func (s *ElectionService) deliver(email, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.deliverer.Deliver(ctx, email, code); err != nil {
		s.logger.Error("otp delivery failed",
			zap.String("email", email),
			zap.Error(err))
	}
}

// voterIndex returns the registry index for the email, or -1. Emails are
// compared case-sensitively.
func (s *ElectionService) voterIndex(email string) int {
	for i, v := range s.voters {
		if v.Email == email {
			return i
		}
	}
	return -1
}

func (s *ElectionService) persistCandidates(ctx context.Context, candidates []domain.Candidate) error {
	payload, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to serialize candidates: %w", err)
	}
	return s.store.Save(ctx, repository.SnapshotCandidates, string(payload))
}

func (s *ElectionService) persistVoters(ctx context.Context, voters []domain.Voter) error {
	payload, err := json.Marshal(voters)
	if err != nil {
		return fmt.Errorf("failed to serialize voters: %w", err)
	}
	return s.store.Save(ctx, repository.SnapshotVoters, string(payload))
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return domain.ErrUnauthorized
	}
	return nil
}

func cloneCandidates(in []domain.Candidate) []domain.Candidate {
	out := make([]domain.Candidate, len(in))
	copy(out, in)
	return out
}
