package matching

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

var (
	ErrCannotLikeSelf   = errors.New("cannot like own profile")
	ErrLikedUserBlocked = errors.New("cannot like blocked user")
	ErrAlreadyLiked     = errors.New("already liked this profile")
)

// ProfileStore is the read-only view of profiles, preferences and
// horoscopes the matching engine consumes
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (*profile.Profile, error)
	GetPreference(ctx context.Context, userID int64) (*profile.Preference, error)
	GetHoroscope(ctx context.Context, userID int64) (*profile.Horoscope, error)
}

// ConversationService creates or reuses the direct conversation
// opened when a pair becomes mutual
type ConversationService interface {
	GetOrCreateDirectConversation(ctx context.Context, user1ID, user2ID int64) (int64, error)
}

// Notifier is told about mutual matches after they are committed
type Notifier interface {
	NotifyMutualMatch(ctx context.Context, userID, matchedUserID int64)
}

// DailyCache stores the day's computed suggestions and the short-lived
// lock that collapses concurrent recomputation
type DailyCache interface {
	Get(ctx context.Context, userID int64) ([]*ScoredCandidate, error)
	Set(ctx context.Context, userID int64, matches []*ScoredCandidate) error
	AcquireGenerationLock(ctx context.Context, userID int64) (bool, error)
	ReleaseGenerationLock(ctx context.Context, userID int64)
}

// AuditLogger records match-state transitions for the audit trail
type AuditLogger interface {
	RecordAction(ctx context.Context, userID, targetID int64, action string) error
}

type Service interface {
	GenerateDailyMatches(ctx context.Context, userID int64, limit int) ([]*ScoredCandidate, error)
	FindMatches(ctx context.Context, userID int64, limit int, matchType MatchType) ([]*ScoredCandidate, error)

	ProcessLike(ctx context.Context, initiatorID, targetID int64, isSuperLike bool) (*LikeResult, error)
	ProcessDislike(ctx context.Context, initiatorID, targetID int64) (*ActionResult, error)
	ProcessBlock(ctx context.Context, initiatorID, targetID int64) (*ActionResult, error)

	GetMutualMatches(ctx context.Context, userID int64) ([]*MatchRecord, error)
	GetWhoLikedMe(ctx context.Context, userID int64) ([]*MatchRecord, error)

	// Scheduled jobs
	GenerateDailyMatchesForActiveUsers(ctx context.Context) error
	ExpirePendingMatches(ctx context.Context) (int64, error)
}

type Config struct {
	DailyLimit      int
	OverFetchFactor int
	ExpiryDays      int
}

type service struct {
	repo          Repository
	profiles      ProfileStore
	conversations ConversationService
	scorer        *Scorer
	recorder      *Recorder
	cache         DailyCache
	notifier      Notifier
	audit         AuditLogger
	config        Config
}

func NewService(
	repo Repository,
	profiles ProfileStore,
	conversations ConversationService,
	cache DailyCache,
	notifier Notifier,
	audit AuditLogger,
	config Config,
) Service {
	return &service{
		repo:          repo,
		profiles:      profiles,
		conversations: conversations,
		scorer:        NewScorer(),
		recorder:      NewRecorder(repo, config.ExpiryDays),
		cache:         cache,
		notifier:      notifier,
		audit:         audit,
		config:        config,
	}
}

func (s *service) GenerateDailyMatches(ctx context.Context, userID int64, limit int) ([]*ScoredCandidate, error) {
	if limit <= 0 {
		limit = s.config.DailyLimit
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			log.Printf("daily match cache read failed for user %d: %v", userID, err)
		}
		if cached != nil {
			return cached, nil
		}

		acquired, err := s.cache.AcquireGenerationLock(ctx, userID)
		if err != nil {
			log.Printf("daily match lock failed for user %d: %v", userID, err)
		} else if acquired {
			defer s.cache.ReleaseGenerationLock(ctx, userID)
		} else {
			// Another request is computing; wait briefly for its result
			for i := 0; i < 5; i++ {
				time.Sleep(200 * time.Millisecond)
				if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
					return cached, nil
				}
			}
		}
	}

	matches, err := s.FindMatches(ctx, userID, limit, TypeAISuggestion)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, matches); err != nil {
			log.Printf("daily match cache write failed for user %d: %v", userID, err)
		}
	}

	RecordDailyGeneration(len(matches))
	return matches, nil
}

func (s *service) FindMatches(ctx context.Context, userID int64, limit int, matchType MatchType) ([]*ScoredCandidate, error) {
	if limit <= 0 {
		limit = s.config.DailyLimit
	}

	requester, err := s.loadRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		// Missing profile or preference degrades to an empty result
		return []*ScoredCandidate{}, nil
	}

	filter := BuildCandidateFilter(requester.Profile, requester.Preference, limit, s.config.OverFetchFactor)
	candidates, err := s.repo.FindCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []*ScoredCandidate{}, nil
	}

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.UserID)
	}
	horoscopes, err := s.repo.GetHoroscopes(ctx, ids)
	if err != nil {
		return nil, err
	}

	scored := make([]*ScoredCandidate, 0, len(candidates))
	for _, candidateProfile := range candidates {
		candidate := &Candidate{
			Profile:   candidateProfile,
			Horoscope: horoscopes[candidateProfile.UserID],
		}

		breakdown := s.scorer.Score(requester, candidate)
		ObserveCompatibilityScore(breakdown.Total)

		scored = append(scored, &ScoredCandidate{
			UserID:  candidateProfile.UserID,
			Profile: candidateProfile,
			Scores:  breakdown,
			Factors: DeriveMatchingFactors(requester.Profile, candidateProfile),
		})
	}

	ranked := Rank(scored, limit)

	if err := s.recorder.Record(ctx, userID, ranked, matchType); err != nil {
		return nil, err
	}

	return ranked, nil
}

func (s *service) ProcessLike(ctx context.Context, initiatorID, targetID int64, isSuperLike bool) (*LikeResult, error) {
	if initiatorID == targetID {
		return nil, ErrCannotLikeSelf
	}

	action := ActionLiked
	status := StatusLiked
	sentMessage := "Like sent!"
	if isSuperLike {
		action = ActionSuperLiked
		status = StatusSuperLiked
		sentMessage = "Super like sent!"
	}

	// Profiles are read outside the transaction; the quick score is
	// informational and does not need lock coverage.
	initiatorProfile, _ := s.profiles.GetProfile(ctx, initiatorID)
	targetProfile, _ := s.profiles.GetProfile(ctx, targetID)

	now := time.Now()
	result := &LikeResult{Success: true, Message: sentMessage}

	err := s.repo.WithTx(ctx, func(tx MatchTx) error {
		forward, reverse, err := tx.LockPair(ctx, initiatorID, targetID)
		if err != nil {
			return err
		}

		if reverse != nil && reverse.UserAction == ActionBlocked {
			return ErrLikedUserBlocked
		}
		if forward != nil && forward.UserAction.IsPositive() {
			return ErrAlreadyLiked
		}

		if forward == nil {
			expiresAt := now.AddDate(0, 0, s.config.ExpiryDays)
			forward = &MatchRecord{
				UserID:             initiatorID,
				MatchedUserID:      targetID,
				MatchType:          TypeMutualInterest,
				Status:             status,
				UserAction:         action,
				UserActionAt:       &now,
				MatchedUserAction:  ActionNone,
				CompatibilityScore: s.scorer.QuickScore(initiatorProfile, targetProfile),
				ProfileScore:       s.scorer.QuickScore(initiatorProfile, targetProfile),
				ExpiresAt:          &expiresAt,
			}
			if err := tx.CreateRecord(ctx, forward); err != nil {
				return err
			}
		} else {
			forward.Status = status
			forward.UserAction = action
			forward.UserActionAt = &now
			if err := tx.UpdateRecordActions(ctx, forward); err != nil {
				return err
			}
		}

		// Mirror the action onto the reverse row so each row carries
		// both parties' latest actions
		if reverse != nil {
			reverse.MatchedUserAction = action
			reverse.MatchedUserActionAt = &now
			if err := tx.UpdateRecordActions(ctx, reverse); err != nil {
				return err
			}
		}

		result.MatchID = forward.ID

		if reverse != nil && reverse.UserAction.IsPositive() {
			conversationID, err := s.conversations.GetOrCreateDirectConversation(ctx, initiatorID, targetID)
			if err != nil {
				return err
			}
			if err := tx.MarkMutual(ctx, initiatorID, targetID, conversationID, now); err != nil {
				return err
			}

			result.IsMatch = true
			result.ConversationID = &conversationID
			result.Message = "It's a match!"
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	RecordLike(isSuperLike)
	s.recordAudit(ctx, initiatorID, targetID, string(action))

	if result.IsMatch {
		RecordMutualMatch()
		s.recordAudit(ctx, initiatorID, targetID, "mutual")
		if s.notifier != nil {
			s.notifier.NotifyMutualMatch(ctx, initiatorID, targetID)
		}
	}

	return result, nil
}

func (s *service) ProcessDislike(ctx context.Context, initiatorID, targetID int64) (*ActionResult, error) {
	return s.processNegativeAction(ctx, initiatorID, targetID, ActionDisliked, StatusDisliked, "Profile passed")
}

func (s *service) ProcessBlock(ctx context.Context, initiatorID, targetID int64) (*ActionResult, error) {
	return s.processNegativeAction(ctx, initiatorID, targetID, ActionBlocked, StatusBlocked, "Profile blocked")
}

// processNegativeAction is the simpler half of the state machine: no
// reciprocity check, no conversation side effect.
func (s *service) processNegativeAction(ctx context.Context, initiatorID, targetID int64, action MatchAction, status MatchStatus, message string) (*ActionResult, error) {
	if initiatorID == targetID {
		return nil, ErrCannotLikeSelf
	}

	now := time.Now()

	err := s.repo.WithTx(ctx, func(tx MatchTx) error {
		forward, reverse, err := tx.LockPair(ctx, initiatorID, targetID)
		if err != nil {
			return err
		}

		if forward == nil {
			expiresAt := now.AddDate(0, 0, s.config.ExpiryDays)
			forward = &MatchRecord{
				UserID:            initiatorID,
				MatchedUserID:     targetID,
				MatchType:         TypeMutualInterest,
				Status:            status,
				UserAction:        action,
				UserActionAt:      &now,
				MatchedUserAction: ActionNone,
				ExpiresAt:         &expiresAt,
			}
			if err := tx.CreateRecord(ctx, forward); err != nil {
				return err
			}
		} else {
			forward.Status = status
			forward.UserAction = action
			forward.UserActionAt = &now
			if err := tx.UpdateRecordActions(ctx, forward); err != nil {
				return err
			}
		}

		if reverse != nil {
			reverse.MatchedUserAction = action
			reverse.MatchedUserActionAt = &now
			if err := tx.UpdateRecordActions(ctx, reverse); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, initiatorID, targetID, string(action))

	return &ActionResult{Success: true, Message: message}, nil
}

func (s *service) GetMutualMatches(ctx context.Context, userID int64) ([]*MatchRecord, error) {
	records, err := s.repo.GetMutualMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrateOtherParty(ctx, userID, records)
}

func (s *service) GetWhoLikedMe(ctx context.Context, userID int64) ([]*MatchRecord, error) {
	records, err := s.repo.GetWhoLikedMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrateOtherParty(ctx, userID, records)
}

// hydrateOtherParty attaches the counterpart's profile to each record
func (s *service) hydrateOtherParty(ctx context.Context, userID int64, records []*MatchRecord) ([]*MatchRecord, error) {
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.otherParty(userID))
	}

	profiles, err := s.repo.GetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		rec.MatchedProfile = profiles[rec.otherParty(userID)]
	}
	return records, nil
}

func (rec *MatchRecord) otherParty(userID int64) int64 {
	if rec.UserID == userID {
		return rec.MatchedUserID
	}
	return rec.UserID
}

func (s *service) GenerateDailyMatchesForActiveUsers(ctx context.Context) error {
	activeSince := time.Now().AddDate(0, 0, -30)
	userIDs, err := s.repo.GetActiveUserIDs(ctx, activeSince)
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if _, err := s.GenerateDailyMatches(ctx, userID, s.config.DailyLimit); err != nil {
			log.Printf("daily match generation failed for user %d: %v", userID, err)
		}
	}
	return nil
}

func (s *service) ExpirePendingMatches(ctx context.Context) (int64, error) {
	expired, err := s.repo.ExpirePending(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		RecordExpired(expired)
	}
	return expired, nil
}

// loadRequester returns nil (not an error) when the user has no
// profile or no preference yet
func (s *service) loadRequester(ctx context.Context, userID int64) (*Requester, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pref, err := s.profiles.GetPreference(ctx, userID)
	if errors.Is(err, profile.ErrPreferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	horoscope, err := s.profiles.GetHoroscope(ctx, userID)
	if err != nil && !errors.Is(err, profile.ErrHoroscopeNotFound) {
		return nil, err
	}

	return &Requester{Profile: p, Preference: pref, Horoscope: horoscope}, nil
}

func (s *service) recordAudit(ctx context.Context, userID, targetID int64, action string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.RecordAction(ctx, userID, targetID, action); err != nil {
		log.Printf("audit record failed: %v", err)
	}
}
