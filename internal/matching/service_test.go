package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/serendiblabs/mangala-backend/internal/profile"
)

// fakeRepository keeps directed match records in memory and doubles as
// its own transaction handle.
type fakeRepository struct {
	mu         sync.Mutex
	records    map[[2]int64]*MatchRecord
	candidates []*profile.Profile
	horoscopes map[int64]*profile.Horoscope
	profiles   map[int64]*profile.Profile
	nextID     int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		records:    make(map[[2]int64]*MatchRecord),
		horoscopes: make(map[int64]*profile.Horoscope),
		profiles:   make(map[int64]*profile.Profile),
	}
}

func (f *fakeRepository) FindCandidates(ctx context.Context, filter *CandidateFilter) ([]*profile.Profile, error) {
	return f.candidates, nil
}

func (f *fakeRepository) GetProfiles(ctx context.Context, userIDs []int64) (map[int64]*profile.Profile, error) {
	out := make(map[int64]*profile.Profile)
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeRepository) GetHoroscopes(ctx context.Context, userIDs []int64) (map[int64]*profile.Horoscope, error) {
	out := make(map[int64]*profile.Horoscope)
	for _, id := range userIDs {
		if h, ok := f.horoscopes[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateRecords(ctx context.Context, records []*MatchRecord) error {
	for _, rec := range records {
		key := [2]int64{rec.UserID, rec.MatchedUserID}
		if _, exists := f.records[key]; exists {
			continue
		}
		f.nextID++
		rec.ID = f.nextID
		f.records[key] = rec
	}
	return nil
}

func (f *fakeRepository) GetRecord(ctx context.Context, userID, matchedUserID int64) (*MatchRecord, error) {
	rec, ok := f.records[[2]int64{userID, matchedUserID}]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeRepository) GetMutualMatches(ctx context.Context, userID int64) ([]*MatchRecord, error) {
	var out []*MatchRecord
	for key, rec := range f.records {
		if key[0] == userID && rec.Status == StatusMutual {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetWhoLikedMe(ctx context.Context, userID int64) ([]*MatchRecord, error) {
	var out []*MatchRecord
	for key, rec := range f.records {
		if key[1] == userID && rec.UserAction.IsPositive() && rec.Status != StatusMutual {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepository) CanCommunicate(ctx context.Context, userID, otherID int64) (bool, error) {
	rec, ok := f.records[[2]int64{userID, otherID}]
	return ok && rec.CanCommunicate, nil
}

func (f *fakeRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	var expired int64
	for _, rec := range f.records {
		if rec.Status == StatusPending && rec.ExpiresAt != nil && rec.ExpiresAt.Before(cutoff) {
			rec.Status = StatusExpired
			expired++
		}
	}
	return expired, nil
}

func (f *fakeRepository) GetActiveUserIDs(ctx context.Context, activeSince time.Time) ([]int64, error) {
	return nil, nil
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(tx MatchTx) error) error {
	// Serializes transactions the way the pair advisory lock does
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

func (f *fakeRepository) LockPair(ctx context.Context, userID, otherID int64) (*MatchRecord, *MatchRecord, error) {
	return f.records[[2]int64{userID, otherID}], f.records[[2]int64{otherID, userID}], nil
}

func (f *fakeRepository) CreateRecord(ctx context.Context, rec *MatchRecord) error {
	f.nextID++
	rec.ID = f.nextID
	f.records[[2]int64{rec.UserID, rec.MatchedUserID}] = rec
	return nil
}

func (f *fakeRepository) UpdateRecordActions(ctx context.Context, rec *MatchRecord) error {
	f.records[[2]int64{rec.UserID, rec.MatchedUserID}] = rec
	return nil
}

func (f *fakeRepository) MarkMutual(ctx context.Context, userID, otherID, conversationID int64, at time.Time) error {
	for _, key := range [][2]int64{{userID, otherID}, {otherID, userID}} {
		rec, ok := f.records[key]
		if !ok {
			continue
		}
		rec.Status = StatusMutual
		rec.CanCommunicate = true
		rec.ConversationID = &conversationID
		rec.CommunicationStartedAt = &at
	}
	return nil
}

type fakeProfileStore struct {
	profiles    map[int64]*profile.Profile
	preferences map[int64]*profile.Preference
	horoscopes  map[int64]*profile.Horoscope
}

func (f *fakeProfileStore) GetProfile(ctx context.Context, userID int64) (*profile.Profile, error) {
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return nil, profile.ErrProfileNotFound
}

func (f *fakeProfileStore) GetPreference(ctx context.Context, userID int64) (*profile.Preference, error) {
	if p, ok := f.preferences[userID]; ok {
		return p, nil
	}
	return nil, profile.ErrPreferenceNotFound
}

func (f *fakeProfileStore) GetHoroscope(ctx context.Context, userID int64) (*profile.Horoscope, error) {
	if h, ok := f.horoscopes[userID]; ok {
		return h, nil
	}
	return nil, profile.ErrHoroscopeNotFound
}

type fakeConversations struct {
	nextID int64
	calls  int
}

func (f *fakeConversations) GetOrCreateDirectConversation(ctx context.Context, a, b int64) (int64, error) {
	f.calls++
	if f.nextID == 0 {
		f.nextID = 900
	}
	return f.nextID, nil
}

func testProfile(userID int64, gender string) *profile.Profile {
	return &profile.Profile{
		UserID:         userID,
		Gender:         gender,
		Religion:       "Hindu",
		CurrentCountry: "India",
		EducationLevel: "masters",
		Diet:           "vegetarian",
		BirthDate:      time.Now().AddDate(-30, 0, 0),
		ProfileStatus:  "approved",
	}
}

func newTestService(repo *fakeRepository, store *fakeProfileStore, convs *fakeConversations) Service {
	return NewService(repo, store, convs, nil, nil, nil, Config{
		DailyLimit:      10,
		OverFetchFactor: 3,
		ExpiryDays:      30,
	})
}

func twoUserSetup() (*fakeRepository, *fakeProfileStore, *fakeConversations, Service) {
	repo := newFakeRepository()
	store := &fakeProfileStore{
		profiles: map[int64]*profile.Profile{
			1: testProfile(1, "male"),
			2: testProfile(2, "female"),
		},
		preferences: map[int64]*profile.Preference{},
		horoscopes:  map[int64]*profile.Horoscope{},
	}
	repo.profiles = store.profiles
	convs := &fakeConversations{}
	return repo, store, convs, newTestService(repo, store, convs)
}

func TestProcessLikeRejectsSelf(t *testing.T) {
	_, _, _, svc := twoUserSetup()

	_, err := svc.ProcessLike(context.Background(), 1, 1, false)
	require.ErrorIs(t, err, ErrCannotLikeSelf)
}

func TestProcessLikeCreatesRecord(t *testing.T) {
	repo, _, _, svc := twoUserSetup()

	result, err := svc.ProcessLike(context.Background(), 1, 2, false)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.False(t, result.IsMatch)
	require.Equal(t, "Like sent!", result.Message)

	rec, err := repo.GetRecord(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, StatusLiked, rec.Status)
	require.Equal(t, ActionLiked, rec.UserAction)
	require.NotNil(t, rec.UserActionAt)
	require.NotNil(t, rec.ExpiresAt)
}

func TestProcessSuperLikeMessage(t *testing.T) {
	repo, _, _, svc := twoUserSetup()

	result, err := svc.ProcessLike(context.Background(), 1, 2, true)
	require.NoError(t, err)
	require.Equal(t, "Super like sent!", result.Message)

	rec, err := repo.GetRecord(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, StatusSuperLiked, rec.Status)
	require.Equal(t, ActionSuperLiked, rec.UserAction)
}

func TestProcessLikeRejectsDuplicate(t *testing.T) {
	_, _, _, svc := twoUserSetup()

	_, err := svc.ProcessLike(context.Background(), 1, 2, false)
	require.NoError(t, err)

	_, err = svc.ProcessLike(context.Background(), 1, 2, false)
	require.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestProcessLikeRejectsWhenBlockedByTarget(t *testing.T) {
	_, _, _, svc := twoUserSetup()

	_, err := svc.ProcessBlock(context.Background(), 2, 1)
	require.NoError(t, err)

	_, err = svc.ProcessLike(context.Background(), 1, 2, false)
	require.ErrorIs(t, err, ErrLikedUserBlocked)
}

func TestReciprocalLikeBecomesMutual(t *testing.T) {
	repo, _, convs, svc := twoUserSetup()

	first, err := svc.ProcessLike(context.Background(), 2, 1, false)
	require.NoError(t, err)
	require.False(t, first.IsMatch)

	second, err := svc.ProcessLike(context.Background(), 1, 2, false)
	require.NoError(t, err)
	require.True(t, second.IsMatch)
	require.Equal(t, "It's a match!", second.Message)
	require.NotNil(t, second.ConversationID)
	require.Equal(t, int64(900), *second.ConversationID)
	require.Equal(t, 1, convs.calls)

	// Both directed rows flip together
	for _, key := range [][2]int64{{1, 2}, {2, 1}} {
		rec, err := repo.GetRecord(context.Background(), key[0], key[1])
		require.NoError(t, err)
		require.Equal(t, StatusMutual, rec.Status)
		require.True(t, rec.CanCommunicate)
		require.NotNil(t, rec.ConversationID)
		require.Equal(t, int64(900), *rec.ConversationID)
		require.NotNil(t, rec.CommunicationStartedAt)
	}
}

func TestConcurrentFirstContactLikesFlipExactlyOnce(t *testing.T) {
	repo, _, convs, svc := twoUserSetup()

	// Neither directed row exists yet; whichever like commits second
	// must see the first and perform the single mutual flip.
	type outcome struct {
		result *LikeResult
		err    error
	}
	outcomes := make(chan outcome, 2)

	var wg sync.WaitGroup
	for _, pair := range [][2]int64{{1, 2}, {2, 1}} {
		wg.Add(1)
		go func(initiatorID, targetID int64) {
			defer wg.Done()
			result, err := svc.ProcessLike(context.Background(), initiatorID, targetID, false)
			outcomes <- outcome{result: result, err: err}
		}(pair[0], pair[1])
	}
	wg.Wait()
	close(outcomes)

	flips := 0
	for o := range outcomes {
		require.NoError(t, o.err)
		require.True(t, o.result.Success)
		if o.result.IsMatch {
			flips++
		}
	}
	require.Equal(t, 1, flips)
	require.Equal(t, 1, convs.calls)

	for _, key := range [][2]int64{{1, 2}, {2, 1}} {
		rec, err := repo.GetRecord(context.Background(), key[0], key[1])
		require.NoError(t, err)
		require.Equal(t, StatusMutual, rec.Status)
		require.True(t, rec.CanCommunicate)
	}
}

func TestDislikeDoesNotTriggerReciprocity(t *testing.T) {
	repo, _, convs, svc := twoUserSetup()

	_, err := svc.ProcessLike(context.Background(), 2, 1, false)
	require.NoError(t, err)

	result, err := svc.ProcessDislike(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 0, convs.calls)

	rec, err := repo.GetRecord(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, StatusDisliked, rec.Status)
	require.Equal(t, ActionDisliked, rec.UserAction)
}

func TestLikeAfterDislikeOverwrites(t *testing.T) {
	repo, _, _, svc := twoUserSetup()

	_, err := svc.ProcessDislike(context.Background(), 1, 2)
	require.NoError(t, err)

	result, err := svc.ProcessLike(context.Background(), 1, 2, false)
	require.NoError(t, err)
	require.True(t, result.Success)

	rec, err := repo.GetRecord(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, ActionLiked, rec.UserAction)
}

func TestLikeMirroredOntoReverseRow(t *testing.T) {
	repo, _, _, svc := twoUserSetup()

	_, err := svc.ProcessLike(context.Background(), 2, 1, false)
	require.NoError(t, err)

	_, err = svc.ProcessDislike(context.Background(), 1, 2)
	require.NoError(t, err)

	reverse, err := repo.GetRecord(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Equal(t, ActionDisliked, reverse.MatchedUserAction)
	require.NotNil(t, reverse.MatchedUserActionAt)
}

func TestFindMatchesEmptyWithoutProfile(t *testing.T) {
	repo := newFakeRepository()
	store := &fakeProfileStore{
		profiles:    map[int64]*profile.Profile{},
		preferences: map[int64]*profile.Preference{},
		horoscopes:  map[int64]*profile.Horoscope{},
	}
	svc := newTestService(repo, store, &fakeConversations{})

	matches, err := svc.FindMatches(context.Background(), 1, 10, TypeSearchResult)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestFindMatchesEmptyWithoutPreference(t *testing.T) {
	repo, store, _, svc := twoUserSetup()
	repo.candidates = []*profile.Profile{testProfile(2, "female")}
	delete(store.preferences, 1)

	matches, err := svc.FindMatches(context.Background(), 1, 10, TypeSearchResult)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestFindMatchesScoresRanksAndRecords(t *testing.T) {
	repo, store, _, svc := twoUserSetup()
	store.preferences[1] = &profile.Preference{
		UserID:                     1,
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}

	strong := testProfile(2, "female")
	strong.CompletionScore = 100
	strong.ApprovedPhotoCount = 1
	strong.LastActiveAt = timePtr(time.Now())

	weak := testProfile(3, "female")
	weak.Religion = "Buddhist"
	weak.Diet = "non_vegetarian"
	weak.EducationLevel = "high_school"

	repo.candidates = []*profile.Profile{weak, strong}

	matches, err := svc.FindMatches(context.Background(), 1, 10, TypeAISuggestion)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	require.Equal(t, int64(2), matches[0].UserID)
	require.Equal(t, 1, matches[0].Rank)
	require.Equal(t, int64(3), matches[1].UserID)
	require.Equal(t, 2, matches[1].Rank)
	require.Greater(t, matches[0].Scores.Total, matches[1].Scores.Total)
	require.Contains(t, []string(matches[0].Factors), "same_religion")

	// Pending records persisted for both candidates
	for _, candidateID := range []int64{2, 3} {
		rec, err := repo.GetRecord(context.Background(), 1, candidateID)
		require.NoError(t, err)
		require.Equal(t, StatusPending, rec.Status)
		require.Equal(t, TypeAISuggestion, rec.MatchType)
		require.NotNil(t, rec.ExpiresAt)
	}
}

func TestFindMatchesRespectsLimit(t *testing.T) {
	repo, store, _, svc := twoUserSetup()
	store.preferences[1] = &profile.Preference{
		UserID:                     1,
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}

	for id := int64(2); id <= 6; id++ {
		repo.candidates = append(repo.candidates, testProfile(id, "female"))
	}

	matches, err := svc.FindMatches(context.Background(), 1, 3, TypeSearchResult)
	require.NoError(t, err)
	require.Len(t, matches, 3)
}

func TestGetMutualMatchesHydratesProfiles(t *testing.T) {
	repo, _, _, svc := twoUserSetup()

	_, err := svc.ProcessLike(context.Background(), 2, 1, false)
	require.NoError(t, err)
	_, err = svc.ProcessLike(context.Background(), 1, 2, false)
	require.NoError(t, err)

	matches, err := svc.GetMutualMatches(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].MatchedProfile)
	require.Equal(t, int64(2), matches[0].MatchedProfile.UserID)

	rec, err := repo.GetRecord(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, StatusMutual, rec.Status)
}

func TestGetWhoLikedMeHydratesLiker(t *testing.T) {
	_, _, _, svc := twoUserSetup()

	_, err := svc.ProcessLike(context.Background(), 2, 1, false)
	require.NoError(t, err)

	likes, err := svc.GetWhoLikedMe(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	require.Equal(t, int64(2), likes[0].UserID)
	require.NotNil(t, likes[0].MatchedProfile)
	require.Equal(t, int64(2), likes[0].MatchedProfile.UserID)
}

type fakeDailyCache struct {
	stored []*ScoredCandidate
	ops    []string
}

func (f *fakeDailyCache) Get(ctx context.Context, userID int64) ([]*ScoredCandidate, error) {
	f.ops = append(f.ops, "get")
	return f.stored, nil
}

func (f *fakeDailyCache) Set(ctx context.Context, userID int64, matches []*ScoredCandidate) error {
	f.ops = append(f.ops, "set")
	f.stored = matches
	return nil
}

func (f *fakeDailyCache) AcquireGenerationLock(ctx context.Context, userID int64) (bool, error) {
	f.ops = append(f.ops, "lock")
	return true, nil
}

func (f *fakeDailyCache) ReleaseGenerationLock(ctx context.Context, userID int64) {
	f.ops = append(f.ops, "unlock")
}

func TestGenerateDailyMatchesReleasesGenerationLock(t *testing.T) {
	repo, store, _, _ := twoUserSetup()
	store.preferences[1] = &profile.Preference{
		UserID:                     1,
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}
	repo.candidates = []*profile.Profile{testProfile(2, "female")}

	cache := &fakeDailyCache{}
	svc := NewService(repo, store, &fakeConversations{}, cache, nil, nil, Config{
		DailyLimit:      10,
		OverFetchFactor: 3,
		ExpiryDays:      30,
	})

	matches, err := svc.GenerateDailyMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// The lock winner releases right after writing the result, not
	// when the lock TTL runs out
	require.Equal(t, []string{"get", "lock", "set", "unlock"}, cache.ops)

	// A second call is served from the cache without re-locking
	cached, err := svc.GenerateDailyMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	require.Equal(t, "get", cache.ops[len(cache.ops)-1])
}

func TestExpirePendingMatches(t *testing.T) {
	repo, store, _, svc := twoUserSetup()
	store.preferences[1] = &profile.Preference{
		UserID:                     1,
		AcceptWithChildren:         true,
		AcceptPhysicallyChallenged: true,
	}
	repo.candidates = []*profile.Profile{testProfile(2, "female")}

	_, err := svc.FindMatches(context.Background(), 1, 10, TypeAISuggestion)
	require.NoError(t, err)

	rec, err := repo.GetRecord(context.Background(), 1, 2)
	require.NoError(t, err)
	past := time.Now().AddDate(0, 0, -1)
	rec.ExpiresAt = &past

	expired, err := svc.ExpirePendingMatches(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), expired)
	require.Equal(t, StatusExpired, rec.Status)
}
