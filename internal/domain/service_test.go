package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"example.com/liftlog/internal/domain"
	"example.com/liftlog/internal/persistence/memory"
)

func newTestService(t *testing.T) (*domain.Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	return domain.NewService(repo, nil), repo
}

func register(t *testing.T, svc *domain.Service, username string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), domain.RegisterInput{
		Username:      username,
		Password:      "correct horse",
		PasswordAgain: "correct horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func classWithReps(t *testing.T, svc *domain.Service, reps int) domain.ExerciseClass {
	t.Helper()
	classes, err := svc.ListClasses(context.Background())
	if err != nil {
		t.Fatalf("list classes: %v", err)
	}
	for _, c := range classes {
		if c.Reps == reps {
			return c
		}
	}
	t.Fatalf("no class with %d reps", reps)
	return domain.ExerciseClass{}
}

func logLift(t *testing.T, svc *domain.Service, userID, typeID, classID string, weight float64, date time.Time, public bool) *domain.Exercise {
	t.Helper()
	ex, err := svc.LogExercise(context.Background(), userID, domain.LogExerciseInput{
		TypeID:  typeID,
		ClassID: classID,
		Weight:  weight,
		Date:    date,
		Public:  public,
	})
	if err != nil {
		t.Fatalf("log exercise: %v", err)
	}
	return ex
}

func TestRegisterSeedsDefaultTypes(t *testing.T) {
	svc, _ := newTestService(t)
	user := register(t, svc, "ronnie")

	if user.ExerciseCount != 0 || user.CommentCount != 0 {
		t.Fatalf("expected zero counters got %d/%d", user.ExerciseCount, user.CommentCount)
	}

	types, err := svc.ListTypes(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list types: %v", err)
	}
	if len(types) != 3 {
		t.Fatalf("expected 3 seeded types got %d", len(types))
	}
	// Ordered by name.
	names := []string{"Back squat", "Bench press", "Deadlift"}
	for i, et := range types {
		if et.Name != names[i] {
			t.Fatalf("type %d: expected %s got %s", i, names[i], et.Name)
		}
		if et.UserID != user.ID {
			t.Fatalf("seeded type not owned by registrant")
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input domain.RegisterInput
	}{
		{"short username", domain.RegisterInput{Username: "abc", Password: "longenough", PasswordAgain: "longenough"}},
		{"short password", domain.RegisterInput{Username: "ronnie", Password: "short", PasswordAgain: "short"}},
		{"mismatch", domain.RegisterInput{Username: "ronnie", Password: "longenough", PasswordAgain: "different!"}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation got %v", tc.name, err)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "ronnie")

	_, err := svc.Register(context.Background(), domain.RegisterInput{
		Username:      "ronnie",
		Password:      "correct horse",
		PasswordAgain: "correct horse",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, repo := newTestService(t)
	register(t, svc, "ronnie")
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "ronnie", "correct horse", "10.0.0.1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "ronnie" {
		t.Fatalf("unexpected user %s", user.Username)
	}
	if user.PasswordHash == "correct horse" {
		t.Fatal("password stored in the clear")
	}

	if _, err := svc.Authenticate(ctx, "ronnie", "wrong", "10.0.0.1"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "correct horse", "10.0.0.1"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("unknown user: expected ErrBadCredentials got %v", err)
	}

	events := repo.AuthEvents()
	if len(events) != 3 {
		t.Fatalf("expected 3 audit events got %d", len(events))
	}
	if !events[0].Success || events[1].Success || events[2].Success {
		t.Fatalf("unexpected audit outcomes %+v", events)
	}
	if events[2].UserID != "" {
		t.Fatalf("unknown username must not resolve to a user id")
	}
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool    { return false }
func (denyLimiter) RecordFailure(string) {}
func (denyLimiter) Reset(string)         {}

func TestAuthenticateThrottled(t *testing.T) {
	repo := memory.NewRepository()
	svc := domain.NewService(repo, denyLimiter{})

	_, err := svc.Authenticate(context.Background(), "ronnie", "correct horse", "10.0.0.1")
	if !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts got %v", err)
	}
	if len(repo.AuthEvents()) != 0 {
		t.Fatal("throttled attempts must not reach the audit trail")
	}
}

func TestLogExercise(t *testing.T) {
	svc, repo := newTestService(t)
	user := register(t, svc, "ronnie")
	types, _ := svc.ListTypes(context.Background(), user.ID)
	class := classWithReps(t, svc, 10)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	ex := logLift(t, svc, user.ID, types[0].ID, class.ID, 100, date, true)
	if ex.UserID != user.ID {
		t.Fatalf("unexpected owner %s", ex.UserID)
	}

	profile, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.ExerciseCount != 1 {
		t.Fatalf("expected exercise count 1 got %d", profile.ExerciseCount)
	}
	if profile.LastExercise == nil || !profile.LastExercise.Equal(date) {
		t.Fatalf("unexpected last exercise %v", profile.LastExercise)
	}

	records, err := repo.ListRecords(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 PR record got %d", len(records))
	}
	rec := records[0]
	if rec.Epley != 133 || rec.Lombardi != 125 || rec.Brzycki != 133 {
		t.Fatalf("unexpected estimates %d/%d/%d", rec.Epley, rec.Lombardi, rec.Brzycki)
	}

	// Logging the same lift twice appends a second record; history is
	// append-only.
	logLift(t, svc, user.ID, types[0].ID, class.ID, 100, date, true)
	records, _ = repo.ListRecords(context.Background(), user.ID)
	if len(records) != 2 {
		t.Fatalf("expected 2 PR records got %d", len(records))
	}
}

func TestLogExerciseRejectsForeignType(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "ronnie")
	other := register(t, svc, "dorian")
	types, _ := svc.ListTypes(context.Background(), owner.ID)
	class := classWithReps(t, svc, 5)

	_, err := svc.LogExercise(context.Background(), other.ID, domain.LogExerciseInput{
		TypeID:  types[0].ID,
		ClassID: class.ID,
		Weight:  60,
		Date:    time.Now(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestLogExerciseDegenerateReps(t *testing.T) {
	svc, repo := newTestService(t)
	user := register(t, svc, "ronnie")
	types, _ := svc.ListTypes(context.Background(), user.ID)
	degenerate := repo.AddClass("37 reps", 37)

	_, err := svc.LogExercise(context.Background(), user.ID, domain.LogExerciseInput{
		TypeID:  types[0].ID,
		ClassID: degenerate.ID,
		Weight:  100,
		Date:    time.Now(),
	})
	if !errors.Is(err, domain.ErrDegenerateReps) {
		t.Fatalf("expected ErrDegenerateReps got %v", err)
	}

	// Nothing is persisted when the formula rejects the rep count.
	profile, _ := svc.Profile(context.Background(), user.ID)
	if profile.ExerciseCount != 0 {
		t.Fatalf("expected exercise count 0 got %d", profile.ExerciseCount)
	}
}

func TestEditExerciseOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "ronnie")
	other := register(t, svc, "dorian")
	types, _ := svc.ListTypes(context.Background(), owner.ID)
	class := classWithReps(t, svc, 5)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	ex := logLift(t, svc, owner.ID, types[0].ID, class.ID, 120, date, false)

	err := svc.EditExercise(context.Background(), other.ID, ex.ID, domain.EditExerciseInput{
		TypeID: types[0].ID,
		Weight: 1,
		Date:   date,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden got %v", err)
	}

	entries, _ := svc.ListExercises(context.Background(), owner.ID, nil)
	if entries[0].Weight != 120 {
		t.Fatalf("foreign edit changed the row: weight %v", entries[0].Weight)
	}

	// The owner may edit.
	if err := svc.EditExercise(context.Background(), owner.ID, ex.ID, domain.EditExerciseInput{
		TypeID: types[0].ID,
		Weight: 125,
		Date:   date,
		Note:   "belt on",
	}); err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	entries, _ = svc.ListExercises(context.Background(), owner.ID, nil)
	if entries[0].Weight != 125 || entries[0].Note != "belt on" {
		t.Fatalf("owner edit not applied: %+v", entries[0].Exercise)
	}
}

func TestRemoveExerciseKeepsRecords(t *testing.T) {
	svc, repo := newTestService(t)
	user := register(t, svc, "ronnie")
	types, _ := svc.ListTypes(context.Background(), user.ID)
	class := classWithReps(t, svc, 10)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	ex := logLift(t, svc, user.ID, types[0].ID, class.ID, 100, date, false)

	if err := svc.RemoveExercise(context.Background(), user.ID, ex.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	profile, _ := svc.Profile(context.Background(), user.ID)
	if profile.ExerciseCount != 0 {
		t.Fatalf("expected exercise count 0 got %d", profile.ExerciseCount)
	}

	records, _ := repo.ListRecords(context.Background(), user.ID)
	if len(records) != 1 {
		t.Fatalf("PR record must survive exercise removal, got %d", len(records))
	}

	if err := svc.RemoveExercise(context.Background(), user.ID, ex.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second remove: expected ErrNotFound got %v", err)
	}
}

func TestAddCommentCounters(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "ronnie")
	commenter := register(t, svc, "dorian")
	types, _ := svc.ListTypes(context.Background(), owner.ID)
	class := classWithReps(t, svc, 5)
	ex := logLift(t, svc, owner.ID, types[0].ID, class.ID, 140, time.Now(), true)

	if _, err := svc.AddComment(context.Background(), commenter.ID, ex.ID, "  strong!  "); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	comments, err := svc.Comments(context.Background(), ex.ID)
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "strong!" {
		t.Fatalf("unexpected comments %+v", comments)
	}
	if comments[0].Username != "dorian" {
		t.Fatalf("unexpected commenter %s", comments[0].Username)
	}

	profile, _ := svc.Profile(context.Background(), commenter.ID)
	if profile.CommentCount != 1 {
		t.Fatalf("expected commenter count 1 got %d", profile.CommentCount)
	}

	entries, _ := svc.ListExercises(context.Background(), owner.ID, nil)
	if entries[0].CommentCount != 1 {
		t.Fatalf("expected exercise comment count 1 got %d", entries[0].CommentCount)
	}

	if _, err := svc.AddComment(context.Background(), commenter.ID, ex.ID, "   "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank comment: expected ErrValidation got %v", err)
	}
}

func TestDeleteTypeCascadeSettlesCounters(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "ronnie")
	commenter := register(t, svc, "dorian")
	types, _ := svc.ListTypes(context.Background(), owner.ID)
	class := classWithReps(t, svc, 5)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	ex1 := logLift(t, svc, owner.ID, types[0].ID, class.ID, 100, date, true)
	logLift(t, svc, owner.ID, types[0].ID, class.ID, 110, date, true)
	logLift(t, svc, owner.ID, types[1].ID, class.ID, 60, date, true)

	if _, err := svc.AddComment(context.Background(), commenter.ID, ex1.ID, "nice"); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	if err := svc.DeleteType(context.Background(), owner.ID, types[0].ID); err != nil {
		t.Fatalf("delete type: %v", err)
	}

	profile, _ := svc.Profile(context.Background(), owner.ID)
	if profile.ExerciseCount != 1 {
		t.Fatalf("expected exercise count 1 after cascade got %d", profile.ExerciseCount)
	}

	// The cascade deleted the commented exercise, so the commenter's
	// counter settles back to zero.
	cp, _ := svc.Profile(context.Background(), commenter.ID)
	if cp.CommentCount != 0 {
		t.Fatalf("expected commenter count 0 after cascade got %d", cp.CommentCount)
	}

	remaining, _ := svc.ListTypes(context.Background(), owner.ID)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 types after delete got %d", len(remaining))
	}
}

func TestDeleteTypeOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "ronnie")
	other := register(t, svc, "dorian")
	types, _ := svc.ListTypes(context.Background(), owner.ID)

	if err := svc.DeleteType(context.Background(), other.ID, types[0].ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden got %v", err)
	}
}

func TestStatsLatestRecordPrefersRecency(t *testing.T) {
	svc, _ := newTestService(t)
	user := register(t, svc, "ronnie")
	types, _ := svc.ListTypes(context.Background(), user.ID)
	class := classWithReps(t, svc, 10)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	logLift(t, svc, user.ID, types[0].ID, class.ID, 140, date, false)
	// Same day, lower weight, logged later: the later insertion wins even
	// though its estimate is weaker.
	logLift(t, svc, user.ID, types[0].ID, class.ID, 100, date, false)

	report, err := svc.Stats(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(report.Records) != 1 {
		t.Fatalf("expected 1 latest record got %d", len(report.Records))
	}
	if report.Records[0].Weight != 100 {
		t.Fatalf("expected the later lift (100) to win, got %v", report.Records[0].Weight)
	}

	if len(report.Groups) != 1 {
		t.Fatalf("expected 1 group got %d", len(report.Groups))
	}
	g := report.Groups[0]
	if g.MaxWeight != 140 || g.LiftCount != 2 {
		t.Fatalf("unexpected group stat %+v", g)
	}
}

func TestPublicFeedExcludesPrivate(t *testing.T) {
	svc, _ := newTestService(t)
	user := register(t, svc, "ronnie")
	types, _ := svc.ListTypes(context.Background(), user.ID)
	class := classWithReps(t, svc, 5)
	older := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	logLift(t, svc, user.ID, types[0].ID, class.ID, 100, older, true)
	logLift(t, svc, user.ID, types[0].ID, class.ID, 110, newer, true)
	private := logLift(t, svc, user.ID, types[0].ID, class.ID, 120, newer, false)

	feed, err := svc.PublicFeed(context.Background())
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 public entries got %d", len(feed))
	}
	for _, entry := range feed {
		if entry.ID == private.ID {
			t.Fatal("private exercise leaked into the feed")
		}
	}
	if !feed[0].Date.Equal(newer) {
		t.Fatalf("feed not newest first: %v", feed[0].Date)
	}
	if feed[0].Username != "ronnie" || feed[0].TypeName == "" {
		t.Fatalf("feed entry missing joined fields: %+v", feed[0])
	}
}

func TestGetExerciseVisibility(t *testing.T) {
	svc, _ := newTestService(t)
	owner := register(t, svc, "ronnie")
	other := register(t, svc, "dorian")
	types, _ := svc.ListTypes(context.Background(), owner.ID)
	class := classWithReps(t, svc, 5)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	private := logLift(t, svc, owner.ID, types[0].ID, class.ID, 100, date, false)
	public := logLift(t, svc, owner.ID, types[0].ID, class.ID, 110, date, true)

	if _, err := svc.GetExercise(context.Background(), owner.ID, private.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.GetExercise(context.Background(), other.ID, public.ID); err != nil {
		t.Fatalf("public read: %v", err)
	}
	// A private exercise is indistinguishable from a missing one.
	if _, err := svc.GetExercise(context.Background(), other.ID, private.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestListExercisesFilterByType(t *testing.T) {
	svc, _ := newTestService(t)
	user := register(t, svc, "ronnie")
	types, _ := svc.ListTypes(context.Background(), user.ID)
	class := classWithReps(t, svc, 5)
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	logLift(t, svc, user.ID, types[0].ID, class.ID, 100, date, false)
	logLift(t, svc, user.ID, types[1].ID, class.ID, 60, date, false)

	all, _ := svc.ListExercises(context.Background(), user.ID, nil)
	if len(all) != 2 {
		t.Fatalf("expected 2 entries got %d", len(all))
	}

	filtered, _ := svc.ListExercises(context.Background(), user.ID, &types[0].ID)
	if len(filtered) != 1 || filtered[0].TypeID != types[0].ID {
		t.Fatalf("unexpected filtered entries %+v", filtered)
	}
}
