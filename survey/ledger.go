// Package survey records satisfaction votes and department ratings, one
// submission per (user, constituency) pair, and keeps the per-constituency
// aggregate counters in step.
package survey

import (
	"context"
	"errors"
	"time"

	"charcha-manch-be/models"
)

var (
	// ErrAlreadyVoted rejects a second submission for the same
	// (user, constituency) pair. Nothing is mutated when it is returned.
	ErrAlreadyVoted = errors.New("survey: already voted for this constituency")

	// ErrInvalidRating rejects ratings outside [1,5] or an empty ratings map
	ErrInvalidRating = errors.New("survey: ratings must be integers between 1 and 5")
)

const (
	RatingMin = 1
	RatingMax = 5
)

// SubmissionStore persists the idempotency markers. Create must be
// create-if-absent: it returns ErrAlreadyVoted when a submission for the same
// pair exists, and the existence check and the write are one atomic operation.
type SubmissionStore interface {
	Create(ctx context.Context, sub *models.QuestionnaireSubmission) error
}

// ScoreStore mutates the per-constituency aggregates. Both operations are
// increment-only and atomic per call.
type ScoreStore interface {
	RecordSatisfaction(ctx context.Context, constituencyID int, vote bool) error
	RecordManifestoScore(ctx context.Context, constituencyID int, score float64) error
}

// Ledger gates and records survey interactions. The submission marker is
// written before the counter increment, so a crash between the two steps can
// leave a counter one short but can never let a second vote through.
type Ledger struct {
	submissions SubmissionStore
	scores      ScoreStore
	now         func() time.Time
}

func NewLedger(submissions SubmissionStore, scores ScoreStore) *Ledger {
	return &Ledger{
		submissions: submissions,
		scores:      scores,
		now:         time.Now,
	}
}

// SubmitSatisfactionVote records a yes/no tenure vote. Returns ErrAlreadyVoted
// if the user has any prior submission for this constituency.
func (l *Ledger) SubmitSatisfactionVote(ctx context.Context, userID string, constituencyID int, vote bool) error {
	sub := &models.QuestionnaireSubmission{
		ID:               models.SubmissionID(userID, constituencyID),
		UserID:           userID,
		ConstituencyID:   constituencyID,
		SatisfactionVote: &vote,
		SubmittedAt:      l.now(),
	}

	if err := l.submissions.Create(ctx, sub); err != nil {
		return err
	}

	return l.scores.RecordSatisfaction(ctx, constituencyID, vote)
}

// SubmitDepartmentRatings validates and records a 1-5 rating per department,
// folding the mean of the ratings into the constituency's running manifesto
// average. Validation happens before any write.
func (l *Ledger) SubmitDepartmentRatings(ctx context.Context, userID string, constituencyID int, ratings map[string]int) error {
	score, err := ManifestoScore(ratings)
	if err != nil {
		return err
	}

	sub := &models.QuestionnaireSubmission{
		ID:                models.SubmissionID(userID, constituencyID),
		UserID:            userID,
		ConstituencyID:    constituencyID,
		DepartmentRatings: ratings,
		ManifestoScore:    score,
		SubmittedAt:       l.now(),
	}

	if err := l.submissions.Create(ctx, sub); err != nil {
		return err
	}

	return l.scores.RecordManifestoScore(ctx, constituencyID, score)
}

// SubmitQuestionnaire records a full questionnaire (vote plus ratings) as a
// single submission, the way the survey page sends it.
func (l *Ledger) SubmitQuestionnaire(ctx context.Context, userID string, constituencyID int, vote bool, ratings map[string]int) error {
	score, err := ManifestoScore(ratings)
	if err != nil {
		return err
	}

	sub := &models.QuestionnaireSubmission{
		ID:                models.SubmissionID(userID, constituencyID),
		UserID:            userID,
		ConstituencyID:    constituencyID,
		SatisfactionVote:  &vote,
		DepartmentRatings: ratings,
		ManifestoScore:    score,
		SubmittedAt:       l.now(),
	}

	if err := l.submissions.Create(ctx, sub); err != nil {
		return err
	}

	if err := l.scores.RecordSatisfaction(ctx, constituencyID, vote); err != nil {
		return err
	}
	return l.scores.RecordManifestoScore(ctx, constituencyID, score)
}

// ManifestoScore validates a ratings map and returns the arithmetic mean of
// its values. Every rating must be an integer in [RatingMin, RatingMax]; an
// empty map is invalid.
func ManifestoScore(ratings map[string]int) (float64, error) {
	if len(ratings) == 0 {
		return 0, ErrInvalidRating
	}

	sum := 0
	for _, r := range ratings {
		if r < RatingMin || r > RatingMax {
			return 0, ErrInvalidRating
		}
		sum += r
	}

	return float64(sum) / float64(len(ratings)), nil
}

// NextRunningAverage folds one more score into a running mean without
// re-summing history: new_avg = old_avg + (score - old_avg) / new_count.
// newCount is the post-increment number of submitters.
func NextRunningAverage(oldAvg float64, newCount int64, score float64) float64 {
	return oldAvg + (score-oldAvg)/float64(newCount)
}
