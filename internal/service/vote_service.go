package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

const (
	MinVoteOptions = 2
	MaxVoteOptions = 10
)

var (
	ErrVoteNotFound  = errors.New("vote not found")
	ErrAlreadyVoted  = errors.New("already voted")
	ErrVoteClosed    = errors.New("vote is closed")
	ErrUnknownOption = errors.New("unknown vote option")
)

type VoteService struct {
	votes ports.VoteRepository
	tours ports.TourRepository
	now   func() time.Time
	log   *zap.Logger
}

func NewVoteService(votes ports.VoteRepository, tours ports.TourRepository, log *zap.Logger) *VoteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VoteService{votes: votes, tours: tours, now: time.Now, log: log.Named("votes")}
}

type VoteInput struct {
	Title       string
	Description *string
	TourID      *bson.ObjectID
	Options     []string
	ClosesAt    *time.Time
}

// VoteView is a poll as seen by one account.
type VoteView struct {
	domain.Vote
	TotalVotes int     `json:"totalVotes"`
	Closed     bool    `json:"closed"`
	MyChoice   *string `json:"myChoice"`
}

func (s *VoteService) Create(ctx context.Context, createdBy bson.ObjectID, in VoteInput) (*domain.Vote, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("Title is required")
	}
	options, err := buildOptions(in.Options)
	if err != nil {
		return nil, err
	}
	if in.ClosesAt != nil && !in.ClosesAt.After(s.now()) {
		return nil, invalid("Closing time must be in the future")
	}
	if in.TourID != nil {
		if _, err := s.tours.FindByID(ctx, *in.TourID); err != nil {
			return nil, tourErr(err)
		}
	}
	var closesAt *time.Time
	if in.ClosesAt != nil {
		at := in.ClosesAt.UTC()
		closesAt = &at
	}
	created, err := s.votes.Create(ctx, &domain.Vote{
		Title:       title,
		Description: trimmedOrNil(in.Description),
		TourID:      in.TourID,
		Options:     options,
		ClosesAt:    closesAt,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create vote: %w", err)
	}
	return created, nil
}

func (s *VoteService) List(ctx context.Context, viewer bson.ObjectID, limit, offset int) ([]VoteView, int64, error) {
	votes, total, err := s.votes.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	views := make([]VoteView, 0, len(votes))
	for i := range votes {
		views = append(views, viewOf(&votes[i], viewer, now))
	}
	return views, total, nil
}

func (s *VoteService) Get(ctx context.Context, id, viewer bson.ObjectID) (*VoteView, error) {
	vote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := viewOf(vote, viewer, s.now())
	return &view, nil
}

// Cast records one ballot per account. The write is conditional, so two
// concurrent submissions by the same account cannot both be counted.
func (s *VoteService) Cast(ctx context.Context, id, voter bson.ObjectID, optionID string) (*VoteView, error) {
	optionID = strings.TrimSpace(optionID)
	if optionID == "" {
		return nil, invalid("Option is required")
	}
	vote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := checkBallot(vote, voter, optionID, now); err != nil {
		return nil, err
	}

	updated, err := s.votes.CastBallot(ctx, id, domain.Ballot{UserID: voter, OptionID: optionID, CastAt: now.UTC()}, now)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return nil, ErrVoteNotFound
		case errors.Is(err, ports.ErrConflict):
			// Lost a race; report why against the latest state.
			latest, findErr := s.find(ctx, id)
			if findErr != nil {
				return nil, findErr
			}
			if reason := checkBallot(latest, voter, optionID, s.now()); reason != nil {
				return nil, reason
			}
			return nil, ErrAlreadyVoted
		}
		return nil, fmt.Errorf("cast ballot: %w", err)
	}
	s.log.Debug("ballot cast", zap.String("vote_id", id.Hex()), zap.String("option_id", optionID))
	view := viewOf(updated, voter, now)
	return &view, nil
}

func (s *VoteService) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.votes.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrVoteNotFound
		}
		return err
	}
	return nil
}

func (s *VoteService) find(ctx context.Context, id bson.ObjectID) (*domain.Vote, error) {
	vote, err := s.votes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, ErrVoteNotFound
		}
		return nil, err
	}
	return vote, nil
}

func checkBallot(vote *domain.Vote, voter bson.ObjectID, optionID string, now time.Time) error {
	if vote.Closed(now) {
		return ErrVoteClosed
	}
	if !vote.HasOption(optionID) {
		return ErrUnknownOption
	}
	if _, voted := vote.BallotOf(voter); voted {
		return ErrAlreadyVoted
	}
	return nil
}

func buildOptions(labels []string) ([]domain.VoteOption, error) {
	seen := make(map[string]struct{}, len(labels))
	options := make([]domain.VoteOption, 0, len(labels))
	for _, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			return nil, invalid("Option labels cannot be empty")
		}
		key := strings.ToLower(label)
		if _, dup := seen[key]; dup {
			return nil, invalidf("Duplicate option %q", label)
		}
		seen[key] = struct{}{}
		options = append(options, domain.VoteOption{ID: uuid.NewString(), Label: label})
	}
	if len(options) < MinVoteOptions || len(options) > MaxVoteOptions {
		return nil, invalidf("A vote needs between %d and %d options", MinVoteOptions, MaxVoteOptions)
	}
	return options, nil
}

func viewOf(vote *domain.Vote, viewer bson.ObjectID, now time.Time) VoteView {
	view := VoteView{
		Vote:       *vote,
		TotalVotes: vote.TotalBallots(),
		Closed:     vote.Closed(now),
	}
	if choice, ok := vote.BallotOf(viewer); ok {
		view.MyChoice = &choice
	}
	return view
}
