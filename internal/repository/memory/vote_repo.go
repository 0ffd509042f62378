package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/campustour/tour-api/internal/domain"
	"github.com/campustour/tour-api/internal/repository/ports"
)

// VoteRepository applies ballots under one lock, matching the conditional
// update the MongoDB repository performs.
type VoteRepository struct {
	mu    sync.Mutex
	votes map[bson.ObjectID]domain.Vote
	now   func() time.Time
}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{votes: make(map[bson.ObjectID]domain.Vote), now: time.Now}
}

func (r *VoteRepository) Create(ctx context.Context, vote *domain.Vote) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	created := cloneVote(vote)
	created.ID = bson.NewObjectID()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Ballots == nil {
		created.Ballots = []domain.Ballot{}
	}
	r.votes[created.ID] = created
	out := cloneVote(&created)
	return &out, nil
}

func (r *VoteRepository) FindByID(ctx context.Context, id bson.ObjectID) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := cloneVote(&v)
	return &out, nil
}

func (r *VoteRepository) List(ctx context.Context, limit, offset int) ([]domain.Vote, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Vote, 0, len(r.votes))
	for _, v := range r.votes {
		all = append(all, cloneVote(&v))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	return paginate(all, limit, offset), total, nil
}

func (r *VoteRepository) CastBallot(ctx context.Context, id bson.ObjectID, ballot domain.Ballot, now time.Time) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.votes[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if v.Closed(now) || !v.HasOption(ballot.OptionID) {
		return nil, ports.ErrConflict
	}
	if _, voted := v.BallotOf(ballot.UserID); voted {
		return nil, ports.ErrConflict
	}
	v = cloneVote(&v)
	for i := range v.Options {
		if v.Options[i].ID == ballot.OptionID {
			v.Options[i].Count++
		}
	}
	v.Ballots = append(v.Ballots, ballot)
	v.UpdatedAt = now.UTC()
	r.votes[id] = v
	out := cloneVote(&v)
	return &out, nil
}

func (r *VoteRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.votes[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.votes, id)
	return nil
}

func cloneVote(v *domain.Vote) domain.Vote {
	out := *v
	out.Options = append([]domain.VoteOption{}, v.Options...)
	if v.Ballots != nil {
		out.Ballots = append([]domain.Ballot{}, v.Ballots...)
	}
	if v.ClosesAt != nil {
		at := *v.ClosesAt
		out.ClosesAt = &at
	}
	return out
}
