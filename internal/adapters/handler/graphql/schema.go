package graphql

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const fingerprintKey = "fingerprint"

var contestantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Contestant",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":           &graphql.Field{Type: graphql.String},
		"description":    &graphql.Field{Type: graphql.String},
		"image":          &graphql.Field{Type: graphql.String},
		"votes":          &graphql.Field{Type: graphql.Int},
		"votePercentage": &graphql.Field{Type: graphql.Int},
		"isActive":       &graphql.Field{Type: graphql.Boolean},
		"season":         &graphql.Field{Type: graphql.String},
	},
})

var contestantListType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ContestantList",
	Fields: graphql.Fields{
		"contestants":      &graphql.Field{Type: graphql.NewList(contestantType)},
		"totalVotes":       &graphql.Field{Type: graphql.Int},
		"totalContestants": &graphql.Field{Type: graphql.Int},
	},
})

var topContestantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "TopContestant",
	Fields: graphql.Fields{
		"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":  &graphql.Field{Type: graphql.String},
		"votes": &graphql.Field{Type: graphql.Int},
	},
})

var votingStatsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VotingStats",
	Fields: graphql.Fields{
		"totalVotes":        &graphql.Field{Type: graphql.Int},
		"activeContestants": &graphql.Field{Type: graphql.Int},
		"recentVotes":       &graphql.Field{Type: graphql.Int},
		"topContestants":    &graphql.Field{Type: graphql.NewList(topContestantType)},
	},
})

var votedContestantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VotedContestant",
	Fields: graphql.Fields{
		"contestantId":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"contestantName": &graphql.Field{Type: graphql.String},
		"voteTime":       &graphql.Field{Type: graphql.String},
	},
})

var votingStatusType = graphql.NewObject(graphql.ObjectConfig{
	Name: "VotingStatus",
	Fields: graphql.Fields{
		"mode":             &graphql.Field{Type: graphql.String},
		"tracked":          &graphql.Field{Type: graphql.Boolean},
		"dailyVoteCount":   &graphql.Field{Type: graphql.Int},
		"remainingVotes":   &graphql.Field{Type: graphql.Int},
		"votedContestants": &graphql.Field{Type: graphql.NewList(votedContestantType)},
	},
})

// NewSchema exposes the read side of voting as GraphQL queries.
func NewSchema(votes ports.VoteService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"contestants": &graphql.Field{
				Type: contestantListType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					list, err := votes.Contestants(p.Context)
					if err != nil {
						return nil, sanitize(err)
					}
					contestants := make([]map[string]interface{}, 0, len(list.Contestants))
					for _, c := range list.Contestants {
						contestants = append(contestants, standing(c))
					}
					return map[string]interface{}{
						"contestants":      contestants,
						"totalVotes":       list.TotalVotes,
						"totalContestants": list.TotalContestants,
					}, nil
				},
			},
			"votingStats": &graphql.Field{
				Type: votingStatsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					stats, err := votes.Stats(p.Context)
					if err != nil {
						return nil, sanitize(err)
					}
					top := make([]map[string]interface{}, 0, len(stats.TopContestants))
					for _, t := range stats.TopContestants {
						top = append(top, map[string]interface{}{
							"id":    t.ID.String(),
							"name":  t.Name,
							"votes": t.Votes,
						})
					}
					return map[string]interface{}{
						"totalVotes":        stats.TotalVotes,
						"activeContestants": stats.ActiveContestants,
						"recentVotes":       stats.RecentVotes,
						"topContestants":    top,
					}, nil
				},
			},
			"votingStatus": &graphql.Field{
				Type: votingStatusType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					fingerprint := ""
					if root, ok := p.Info.RootValue.(map[string]interface{}); ok {
						fingerprint, _ = root[fingerprintKey].(string)
					}
					status, err := votes.Status(p.Context, fingerprint)
					if err != nil {
						return nil, sanitize(err)
					}

					result := map[string]interface{}{
						"mode":    status.Mode,
						"tracked": status.Tracked,
					}
					if status.DailyVoteCount != nil {
						result["dailyVoteCount"] = *status.DailyVoteCount
					}
					if status.RemainingVotes != nil {
						result["remainingVotes"] = *status.RemainingVotes
					}
					voted := make([]map[string]interface{}, 0, len(status.VotedContestants))
					for _, v := range status.VotedContestants {
						voted = append(voted, map[string]interface{}{
							"contestantId":   v.ContestantID.String(),
							"contestantName": v.ContestantName,
							"voteTime":       v.VoteTime.UTC().Format(time.RFC3339),
						})
					}
					result["votedContestants"] = voted
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// NewHandler serves schema over HTTP. fingerprint identifies the caller for
// the votingStatus query.
func NewHandler(schema graphql.Schema, fingerprint func(r *http.Request) string) http.Handler {
	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   false,
		GraphiQL: false,
		RootObjectFn: func(ctx context.Context, r *http.Request) map[string]interface{} {
			return map[string]interface{}{fingerprintKey: fingerprint(r)}
		},
	})
}

func standing(c domain.ContestantStanding) map[string]interface{} {
	return map[string]interface{}{
		"id":             c.ID.String(),
		"name":           c.Name,
		"description":    c.Description,
		"image":          c.Image,
		"votes":          c.Votes,
		"votePercentage": c.VotePercentage,
		"isActive":       c.IsActive,
		"season":         c.Season,
	}
}

// sanitize keeps lower-layer detail out of GraphQL error messages.
func sanitize(err error) error {
	switch domain.Reason(err) {
	case "internal_error":
		return errors.New(domain.ErrInternal.Error())
	case "store_unavailable":
		return errors.New(domain.ErrStoreUnavailable.Error())
	}
	return err
}
