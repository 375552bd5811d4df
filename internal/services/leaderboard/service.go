// Package leaderboard ranks players by their peak balance.
package leaderboard

import (
	"context"
	"sort"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Entry is one leaderboard row
type Entry struct {
	Rank     int
	PlayerID model.PlayerID
	Username string
	MaxMoney float64
	Playtime int64
}

// Service builds leaderboards from the player store
type Service struct {
	storage storage.Storage
}

// New creates a new leaderboard service
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// Top returns up to limit players ranked by peak balance, ties broken by
// playtime then id for a stable order
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(players, func(i, j int) bool {
		if players[i].MaxMoney != players[j].MaxMoney {
			return players[i].MaxMoney > players[j].MaxMoney
		}
		if players[i].Playtime != players[j].Playtime {
			return players[i].Playtime > players[j].Playtime
		}
		return players[i].ID < players[j].ID
	})

	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}

	entries := make([]Entry, len(players))
	for i, p := range players {
		entries[i] = Entry{
			Rank:     i + 1,
			PlayerID: p.ID,
			Username: p.Username,
			MaxMoney: p.MaxMoney,
			Playtime: p.Playtime,
		}
	}
	return entries, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Top(ctx context.Context, limit int) ([]Entry, error)
}

var _ ServiceInterface = (*Service)(nil)
