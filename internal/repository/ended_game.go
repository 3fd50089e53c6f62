package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	endedGameKeyPrefix = "ended:"
	endedGameListKey   = "ended-games"
)

// EndedGameRepository - durable mirror of the ended games archive.
type EndedGameRepository interface {
	Save(ctx context.Context, game entity.EndedGame) error
	GetByID(ctx context.Context, id entity.SessionID) (entity.EndedGame, error)
	List(ctx context.Context) ([]entity.EndedGame, error)
}

type dbEndedGame struct {
	client *redis.Client
}

func NewEndedGameRepository(client *redis.Client) EndedGameRepository {
	return &dbEndedGame{
		client: client,
	}
}

// Save - stores the game once; saving the same id again is a no-op.
func (that *dbEndedGame) Save(ctx context.Context, game entity.EndedGame) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal ended game: %w", err)
	}

	id := game.ID.String()

	created, err := that.client.SetNX(ctx, endedGameKeyPrefix+id, gameJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set ended game: %w", err)
	}

	if !created {
		return nil
	}

	if err = that.client.RPush(ctx, endedGameListKey, id).Err(); err != nil {
		return fmt.Errorf("failed to append ended game: %w", err)
	}

	return nil
}

func (that *dbEndedGame) GetByID(ctx context.Context, id entity.SessionID) (entity.EndedGame, error) {
	response, err := that.client.Get(ctx, endedGameKeyPrefix+id.String()).Result()
	if errors.Is(err, redis.Nil) {
		return entity.EndedGame{}, apperror.ErrEndedGameMissing
	}

	if err != nil {
		return entity.EndedGame{}, fmt.Errorf("failed to get ended game: %w", err)
	}

	var game entity.EndedGame
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return entity.EndedGame{}, fmt.Errorf("failed to unmarshal ended game: %w", err)
	}

	return game, nil
}

// List - every mirrored game in the order it was saved.
func (that *dbEndedGame) List(ctx context.Context) ([]entity.EndedGame, error) {
	ids, err := that.client.LRange(ctx, endedGameListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list ended games: %w", err)
	}

	games := make([]entity.EndedGame, 0, len(ids))

	for _, raw := range ids {
		id, err := entity.ParseSessionID(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ended game id: %w", err)
		}

		game, err := that.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	return games, nil
}
