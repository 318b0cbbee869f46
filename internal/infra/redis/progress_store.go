package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"beverage-quiz-service/internal/domain"
)

const leaderboardKey = "progress:leaderboard"

// recordResult applies one completed session to a user's progress. A session
// is counted once even when persisted repeatedly.
//
//	KEYS[1] progress:{userID}  KEYS[2] progress:{userID}:sessions  KEYS[3] leaderboard
//	ARGV[1] session id  ARGV[2] xp  ARGV[3] accuracy  ARGV[4] user id
var recordResult = redis.NewScript(`
if redis.call('SADD', KEYS[2], ARGV[1]) == 0 then
  return 0
end
redis.call('HINCRBYFLOAT', KEYS[1], 'xp', ARGV[2])
redis.call('HINCRBY', KEYS[1], 'sessions', 1)
local best = tonumber(redis.call('HGET', KEYS[1], 'best_accuracy') or '0')
if tonumber(ARGV[3]) > best then
  redis.call('HSET', KEYS[1], 'best_accuracy', ARGV[3])
end
redis.call('ZINCRBY', KEYS[3], ARGV[2], ARGV[4])
return 1
`)

// ProgressStore keeps XP, level inputs and the XP leaderboard in Redis.
//
//	HSET progress:{userID} xp {float} sessions {int} best_accuracy {int}
//	SADD progress:{userID}:sessions {sessionID}
//	ZINCRBY progress:leaderboard {xp} {userID}
type ProgressStore struct {
	client *redis.Client
}

func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

// PersistResults credits the session score as XP.
func (s *ProgressStore) PersistResults(ctx context.Context, userID string, result domain.SessionResult) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	keys := []string{s.key(userID), s.key(userID) + ":sessions", leaderboardKey}
	err := recordResult.Run(ctx, s.client, keys,
		result.SessionID,
		strconv.FormatFloat(result.TotalScore, 'f', -1, 64),
		result.Accuracy,
		userID,
	).Err()
	if err != nil {
		return fmt.Errorf("record progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) Progress(ctx context.Context, userID string) (domain.Progress, error) {
	values, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.Progress{}, fmt.Errorf("load progress: %w", err)
	}

	p := domain.Progress{UserID: userID}
	p.XP, _ = strconv.ParseFloat(values["xp"], 64)
	p.SessionsCompleted, _ = strconv.Atoi(values["sessions"])
	p.BestAccuracy, _ = strconv.Atoi(values["best_accuracy"])
	p.Level, p.NextLevelXP = domain.LevelFor(p.XP)
	return p, nil
}

// Leaderboard returns the top users by XP.
func (s *ProgressStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		userID, _ := row.Member.(string)
		level, _ := domain.LevelFor(row.Score)
		entries = append(entries, domain.LeaderboardEntry{
			Rank:   i + 1,
			UserID: userID,
			XP:     row.Score,
			Level:  level,
		})
	}
	return entries, nil
}

func (s *ProgressStore) key(userID string) string {
	return "progress:" + userID
}
