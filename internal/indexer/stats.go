package indexer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type rawIndexStats struct {
	Name     string `bson:"name"`
	Host     string `bson:"host"`
	Building bool   `bson:"building"`
	Accesses struct {
		Ops   int64     `bson:"ops"`
		Since time.Time `bson:"since"`
	} `bson:"accesses"`
}

// Stats reports per-index usage via $indexStats.
func (m *Manager) Stats(ctx context.Context, collection string) ([]IndexStats, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$indexStats", Value: bson.D{}}},
	}
	cursor, err := m.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "index stats")
	}
	defer cursor.Close(ctx)

	var raw []rawIndexStats
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "decode index stats")
	}

	stats := make([]IndexStats, 0, len(raw))
	for _, r := range raw {
		stats = append(stats, IndexStats{
			Name:     r.Name,
			Accesses: r.Accesses.Ops,
			Since:    r.Accesses.Since,
			Host:     r.Host,
			Building: r.Building,
		})
	}
	return stats, nil
}

func (m *Manager) StatsAll(ctx context.Context) (map[string][]IndexStats, error) {
	results := make(map[string][]IndexStats)
	for _, name := range m.Collections() {
		stats, err := m.Stats(ctx, name)
		if err != nil {
			if m.options.ContinueOnError {
				results[name] = []IndexStats{}
				continue
			}
			return nil, errors.Wrapf(err, "stats for %s", name)
		}
		results[name] = stats
	}
	return results, nil
}
