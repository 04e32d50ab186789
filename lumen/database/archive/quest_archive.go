// Package archive keeps the full quest history in MongoDB. The
// companion record only retains a short display window; everything
// older lands here.
package archive

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/solstice-labs/lumen/lumen/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type QuestArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func Connect(ctx context.Context, cfg Config) (*QuestArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("archive unreachable: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "quest_history"
	}

	slog.Info("Quest archive connected",
		slog.String("type", "db"),
		slog.String("database", cfg.Database),
		slog.String("collection", collection))
	return &QuestArchive{
		client: client,
		coll:   client.Database(cfg.Database).Collection(collection),
	}, nil
}

// ArchiveResolved appends resolved instances for one companion.
func (a *QuestArchive) ArchiveResolved(ctx context.Context, companionID snowflake.ID, instances []models.QuestInstance) error {
	if len(instances) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(instances))
	for _, inst := range instances {
		docs = append(docs, bson.M{
			"companion_id": companionID.String(),
			"instance_id":  inst.ID.String(),
			"template_id":  inst.TemplateID,
			"status":       string(inst.Status),
			"start_time":   inst.StartTime,
			"completed_at": inst.CompletedAt,
			"archived_at":  time.Now().UnixMilli(),
		})
	}

	if _, err := a.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to archive quest instances: %w", err)
	}
	return nil
}

// History returns archived instances for a companion, newest first.
func (a *QuestArchive) History(ctx context.Context, companionID snowflake.ID, limit int64) ([]models.QuestInstance, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completed_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := a.coll.Find(ctx, bson.M{"companion_id": companionID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query quest archive: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.QuestInstance
	for cursor.Next(ctx) {
		var doc struct {
			InstanceID  string `bson:"instance_id"`
			TemplateID  string `bson:"template_id"`
			Status      string `bson:"status"`
			StartTime   int64  `bson:"start_time"`
			CompletedAt int64  `bson:"completed_at"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		id, err := snowflake.Parse(doc.InstanceID)
		if err != nil {
			continue
		}
		out = append(out, models.QuestInstance{
			ID:          id,
			TemplateID:  doc.TemplateID,
			Status:      models.QuestStatus(doc.Status),
			StartTime:   doc.StartTime,
			CompletedAt: doc.CompletedAt,
		})
	}
	return out, cursor.Err()
}

func (a *QuestArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
