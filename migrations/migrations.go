package migrations

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Migration is one idempotent step. Steps run in order.
type Migration struct {
	Name string
	Up   func(ctx context.Context, database *mongo.Database) error
}

var All = []Migration{
	{Name: "001_unique_indexes", Up: CreateUniqueIndexes},
	{Name: "002_query_indexes", Up: CreateQueryIndexes},
}

func Run(ctx context.Context, database *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	for _, m := range All {
		if err := m.Up(ctx, database); err != nil {
			log.Println("Error from migration "+m.Name+": ", err)
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.WithField("migration", m.Name).Info("migration applied")
	}
	return nil
}

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func createIndexes(ctx context.Context, database *mongo.Database, all []collectionIndexes) error {
	for _, ci := range all {
		names, err := database.Collection(ci.collection).Indexes().CreateMany(ctx, ci.models)
		if err != nil {
			return fmt.Errorf("%s: %w", ci.collection, err)
		}
		log.WithFields(log.Fields{"collection": ci.collection, "indexes": names}).Debug("indexes ensured")
	}
	return nil
}
