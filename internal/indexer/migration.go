package indexer

import (
	"context"
	"sort"
	"time"

	"propt-api-io/api/pkg/util"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const migrationCollection = "_migrations"

type MigrationManager struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrationManager(db *mongo.Database) *MigrationManager {
	return &MigrationManager{
		db:         db,
		migrations: []Migration{},
	}
}

func (mm *MigrationManager) AddMigration(migrations ...Migration) *MigrationManager {
	mm.migrations = append(mm.migrations, migrations...)
	return mm
}

// Pending returns the migrations in apply order, oldest version first.
func (mm *MigrationManager) Pending() []Migration {
	out := append([]Migration(nil), mm.migrations...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Version < out[j].Version
	})
	return out
}

// Run applies every migration not yet recorded as successful, stopping at the
// first failure.
func (mm *MigrationManager) Run(ctx context.Context) error {
	coll := mm.db.Collection(migrationCollection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "create migration index")
	}

	for _, migration := range mm.Pending() {
		fields := logrus.Fields{"version": migration.Version}

		applied, err := mm.isApplied(ctx, migration.Version)
		if err != nil {
			return errors.Wrapf(err, "check migration %s", migration.Version)
		}
		if applied {
			util.LogInfo("migration already applied, skipping", fields)
			continue
		}

		util.LogInfo("running migration: "+migration.Description, fields)

		start := time.Now()
		err = migration.Up(ctx, mm.db)
		fields["duration"] = time.Since(start).String()

		status := MigrationStatus{
			Version:   migration.Version,
			AppliedAt: time.Now(),
			Success:   err == nil,
		}
		// a failed attempt is recorded too and replaced by the next successful one
		_, saveErr := coll.UpdateOne(ctx,
			bson.M{"version": migration.Version},
			bson.M{"$set": status},
			options.Update().SetUpsert(true),
		)

		if err != nil {
			util.LogError("indexer", "Run", migration.Version, fields, err)
			return errors.Wrapf(err, "migration %s", migration.Version)
		}
		if saveErr != nil {
			return errors.Wrap(saveErr, "save migration status")
		}

		util.LogInfo("migration completed", fields)
	}

	return nil
}

// Rollback undoes applied migrations newer than targetVersion, newest first.
func (mm *MigrationManager) Rollback(ctx context.Context, targetVersion string) error {
	ordered := mm.Pending()
	coll := mm.db.Collection(migrationCollection)

	for i := len(ordered) - 1; i >= 0; i-- {
		migration := ordered[i]
		if migration.Version <= targetVersion {
			break
		}

		applied, err := mm.isApplied(ctx, migration.Version)
		if err != nil {
			return errors.Wrapf(err, "check migration %s", migration.Version)
		}
		if !applied {
			continue
		}
		if migration.Down == nil {
			return errors.Errorf("migration %s does not support rollback", migration.Version)
		}

		util.LogInfo("rolling back migration", logrus.Fields{"version": migration.Version})
		if err := migration.Down(ctx, mm.db); err != nil {
			return errors.Wrapf(err, "rollback of migration %s", migration.Version)
		}
		if _, err := coll.DeleteOne(ctx, bson.M{"version": migration.Version}); err != nil {
			return errors.Wrap(err, "remove migration status")
		}
	}

	return nil
}

func (mm *MigrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	cursor, err := mm.db.Collection(migrationCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "query migration status")
	}
	defer cursor.Close(ctx)

	var statuses []MigrationStatus
	if err = cursor.All(ctx, &statuses); err != nil {
		return nil, errors.Wrap(err, "decode migration statuses")
	}
	return statuses, nil
}

func (mm *MigrationManager) isApplied(ctx context.Context, version string) (bool, error) {
	count, err := mm.db.Collection(migrationCollection).CountDocuments(ctx, bson.M{"version": version, "success": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
