package orm

import (
	"context"
	"fmt"
	"time"

	"echo-audit-api/pkg/config"
	"echo-audit-api/pkg/task"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Task      string             `bson:"task"`
	Completed bool               `bson:"completed"`
	Priority  string             `bson:"priority"`
	Deadline  *string            `bson:"deadline"`
}

func newTaskDocument(record task.TaskRecord) taskDocument {
	return taskDocument{
		Task:      record.Task,
		Completed: record.Completed,
		Priority:  string(record.Priority),
		Deadline:  record.Deadline,
	}
}

func (d taskDocument) record() task.TaskRecord {
	return task.TaskRecord{
		ID:        d.ID.Hex(),
		Task:      d.Task,
		Completed: d.Completed,
		Priority:  task.Priority(d.Priority),
		Deadline:  d.Deadline,
	}
}

// TaskORM stores tasks in a MongoDB collection with a unique index on the task text.
type TaskORM struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewTaskORM(client *mongo.Client, database, collection string) *TaskORM {
	return &TaskORM{client: client, collection: client.Database(database).Collection(collection)}
}

// ConnectMongo dials MongoDB and returns a TaskORM with its indexes ensured.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*TaskORM, error) {
	uri, err := withCredentials(ctx, cfg, cfg.MongoUri)
	if err != nil {
		return nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	log.Info().Str("database", cfg.MongoDatabase).Str("collection", cfg.MongoCollection).Msg("Connected to MongoDB")

	o := NewTaskORM(client, cfg.MongoDatabase, cfg.MongoCollection)
	if err := o.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return o, nil
}

func (o *TaskORM) EnsureIndexes(ctx context.Context) error {
	_, err := o.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "task", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("task_unique"),
	})
	if err != nil {
		return fmt.Errorf("create task index: %w", err)
	}
	return nil
}

func (o *TaskORM) FindByText(ctx context.Context, text string) (*task.TaskRecord, error) {
	var doc taskDocument
	err := o.collection.FindOne(ctx, bson.M{"task": text}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	rec := doc.record()
	return &rec, nil
}

func (o *TaskORM) Insert(ctx context.Context, record task.TaskRecord) (*task.TaskRecord, error) {
	res, err := o.collection.InsertOne(ctx, newTaskDocument(record))
	if err != nil {
		return nil, mongoInsertError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id.Hex()
	}
	return &record, nil
}

// mongoInsertError maps a unique index violation on the task text to task.ErrDuplicateTask.
func mongoInsertError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return task.ErrDuplicateTask
	}
	return fmt.Errorf("insert task: %w", err)
}

func (o *TaskORM) FindAll(ctx context.Context) ([]task.TaskRecord, error) {
	cur, err := o.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	records := make([]task.TaskRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.record())
	}
	return records, nil
}

func (o *TaskORM) CompleteByText(ctx context.Context, text string) error {
	_, err := o.collection.UpdateOne(ctx, bson.M{"task": text}, bson.M{"$set": bson.M{"completed": true}})
	if err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (o *TaskORM) OnShutdown(ctx context.Context) error {
	if err := o.client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to disconnect from MongoDB")
		return err
	}
	log.Info().Msg("Disconnected from MongoDB")
	return nil
}
