package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
	"github.com/oksasatya/task-manager-api/internal/domain/entity"
	"github.com/oksasatya/task-manager-api/internal/domain/repository"
)

type taskDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	DueDate     time.Time     `bson:"due_date"`
	Status      string        `bson:"status"`
	Priority    string        `bson:"priority"`
	AssignedTo  bson.ObjectID `bson:"assigned_to"`
	CreatedBy   bson.ObjectID `bson:"created_by"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func (d *taskDoc) toEntity() *entity.Task {
	return &entity.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      entity.Status(d.Status),
		Priority:    entity.Priority(d.Priority),
		AssignedTo:  d.AssignedTo.Hex(),
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type TaskRepository struct {
	tasks *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{tasks: db.Collection("tasks")}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	assigned, err := bson.ObjectIDFromHex(t.AssignedTo)
	if err != nil {
		return apperr.Validation("Task must be assigned to a user")
	}
	creator, err := bson.ObjectIDFromHex(t.CreatedBy)
	if err != nil {
		return apperr.Internal(err)
	}
	now := time.Now().UTC()
	doc := taskDoc{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		AssignedTo:  assigned,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.tasks.InsertOne(ctx, doc)
	if err != nil {
		return apperr.Internal(err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		t.ID = oid.Hex()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("task not found")
	}
	var doc taskDoc
	if err := r.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, apperr.Internal(err)
	}
	return doc.toEntity(), nil
}

func filterQuery(f repository.TaskFilter) bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Priority != "" {
		q["priority"] = string(f.Priority)
	}
	if f.AssignedTo != "" {
		if oid, err := bson.ObjectIDFromHex(f.AssignedTo); err == nil {
			q["assigned_to"] = oid
		} else {
			// unresolvable reference matches nothing
			q["assigned_to"] = bson.NilObjectID
		}
	}
	return q
}

func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter, limit, offset int) ([]entity.Task, int64, error) {
	q := filterQuery(f)
	total, err := r.tasks.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "due_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.tasks.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make([]entity.Task, 0, limit)
	for cur.Next(ctx) {
		var doc taskDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, apperr.Internal(err)
		}
		out = append(out, *doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return out, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, p *entity.TaskPatch) (*entity.Task, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("task not found")
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.DueDate != nil {
		set["due_date"] = *p.DueDate
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Priority != nil {
		set["priority"] = string(*p.Priority)
	}
	if p.AssignedTo != nil {
		assigned, err := bson.ObjectIDFromHex(*p.AssignedTo)
		if err != nil {
			return nil, apperr.Validation("Task must be assigned to a user")
		}
		set["assigned_to"] = assigned
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDoc
	err = r.tasks.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("task not found")
		}
		return nil, apperr.Internal(err)
	}
	return doc.toEntity(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("task not found")
	}
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

func (r *TaskRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	n, err := r.tasks.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"assigned_to": oid},
		bson.M{"created_by": oid},
	}})
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return n, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
