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

type userDoc struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	FirstName   string        `bson:"first_name"`
	LastName    string        `bson:"last_name"`
	Email       string        `bson:"email"`
	PhoneNumber string        `bson:"phone_number"`
	Age         int           `bson:"age"`
	Password    string        `bson:"password"`
	CreatedAt   time.Time     `bson:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at"`
}

func (d *userDoc) toEntity() *entity.User {
	return &entity.User{
		ID:          d.ID.Hex(),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Age:         d.Age,
		Password:    d.Password,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection("users")}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	doc := userDoc{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Age:         u.Age,
		Password:    u.Password,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("email already exists")
		}
		return apperr.Internal(err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		u.ID = oid.Hex()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	oids := make([]bson.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := bson.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []entity.User{}, nil
	}
	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make([]entity.User, 0, len(oids))
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Internal(err)
		}
		out = append(out, *doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	total, err := r.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer func() { _ = cur.Close(ctx) }()

	out := make([]entity.User, 0, limit)
	for cur.Next(ctx) {
		var doc userDoc
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

func (r *UserRepository) Update(ctx context.Context, id string, p *entity.UserPatch) (*entity.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.PhoneNumber != nil {
		set["phone_number"] = *p.PhoneNumber
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Password != nil {
		set["password"] = *p.Password
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err = r.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("user not found")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("email already exists")
		}
		return nil, apperr.Internal(err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("user not found")
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
