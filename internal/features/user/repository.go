package user

import (
	"context"
	"time"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string, scope common_models.Scope) (*User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID, scope common_models.Scope) ([]User, error)
	List(ctx context.Context, scope common_models.Scope) ([]User, error)

	CreateTeam(ctx context.Context, t *Team) error
	GetTeam(ctx context.Context, id string, scope common_models.Scope) (*Team, error)
	ListTeams(ctx context.Context, scope common_models.Scope) ([]Team, error)
}

type UserRepositoryImpl struct {
	Users *mongo.Collection
	Teams *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Users: mongodb.DB.Collection("users"),
		Teams: mongodb.DB.Collection("teams"),
	}
}

func scopeFilter(scope common_models.Scope) bson.M {
	return bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *User) error {
	u.ID = primitive.NewObjectID()
	u.Active = true
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	_, err := r.Users.InsertOne(ctx, u)
	return err
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id string, scope common_models.Scope) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var u User
	err = r.Users.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepositoryImpl) GetByIDs(ctx context.Context, ids []primitive.ObjectID, scope common_models.Scope) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}
	filter := scopeFilter(scope)
	filter["_id"] = bson.M{"$in": ids}
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, scope common_models.Scope) ([]User, error) {
	filter := scopeFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Users.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) CreateTeam(ctx context.Context, t *Team) error {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	_, err := r.Teams.InsertOne(ctx, t)
	return err
}

func (r *UserRepositoryImpl) GetTeam(ctx context.Context, id string, scope common_models.Scope) (*Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var t Team
	err = r.Teams.FindOne(ctx, filter).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *UserRepositoryImpl) ListTeams(ctx context.Context, scope common_models.Scope) ([]Team, error) {
	filter := scopeFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Teams.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []Team
	if err = cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}
