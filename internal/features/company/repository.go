package company

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

type CompanyRepository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id string, scope common_models.Scope) (*Company, error)
	GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error)
	List(ctx context.Context, scope common_models.Scope) ([]Company, error)
	Update(ctx context.Context, c *Company) error
	SoftDelete(ctx context.Context, id string, scope common_models.Scope) error
}

type CompanyRepositoryImpl struct {
	Companies *mongo.Collection
}

func NewCompanyRepository(mongodb *database.MongodbDB) CompanyRepository {
	return &CompanyRepositoryImpl{
		Companies: mongodb.DB.Collection("companies"),
	}
}

func scopeFilter(scope common_models.Scope) bson.M {
	return bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
	}
}

func (r *CompanyRepositoryImpl) Create(ctx context.Context, c *Company) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	_, err := r.Companies.InsertOne(ctx, c)
	return err
}

func (r *CompanyRepositoryImpl) GetByID(ctx context.Context, id string, scope common_models.Scope) (*Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var c Company
	err = r.Companies.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepositoryImpl) GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var doc bson.M
	err = r.Companies.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		doc["id"] = oid.Hex()
	}
	return doc, nil
}

func (r *CompanyRepositoryImpl) List(ctx context.Context, scope common_models.Scope) ([]Company, error) {
	filter := scopeFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Companies.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var companies []Company
	if err = cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepositoryImpl) Update(ctx context.Context, c *Company) error {
	c.UpdatedAt = time.Now()
	filter := scopeFilter(common_models.Scope{WorkspaceID: c.WorkspaceID, ClientID: c.ClientID})
	filter["_id"] = c.ID
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Companies.UpdateOne(ctx, filter, bson.M{"$set": c})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *CompanyRepositoryImpl) SoftDelete(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Companies.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
