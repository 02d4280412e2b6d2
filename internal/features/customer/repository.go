package customer

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

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string, scope common_models.Scope) (*Customer, error)
	GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error)
	List(ctx context.Context, scope common_models.Scope) ([]Customer, error)
	Update(ctx context.Context, c *Customer) error
	SoftDelete(ctx context.Context, id string, scope common_models.Scope) error
}

type CustomerRepositoryImpl struct {
	Customers *mongo.Collection
}

func NewCustomerRepository(mongodb *database.MongodbDB) CustomerRepository {
	return &CustomerRepositoryImpl{
		Customers: mongodb.DB.Collection("customers"),
	}
}

func scopeFilter(scope common_models.Scope) bson.M {
	return bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
	}
}

func (r *CustomerRepositoryImpl) Create(ctx context.Context, c *Customer) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	_, err := r.Customers.InsertOne(ctx, c)
	return err
}

func (r *CustomerRepositoryImpl) GetByID(ctx context.Context, id string, scope common_models.Scope) (*Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var c Customer
	err = r.Customers.FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepositoryImpl) GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var doc bson.M
	err = r.Customers.FindOne(ctx, filter).Decode(&doc)
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

func (r *CustomerRepositoryImpl) List(ctx context.Context, scope common_models.Scope) ([]Customer, error) {
	filter := scopeFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Customers.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []Customer
	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepositoryImpl) Update(ctx context.Context, c *Customer) error {
	c.UpdatedAt = time.Now()
	filter := scopeFilter(common_models.Scope{WorkspaceID: c.WorkspaceID, ClientID: c.ClientID})
	filter["_id"] = c.ID
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Customers.UpdateOne(ctx, filter, bson.M{"$set": c})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *CustomerRepositoryImpl) SoftDelete(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Customers.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
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
