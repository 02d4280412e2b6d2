package workflow

import (
	"context"
	"regexp"
	"time"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkflowRepository interface {
	CreateWorkflow(ctx context.Context, wf *Workflow) error
	GetWorkflow(ctx context.Context, id string, scope common_models.Scope) (*Workflow, error)
	ListWorkflows(ctx context.Context, scope common_models.Scope) ([]Workflow, error)
	UpdateWorkflow(ctx context.Context, wf *Workflow) error
	SoftDeleteWorkflow(ctx context.Context, id string, scope common_models.Scope) error
	GetWorkflowsByIDs(ctx context.Context, ids []primitive.ObjectID, scope common_models.Scope) ([]Workflow, error)

	CreateEventWorkflow(ctx context.Context, ew *EventWorkflow) error
	UpdateEventWorkflow(ctx context.Context, ew *EventWorkflow) error
	DeleteEventWorkflow(ctx context.Context, id string, scope common_models.Scope) error
	ListEventWorkflows(ctx context.Context, eventID string, scope common_models.Scope) ([]EventWorkflow, error)

	InsertActions(ctx context.Context, actions []*WorkflowAction) error
	UpdateAction(ctx context.Context, action *WorkflowAction) error
	SoftDeleteAction(ctx context.Context, id string, scope common_models.Scope) error
	GetActionsByIDs(ctx context.Context, ids []primitive.ObjectID, scope common_models.Scope) ([]WorkflowAction, error)
	ActionNameExists(ctx context.Context, name, clientID string, exclude []primitive.ObjectID) (bool, error)
}

type WorkflowRepositoryImpl struct {
	Workflows      *mongo.Collection
	Actions        *mongo.Collection
	EventWorkflows *mongo.Collection
}

func NewWorkflowRepository(mongodb *database.MongodbDB) WorkflowRepository {
	return &WorkflowRepositoryImpl{
		Workflows:      mongodb.DB.Collection("workflows"),
		Actions:        mongodb.DB.Collection("workflow_actions"),
		EventWorkflows: mongodb.DB.Collection("event_workflows"),
	}
}

func scopeFilter(scope common_models.Scope) bson.M {
	return bson.M{
		"workspace_id": scope.WorkspaceID,
		"client_id":    scope.ClientID,
	}
}

func (r *WorkflowRepositoryImpl) CreateWorkflow(ctx context.Context, wf *Workflow) error {
	wf.ID = primitive.NewObjectID()
	wf.CreatedAt = time.Now()
	wf.UpdatedAt = time.Now()
	if wf.Status == "" {
		wf.Status = StatusActive
	}
	_, err := r.Workflows.InsertOne(ctx, wf)
	return err
}

func (r *WorkflowRepositoryImpl) GetWorkflow(ctx context.Context, id string, scope common_models.Scope) (*Workflow, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	var wf Workflow
	err = r.Workflows.FindOne(ctx, filter).Decode(&wf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepositoryImpl) ListWorkflows(ctx context.Context, scope common_models.Scope) ([]Workflow, error) {
	filter := scopeFilter(scope)
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Workflows.Find(ctx, filter, options.Find().SetSort(bson.M{"position": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workflows []Workflow
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// workflowUpdateDoc carries only the mutable fields; identity, tenancy and
// creation stamps never appear in an update so a request-parsed workflow
// cannot zero them out.
func workflowUpdateDoc(wf *Workflow) bson.M {
	return bson.M{
		"name":       wf.Name,
		"status":     wf.Status,
		"position":   wf.Position,
		"always_run": wf.AlwaysRun,
		"rules":      wf.Rules,
		"action_ids": wf.ActionIDs,
		"updated_at": wf.UpdatedAt,
	}
}

func (r *WorkflowRepositoryImpl) UpdateWorkflow(ctx context.Context, wf *Workflow) error {
	wf.UpdatedAt = time.Now()
	filter := scopeFilter(common_models.Scope{WorkspaceID: wf.WorkspaceID, ClientID: wf.ClientID})
	filter["_id"] = wf.ID
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Workflows.UpdateOne(ctx, filter, bson.M{"$set": workflowUpdateDoc(wf)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SoftDeleteWorkflow marks the workflow deleted; workflow rows are never hard
// deleted.
func (r *WorkflowRepositoryImpl) SoftDeleteWorkflow(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	now := time.Now()
	res, err := r.Workflows.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"deleted":    true,
		"deleted_at": now,
		"updated_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *WorkflowRepositoryImpl) GetWorkflowsByIDs(ctx context.Context, ids []primitive.ObjectID, scope common_models.Scope) ([]Workflow, error) {
	if len(ids) == 0 {
		return []Workflow{}, nil
	}
	filter := scopeFilter(scope)
	filter["_id"] = bson.M{"$in": ids}
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Workflows.Find(ctx, filter, options.Find().SetSort(bson.M{"position": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workflows []Workflow
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// CreateEventWorkflow rejects a duplicate (event, workflow, workspace, client)
// link with ErrAlreadyExists.
func (r *WorkflowRepositoryImpl) CreateEventWorkflow(ctx context.Context, ew *EventWorkflow) error {
	filter := bson.M{
		"event_id":     ew.EventID,
		"workflow_id":  ew.WorkflowID,
		"workspace_id": ew.WorkspaceID,
		"client_id":    ew.ClientID,
	}
	count, err := r.EventWorkflows.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.ErrAlreadyExists
	}

	ew.ID = primitive.NewObjectID()
	ew.CreatedAt = time.Now()
	_, err = r.EventWorkflows.InsertOne(ctx, ew)
	return err
}

// UpdateEventWorkflow re-points an existing link. The uniqueness check covers
// the link's new quadruple, excluding the row itself.
func (r *WorkflowRepositoryImpl) UpdateEventWorkflow(ctx context.Context, ew *EventWorkflow) error {
	dup := bson.M{
		"event_id":     ew.EventID,
		"workflow_id":  ew.WorkflowID,
		"workspace_id": ew.WorkspaceID,
		"client_id":    ew.ClientID,
		"_id":          bson.M{"$ne": ew.ID},
	}
	count, err := r.EventWorkflows.CountDocuments(ctx, dup)
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.ErrAlreadyExists
	}

	filter := scopeFilter(common_models.Scope{WorkspaceID: ew.WorkspaceID, ClientID: ew.ClientID})
	filter["_id"] = ew.ID

	res, err := r.EventWorkflows.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"event_id":    ew.EventID,
		"workflow_id": ew.WorkflowID,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *WorkflowRepositoryImpl) DeleteEventWorkflow(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid

	res, err := r.EventWorkflows.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *WorkflowRepositoryImpl) ListEventWorkflows(ctx context.Context, eventID string, scope common_models.Scope) ([]EventWorkflow, error) {
	filter := scopeFilter(scope)
	filter["event_id"] = eventID

	cursor, err := r.EventWorkflows.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []EventWorkflow
	if err = cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *WorkflowRepositoryImpl) InsertActions(ctx context.Context, actions []*WorkflowAction) error {
	if len(actions) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(actions))
	now := time.Now()
	for _, a := range actions {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		a.CreatedAt = now
		a.UpdatedAt = now
		docs = append(docs, a)
	}
	_, err := r.Actions.InsertMany(ctx, docs)
	return err
}

func (r *WorkflowRepositoryImpl) UpdateAction(ctx context.Context, action *WorkflowAction) error {
	action.UpdatedAt = time.Now()
	filter := scopeFilter(common_models.Scope{WorkspaceID: action.WorkspaceID, ClientID: action.ClientID})
	filter["_id"] = action.ID
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Actions.UpdateOne(ctx, filter, bson.M{"$set": action})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *WorkflowRepositoryImpl) SoftDeleteAction(ctx context.Context, id string, scope common_models.Scope) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	filter := scopeFilter(scope)
	filter["_id"] = oid
	filter["deleted"] = bson.M{"$ne": true}

	res, err := r.Actions.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
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

func (r *WorkflowRepositoryImpl) GetActionsByIDs(ctx context.Context, ids []primitive.ObjectID, scope common_models.Scope) ([]WorkflowAction, error) {
	if len(ids) == 0 {
		return []WorkflowAction{}, nil
	}
	filter := scopeFilter(scope)
	filter["_id"] = bson.M{"$in": ids}
	filter["deleted"] = bson.M{"$ne": true}

	cursor, err := r.Actions.Find(ctx, filter, options.Find().SetSort(bson.M{"position": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var actions []WorkflowAction
	if err = cursor.All(ctx, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// ActionNameExists checks name uniqueness case-insensitively within the
// client scope.
func (r *WorkflowRepositoryImpl) ActionNameExists(ctx context.Context, name, clientID string, exclude []primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"client_id": clientID,
		"deleted":   bson.M{"$ne": true},
		"name":      primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"},
	}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}
	count, err := r.Actions.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
