package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ars-patel/TaskHub-Backend/models"
)

// DashboardService computes per-tenant and per-member task statistics.
// The aggregation pipelines run behind a circuit breaker so that a slow or
// failing store makes the dashboard fail fast instead of piling up requests.
type DashboardService struct {
	Tasks   *mongo.Collection
	Breaker *gobreaker.CircuitBreaker
}

func NewDashboardService(tasks *mongo.Collection, breaker *gobreaker.CircuitBreaker) *DashboardService {
	return &DashboardService{Tasks: tasks, Breaker: breaker}
}

type DashboardStatistics struct {
	TotalTasks     int64 `json:"totalTasks"`
	PendingTasks   int64 `json:"pendingTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
}

type DashboardCharts struct {
	TaskDistribution   map[string]int64 `json:"taskDistribution"`
	TaskPriorityLevels map[string]int64 `json:"taskPriorityLevels"`
}

type RecentTask struct {
	ID        primitive.ObjectID  `bson:"_id" json:"_id"`
	Title     string              `bson:"title" json:"title"`
	Status    models.TaskStatus   `bson:"status" json:"status"`
	Priority  models.TaskPriority `bson:"priority" json:"priority"`
	DueDate   time.Time           `bson:"dueDate" json:"dueDate"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type DashboardData struct {
	Statistics  DashboardStatistics `json:"statistics"`
	Charts      DashboardCharts     `json:"charts"`
	RecentTasks []RecentTask        `json:"recentTasks"`
}

// ForAdmin computes the tenant-wide dashboard for an admin.
func (s *DashboardService) ForAdmin(ctx context.Context, adminID primitive.ObjectID) (*DashboardData, error) {
	return s.build(ctx, bson.M{"admin": adminID})
}

// ForMember computes the dashboard restricted to tasks assigned to the member
// within their tenant.
func (s *DashboardService) ForMember(ctx context.Context, tenantID, userID primitive.ObjectID) (*DashboardData, error) {
	return s.build(ctx, bson.M{"admin": tenantID, "assignedTo": userID})
}

func (s *DashboardService) build(ctx context.Context, base bson.M) (*DashboardData, error) {
	result, err := s.Breaker.Execute(func() (interface{}, error) {
		return s.buildUnguarded(ctx, base)
	})
	if err != nil {
		return nil, err
	}
	return result.(*DashboardData), nil
}

func (s *DashboardService) buildUnguarded(ctx context.Context, base bson.M) (*DashboardData, error) {
	data := &DashboardData{}

	withBase := func(extra bson.M) bson.M {
		filter := bson.M{}
		for k, v := range base {
			filter[k] = v
		}
		for k, v := range extra {
			filter[k] = v
		}
		return filter
	}

	var err error
	if data.Statistics.TotalTasks, err = s.Tasks.CountDocuments(ctx, base); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %v", err)
	}
	if data.Statistics.PendingTasks, err = s.Tasks.CountDocuments(ctx, withBase(bson.M{"status": models.StatusPending})); err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %v", err)
	}
	if data.Statistics.CompletedTasks, err = s.Tasks.CountDocuments(ctx, withBase(bson.M{"status": models.StatusCompleted})); err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %v", err)
	}
	overdue := withBase(bson.M{
		"status":  bson.M{"$ne": models.StatusCompleted},
		"dueDate": bson.M{"$lt": time.Now()},
	})
	if data.Statistics.OverdueTasks, err = s.Tasks.CountDocuments(ctx, overdue); err != nil {
		return nil, fmt.Errorf("failed to count overdue tasks: %v", err)
	}

	statusCounts, err := s.groupCounts(ctx, base, "$status")
	if err != nil {
		return nil, err
	}
	data.Charts.TaskDistribution = make(map[string]int64)
	for _, status := range []models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted} {
		key := strings.ReplaceAll(string(status), " ", "")
		data.Charts.TaskDistribution[key] = statusCounts[string(status)]
	}
	data.Charts.TaskDistribution["All"] = data.Statistics.TotalTasks

	priorityCounts, err := s.groupCounts(ctx, base, "$priority")
	if err != nil {
		return nil, err
	}
	data.Charts.TaskPriorityLevels = make(map[string]int64)
	for _, priority := range []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh} {
		data.Charts.TaskPriorityLevels[string(priority)] = priorityCounts[string(priority)]
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(10).
		SetProjection(bson.M{"title": 1, "status": 1, "priority": 1, "dueDate": 1, "createdAt": 1})
	cursor, err := s.Tasks.Find(ctx, base, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent tasks: %v", err)
	}
	defer cursor.Close(ctx)

	data.RecentTasks = []RecentTask{}
	if err := cursor.All(ctx, &data.RecentTasks); err != nil {
		return nil, fmt.Errorf("failed to decode recent tasks: %v", err)
	}

	return data, nil
}

// groupCounts runs a $match + $group pipeline and returns counts keyed by the
// grouped field value.
func (s *DashboardService) groupCounts(ctx context.Context, match bson.M, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := s.Tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation: %v", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
