package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/internal/repository"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack over an in-memory sqlite store
// with a controllable clock and no redis or search backends.
type testEnv struct {
	db             *gorm.DB
	now            *time.Time
	userID         uuid.UUID
	configRepo     repository.UserConfigRepository
	activityRepo   repository.ActivityRepository
	historyRepo    repository.HistoryRepository
	weeklyRepo     repository.WeeklyScheduleRepository
	dateRepo       repository.DateScheduleRepository
	todoRepo       repository.TodoRepository
	achieveRepo    repository.AchievementRepository
	configSvc      UserConfigService
	achievementSvc AchievementService
	activitySvc    ActivityService
	scheduleSvc    ScheduleService
	todoSvc        TodoService
}

func newTestEnv(t *testing.T, start time.Time) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.UserConfig{},
		&model.Activity{},
		&model.ActivityHistory{},
		&model.WeeklyScheduleEntry{},
		&model.DateScheduleEntry{},
		&model.TodoEntry{},
		&model.Achievement{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	now := start
	clock := func() time.Time { return now }

	env := &testEnv{
		db:           db,
		now:          &now,
		configRepo:   repository.NewUserConfigRepository(db),
		activityRepo: repository.NewActivityRepository(db),
		historyRepo:  repository.NewHistoryRepository(db),
		weeklyRepo:   repository.NewWeeklyScheduleRepository(db),
		dateRepo:     repository.NewDateScheduleRepository(db),
		todoRepo:     repository.NewTodoRepository(db),
		achieveRepo:  repository.NewAchievementRepository(db),
	}

	txManager := repository.NewTxManager(db)

	env.configSvc = NewUserConfigService(env.configRepo)
	env.achievementSvc = NewAchievementService(env.achieveRepo, env.activityRepo, env.historyRepo, env.configSvc, clock)
	env.activitySvc = NewActivityService(env.activityRepo, env.historyRepo, env.todoRepo, env.configSvc, env.achievementSvc, nil, nil, clock)
	env.scheduleSvc = NewScheduleService(env.weeklyRepo, env.dateRepo, env.activityRepo, txManager)
	env.todoSvc = NewTodoService(env.todoRepo, env.weeklyRepo, env.dateRepo, env.configRepo, env.configSvc, env.activitySvc, env.achievementSvc, txManager, nil, clock)

	user := &model.User{Username: "tester", Email: "tester@example.com", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	env.userID = user.ID

	return env
}

func (e *testEnv) setClock(at time.Time) {
	*e.now = at
}

func (e *testEnv) setConfig(t *testing.T, offsetMinutes int, clearTodo bool, lastPopulated string) {
	t.Helper()
	err := e.configRepo.Upsert(context.Background(), &model.UserConfig{
		UserID:              e.userID,
		DayEndOffsetMinutes: offsetMinutes,
		ClearTodoOnNewDay:   clearTodo,
		LastPopulatedDate:   lastPopulated,
	})
	if err != nil {
		t.Fatalf("failed to upsert config: %v", err)
	}
}

func (e *testEnv) createActivity(t *testing.T, title, activityPeriod string, goalCount int, task bool) *model.Activity {
	t.Helper()
	activity := &model.Activity{
		UserID:    e.userID,
		Title:     title,
		Period:    activityPeriod,
		GoalCount: goalCount,
		Task:      task,
	}
	if err := e.activityRepo.Create(context.Background(), activity); err != nil {
		t.Fatalf("failed to create activity %q: %v", title, err)
	}
	return activity
}

func (e *testEnv) addWeekly(t *testing.T, activityID uuid.UUID, dayOfWeek, sortOrder int) *model.WeeklyScheduleEntry {
	t.Helper()
	entry := &model.WeeklyScheduleEntry{
		UserID:     e.userID,
		DayOfWeek:  dayOfWeek,
		ActivityID: activityID,
		SortOrder:  sortOrder,
	}
	if err := e.weeklyRepo.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create weekly entry: %v", err)
	}
	return entry
}

func (e *testEnv) addDate(t *testing.T, activityID uuid.UUID, date string, sortOrder int) *model.DateScheduleEntry {
	t.Helper()
	entry := &model.DateScheduleEntry{
		UserID:        e.userID,
		ScheduledDate: date,
		ActivityID:    activityID,
		SortOrder:     sortOrder,
	}
	if err := e.dateRepo.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create date entry: %v", err)
	}
	return entry
}

func (e *testEnv) addTodo(t *testing.T, activityID uuid.UUID, sortOrder int) *model.TodoEntry {
	t.Helper()
	entry := &model.TodoEntry{
		UserID:     e.userID,
		ActivityID: activityID,
		SortOrder:  sortOrder,
	}
	if err := e.todoRepo.Create(context.Background(), entry); err != nil {
		t.Fatalf("failed to create todo entry: %v", err)
	}
	return entry
}

func (e *testEnv) createAchievement(t *testing.T, a *model.Achievement) *model.Achievement {
	t.Helper()
	a.UserID = e.userID
	if err := e.achieveRepo.Create(context.Background(), a); err != nil {
		t.Fatalf("failed to create achievement: %v", err)
	}
	return a
}

func todoActivityIDs(t *testing.T, e *testEnv) []uuid.UUID {
	t.Helper()
	entries, err := e.todoRepo.FindByUser(context.Background(), e.userID)
	if err != nil {
		t.Fatalf("failed to list todos: %v", err)
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ActivityID)
	}
	return ids
}
