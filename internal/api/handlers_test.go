package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"example.com/fitpoints/internal/domain"
	"example.com/fitpoints/internal/persistence/memory"
)

func newTestHandler(t *testing.T) (*Handler, *memory.Store, domain.User) {
	t.Helper()

	store := memory.NewStore()
	ids := domain.UUIDGenerator{}
	sessions := domain.NewSessionService(store.Sessions(), store.Programs(), ids)
	programs := domain.NewProgramService(store.Programs(), ids)
	points := domain.NewPointsService(store, store.Sessions(), store.Ledger())
	goals := domain.NewGoalService(store.Goals(), store.Rewards(), store.UserRewards(), ids)
	rewards := domain.NewRewardService(store.Rewards(), store.UserRewards(), store, ids)
	tracker := domain.NewTracker(store, sessions, points, goals, rewards, store.Goals())
	stats := domain.NewStatsService(store.Stats())

	user := store.SeedUser(domain.User{Name: "Alex"})

	handler := NewHandler(Services{
		Tracker:  tracker,
		Sessions: sessions,
		Programs: programs,
		Goals:    goals,
		Rewards:  rewards,
		Points:   points,
		Stats:    stats,
		Users:    store,
		IDs:      ids,
	})
	return handler, store, user
}

func doJSON(t *testing.T, handler *Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestLogSessionReturnsReport(t *testing.T) {
	handler, _, user := newTestHandler(t)

	monday := time.Date(2025, time.October, 27, 9, 0, 0, 0, time.UTC)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = doJSON(t, handler, http.MethodPost, "/v1/sessions", LogSessionRequest{
			UserID:      user.ID,
			WorkoutType: "running",
			Date:        monday.Add(time.Duration(i) * time.Hour),
			DurationMin: 60,
		})
		if last.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", last.Code, last.Body.String())
		}
	}

	var resp LogSessionResponse
	if err := json.Unmarshal(last.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PointsEarned != 1 {
		t.Fatalf("expected 1 point earned got %d", resp.PointsEarned)
	}
	if resp.Session.UserID != user.ID {
		t.Fatalf("unexpected session user %s", resp.Session.UserID)
	}
}

func TestLogSessionRejectsUnknownWorkoutType(t *testing.T) {
	handler, _, user := newTestHandler(t)

	rr := doJSON(t, handler, http.MethodPost, "/v1/sessions", LogSessionRequest{
		UserID:      user.ID,
		WorkoutType: "parkour",
		Date:        time.Now().UTC(),
		DurationMin: 30,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListSessionsPaginates(t *testing.T) {
	handler, _, user := newTestHandler(t)

	monday := time.Date(2025, time.October, 27, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rr := doJSON(t, handler, http.MethodPost, "/v1/sessions", LogSessionRequest{
			UserID:      user.ID,
			WorkoutType: "yoga",
			Date:        monday.Add(time.Duration(i) * time.Hour),
			DurationMin: 30,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rr.Code)
		}
	}

	rr := doJSON(t, handler, http.MethodGet, "/v1/sessions?user_id="+user.ID+"&limit=2", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var page ListSessionsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	rr = doJSON(t, handler, http.MethodGet, "/v1/sessions?user_id="+user.ID+"&limit=2&cursor="+page.NextCursor, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item got %d", len(page.Items))
	}
}

func TestUnlockRewardMapsInsufficientPoints(t *testing.T) {
	handler, _, user := newTestHandler(t)

	rr := doJSON(t, handler, http.MethodPost, "/v1/rewards", CreateRewardRequest{
		Name:       "massage",
		Tier:       2,
		PointsCost: 5,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var reward RewardView
	if err := json.Unmarshal(rr.Body.Bytes(), &reward); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	rr = doJSON(t, handler, http.MethodPost, "/v1/rewards/"+reward.RewardID+"/unlock", UnlockRewardRequest{UserID: user.ID})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetSessionNotFound(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rr := doJSON(t, handler, http.MethodGet, "/v1/sessions/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGoalLifecycle(t *testing.T) {
	handler, _, user := newTestHandler(t)

	rr := doJSON(t, handler, http.MethodPost, "/v1/goals", CreateGoalRequest{
		UserID:         user.ID,
		Name:           "consistency",
		PointsRequired: 5,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var goal GoalView
	if err := json.Unmarshal(rr.Body.Bytes(), &goal); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	newName := "steadiness"
	rr = doJSON(t, handler, http.MethodPatch, "/v1/goals/"+goal.GoalID, UpdateGoalRequest{Name: &newName})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &goal); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if goal.Name != "steadiness" {
		t.Fatalf("unexpected goal name %s", goal.Name)
	}

	rr = doJSON(t, handler, http.MethodPost, "/v1/goals/"+goal.GoalID+"/reset", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateProgramValidatesExercises(t *testing.T) {
	handler, _, user := newTestHandler(t)

	rr := doJSON(t, handler, http.MethodPost, "/v1/programs", CreateProgramRequest{
		UserID:      user.ID,
		Name:        "leg day",
		WorkoutType: "gym",
		Exercises:   []ExercisePayload{{Name: "squat", Sets: 0, Reps: 5}},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetUserReportsBalance(t *testing.T) {
	handler, store, user := newTestHandler(t)

	stored, err := store.Get(context.Background(), user.ID)
	if err != nil || stored == nil {
		t.Fatalf("seed user missing: %v", err)
	}

	rr := doJSON(t, handler, http.MethodGet, "/v1/users/"+user.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var view UserView
	if err := json.Unmarshal(rr.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if view.Points != 0 {
		t.Fatalf("expected zero balance got %d", view.Points)
	}
	if view.Name != "Alex" {
		t.Fatalf("unexpected name %s", view.Name)
	}
}
