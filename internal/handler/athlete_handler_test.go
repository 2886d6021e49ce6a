package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m2ichu/wilksCalculatorApp/internal/auth"
	"github.com/m2ichu/wilksCalculatorApp/internal/middleware"
	"github.com/m2ichu/wilksCalculatorApp/internal/model"
	"github.com/m2ichu/wilksCalculatorApp/internal/scoring"
)

// --- モック ---

type mockAuthService struct {
	registerFn func(ctx context.Context, in auth.RegisterInput) (*model.AthleteSummary, error)
	loginFn    func(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error)
}

func (m *mockAuthService) Register(ctx context.Context, in auth.RegisterInput) (*model.AthleteSummary, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return &model.AthleteSummary{ID: "new-athlete"}, nil
}

func (m *mockAuthService) Login(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, emailOrUsername, password)
	}
	return "token", &model.AthleteSummary{ID: "athlete-1"}, nil
}

type mockResultService struct {
	submitFn     func(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error)
	getResultsFn func(ctx context.Context, athleteID, sortBy, sortOrder string) ([]model.Result, error)
}

func (m *mockResultService) Submit(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error) {
	if m.submitFn != nil {
		return m.submitFn(ctx, athleteID, bodyweightKg, totalLiftKg, category)
	}
	return nil, nil
}

func (m *mockResultService) GetResults(ctx context.Context, athleteID, sortBy, sortOrder string) ([]model.Result, error) {
	if m.getResultsFn != nil {
		return m.getResultsFn(ctx, athleteID, sortBy, sortOrder)
	}
	return nil, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithAthleteID(req.Context(), "athlete-1"))
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// --- Register ---

// 登録リクエストがサービス入力に正しく変換されることを検証
func TestAthleteHandler_Register(t *testing.T) {
	var gotInput auth.RegisterInput
	authSvc := &mockAuthService{
		registerFn: func(ctx context.Context, in auth.RegisterInput) (*model.AthleteSummary, error) {
			gotInput = in
			return &model.AthleteSummary{ID: "new-athlete", Username: in.Username}, nil
		},
	}
	h := NewAthleteHandler(authSvc, &mockResultService{}, nil)

	body := `{"username":"taro","email":"taro@example.com","password":"pw","weight":82.5,"firstName":"Taro","lastName":"Yamada"}`
	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if gotInput.Username != "taro" || gotInput.Bodyweight != 82.5 {
		t.Errorf("サービス入力 = %+v", gotInput)
	}

	respBody := decodeBody(t, resp)
	if respBody["message"] == "" {
		t.Error("messageが含まれるべき")
	}
	athlete := respBody["athlete"].(map[string]any)
	if athlete["username"] != "taro" {
		t.Errorf("athlete.username = %v", athlete["username"])
	}
}

// ユーザー名重複が400で返ることを検証
func TestAthleteHandler_Register_Duplicate(t *testing.T) {
	authSvc := &mockAuthService{
		registerFn: func(ctx context.Context, in auth.RegisterInput) (*model.AthleteSummary, error) {
			return nil, model.NewDuplicateUsernameError()
		},
	}
	h := NewAthleteHandler(authSvc, &mockResultService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{"username":"taken"}`))
	w := httptest.NewRecorder()

	h.Register(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var apiErr apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateUsername {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateUsername)
	}
}

// 不正なJSONボディが400で返ることを検証
func TestAthleteHandler_Register_MalformedBody(t *testing.T) {
	h := NewAthleteHandler(&mockAuthService{}, &mockResultService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Register(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- Login ---

// ログイン成功でトークンとサマリーが返ることを検証
func TestAthleteHandler_Login(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error) {
			if emailOrUsername != "taro" || password != "pw" {
				t.Errorf("認証情報 = %q/%q", emailOrUsername, password)
			}
			return "signed-token", &model.AthleteSummary{ID: "athlete-1", Username: "taro"}, nil
		},
	}
	h := NewAthleteHandler(authSvc, &mockResultService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"emailOrUsername":"taro","password":"pw"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body := decodeBody(t, resp)
	if body["token"] != "signed-token" {
		t.Errorf("token = %v", body["token"])
	}
	athlete := body["athlete"].(map[string]any)
	if athlete["id"] != "athlete-1" {
		t.Errorf("athlete.id = %v", athlete["id"])
	}
}

// 未承認選手のログインが403で返ることを検証
func TestAthleteHandler_Login_NotConfirmed(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error) {
			return "", nil, model.NewNotConfirmedError()
		},
	}
	h := NewAthleteHandler(authSvc, &mockResultService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"emailOrUsername":"taro","password":"pw"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Result().StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusForbidden)
	}
}

// 認証情報不一致が400で返ることを検証
func TestAthleteHandler_Login_InvalidCredentials(t *testing.T) {
	authSvc := &mockAuthService{
		loginFn: func(ctx context.Context, emailOrUsername, password string) (string, *model.AthleteSummary, error) {
			return "", nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewAthleteHandler(authSvc, &mockResultService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"emailOrUsername":"taro","password":"bad"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- AddResult ---

// 結果提出がサービスに委譲され、更新後の履歴が201で返ることを検証
func TestAthleteHandler_AddResult(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	resultSvc := &mockResultService{
		submitFn: func(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error) {
			if athleteID != "athlete-9" {
				t.Errorf("athleteID = %q, want %q", athleteID, "athlete-9")
			}
			if category != scoring.CategoryB {
				t.Errorf("category = %q, want %q", category, scoring.CategoryB)
			}
			return []model.Result{
				{Bodyweight: bodyweightKg, TotalLift: totalLiftKg, Score: 300.5, RecordedAt: now},
			}, nil
		},
	}
	h := NewAthleteHandler(&mockAuthService{}, resultSvc, nil)

	body := `{"athleteId":"athlete-9","weight":60,"totalLift":300,"category":"B"}`
	w := httptest.NewRecorder()

	h.AddResult(w, authedRequest(http.MethodPost, "/users/addResult", body))

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	respBody := decodeBody(t, resp)
	results := respBody["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("results数 = %d, want 1", len(results))
	}
	first := results[0].(map[string]any)
	if first["score"] != 300.5 {
		t.Errorf("score = %v, want 300.5", first["score"])
	}
	if first["totalLiftKg"] != 300.0 {
		t.Errorf("totalLiftKg = %v, want 300", first["totalLiftKg"])
	}
}

// athleteId省略時にトークンの選手自身に記録されることを検証
func TestAthleteHandler_AddResult_DefaultsToAuthedAthlete(t *testing.T) {
	var gotAthleteID string
	resultSvc := &mockResultService{
		submitFn: func(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error) {
			gotAthleteID = athleteID
			return []model.Result{}, nil
		},
	}
	h := NewAthleteHandler(&mockAuthService{}, resultSvc, nil)

	w := httptest.NewRecorder()
	h.AddResult(w, authedRequest(http.MethodPost, "/users/addResult", `{"weight":80,"totalLift":500}`))

	if gotAthleteID != "athlete-1" {
		t.Errorf("athleteID = %q, want %q", gotAthleteID, "athlete-1")
	}
}

// 存在しない選手への提出が404で返ることを検証
func TestAthleteHandler_AddResult_NotFound(t *testing.T) {
	resultSvc := &mockResultService{
		submitFn: func(ctx context.Context, athleteID string, bodyweightKg, totalLiftKg float64, category scoring.Category) ([]model.Result, error) {
			return nil, model.NewAthleteNotFoundError(athleteID)
		},
	}
	h := NewAthleteHandler(&mockAuthService{}, resultSvc, nil)

	w := httptest.NewRecorder()
	h.AddResult(w, authedRequest(http.MethodPost, "/users/addResult", `{"athleteId":"missing","weight":80,"totalLift":500}`))

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}

// 未認証の結果提出が401で返ることを検証
func TestAthleteHandler_AddResult_Unauthenticated(t *testing.T) {
	h := NewAthleteHandler(&mockAuthService{}, &mockResultService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/users/addResult", strings.NewReader(`{"weight":80,"totalLift":500}`))
	w := httptest.NewRecorder()

	h.AddResult(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- GetResults ---

// クエリパラメータがサービスに渡されることを検証
func TestAthleteHandler_GetResults(t *testing.T) {
	resultSvc := &mockResultService{
		getResultsFn: func(ctx context.Context, athleteID, sortBy, sortOrder string) ([]model.Result, error) {
			if athleteID != "athlete-9" || sortBy != "score" || sortOrder != "desc" {
				t.Errorf("パラメータ = %q/%q/%q", athleteID, sortBy, sortOrder)
			}
			return []model.Result{{Score: 341.35}}, nil
		},
	}
	h := NewAthleteHandler(&mockAuthService{}, resultSvc, nil)

	w := httptest.NewRecorder()
	h.GetResults(w, authedRequest(http.MethodGet, "/users/getResults?athleteId=athlete-9&sortBy=score&sortOrder=desc", ""))

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body := decodeBody(t, resp)
	results := body["results"].([]any)
	if len(results) != 1 {
		t.Errorf("results数 = %d, want 1", len(results))
	}
}

// sortBy省略時に提出日時でソートされることを検証
func TestAthleteHandler_GetResults_DefaultSort(t *testing.T) {
	var gotSortBy string
	resultSvc := &mockResultService{
		getResultsFn: func(ctx context.Context, athleteID, sortBy, sortOrder string) ([]model.Result, error) {
			gotSortBy = sortBy
			return nil, nil
		},
	}
	h := NewAthleteHandler(&mockAuthService{}, resultSvc, nil)

	w := httptest.NewRecorder()
	h.GetResults(w, authedRequest(http.MethodGet, "/users/getResults", ""))

	if gotSortBy != "recordedAt" {
		t.Errorf("sortBy = %q, want %q", gotSortBy, "recordedAt")
	}
}

// 無効なソートフィールドが400で返ることを検証
func TestAthleteHandler_GetResults_InvalidSortField(t *testing.T) {
	resultSvc := &mockResultService{
		getResultsFn: func(ctx context.Context, athleteID, sortBy, sortOrder string) ([]model.Result, error) {
			return nil, model.NewInvalidSortFieldError(sortBy)
		},
	}
	h := NewAthleteHandler(&mockAuthService{}, resultSvc, nil)

	w := httptest.NewRecorder()
	h.GetResults(w, authedRequest(http.MethodGet, "/users/getResults?sortBy=passwordHash", ""))

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// --- Logout ---

// 認証済みログアウトが成功メッセージを返すことを検証
func TestAthleteHandler_Logout(t *testing.T) {
	h := NewAthleteHandler(&mockAuthService{}, &mockResultService{}, nil)

	w := httptest.NewRecorder()
	h.Logout(w, authedRequest(http.MethodPost, "/users/logout", ""))

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body := decodeBody(t, resp)
	if body["message"] == "" {
		t.Error("messageが含まれるべき")
	}
}
