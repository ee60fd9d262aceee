package service_test

import (
	"context"
	"testing"

	"github.com/memoai-dev/memocoach/pkg/coachtest"
	"github.com/memoai-dev/memocoach/pkg/gateway"
	"github.com/memoai-dev/memocoach/pkg/service"
)

// tokenHolder is a settable CredentialSource for tests.
type tokenHolder struct{ token string }

func (h *tokenHolder) Credential() string { return h.token }

// login authenticates against the fake service and points the holder at the
// issued token.
func login(t *testing.T, auth *service.Auth, holder *tokenHolder, username, password string) {
	t.Helper()
	res, err := auth.Login(context.Background(), username, password)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("login failed: %s (%s)", res.Error, res.Code)
	}
	var payload service.LoginPayload
	if err := res.Decode(&payload); err != nil {
		t.Fatal(err)
	}
	holder.token = payload.SessionToken
}

func newClient(t *testing.T, srv *coachtest.Server, holder *tokenHolder) *gateway.Client {
	t.Helper()
	return gateway.New(srv.URL(), gateway.WithCredentials(holder))
}

func TestAuthLifecycle(t *testing.T) {
	srv := coachtest.NewServer(coachtest.WithUser("alice", "pw", false))
	defer srv.Close()

	holder := &tokenHolder{}
	auth := service.NewAuth(newClient(t, srv, holder))
	ctx := context.Background()

	login(t, auth, holder, "alice", "pw")

	res, err := auth.Validate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("validate failed: %s", res.Error)
	}
	var who service.ValidatePayload
	if err := res.Decode(&who); err != nil {
		t.Fatal(err)
	}
	if who.Username != "alice" || who.IsAdmin {
		t.Errorf("validate payload = %+v", who)
	}

	res, err = auth.Logout(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("logout failed: %s", res.Error)
	}

	// The token is dead now.
	res, err = auth.Validate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Code != "AUTH_INVALID_TOKEN" {
		t.Errorf("validate after logout: success=%v code=%s", res.Success, res.Code)
	}
}

func TestAuthLoginFailures(t *testing.T) {
	srv := coachtest.NewServer(
		coachtest.WithUser("alice", "pw", false),
		coachtest.WithLockedUser("bob", "pw"),
	)
	defer srv.Close()

	auth := service.NewAuth(newClient(t, srv, &tokenHolder{}))
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		res, err := auth.Login(ctx, "alice", "wrong")
		if err != nil {
			t.Fatal(err)
		}
		if res.Success || res.Code != "AUTH_INVALID_CREDENTIALS" {
			t.Errorf("success=%v code=%s", res.Success, res.Code)
		}
	})

	t.Run("locked account", func(t *testing.T) {
		res, err := auth.Login(ctx, "bob", "pw")
		if err != nil {
			t.Fatal(err)
		}
		if res.Success || res.Code != "AUTH_ACCOUNT_LOCKED" {
			t.Errorf("success=%v code=%s", res.Success, res.Code)
		}
	})
}

func TestAuthAdminOperations(t *testing.T) {
	srv := coachtest.NewServer(coachtest.WithUser("root", "pw", true))
	defer srv.Close()

	holder := &tokenHolder{}
	auth := service.NewAuth(newClient(t, srv, holder))
	ctx := context.Background()
	login(t, auth, holder, "root", "pw")

	res, err := auth.CreateUser(ctx, service.NewUser{Username: "carol", Password: "pw2"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("create user failed: %s", res.Error)
	}

	res, err = auth.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var listing struct {
		Users []service.UserRecord `json:"users"`
	}
	if err := res.Decode(&listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Users) != 2 {
		t.Fatalf("user count = %d, want 2", len(listing.Users))
	}

	res, err = auth.DeleteUser(ctx, "carol")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("delete user failed: %s", res.Error)
	}

	t.Run("config documents", func(t *testing.T) {
		res, err := auth.UpdateConfig(ctx, "rubric", map[string]any{"criteria": 5})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Success {
			t.Fatalf("update config failed: %s", res.Error)
		}

		res, err = auth.GetConfig(ctx, "rubric")
		if err != nil {
			t.Fatal(err)
		}
		var doc struct {
			Name    string         `json:"name"`
			Content map[string]any `json:"content"`
		}
		if err := res.Decode(&doc); err != nil {
			t.Fatal(err)
		}
		if doc.Name != "rubric" || doc.Content["criteria"] != float64(5) {
			t.Errorf("config doc = %+v", doc)
		}
	})
}

func TestAdminOperationsRejectRegularUser(t *testing.T) {
	srv := coachtest.NewServer(coachtest.WithUser("alice", "pw", false))
	defer srv.Close()

	holder := &tokenHolder{}
	auth := service.NewAuth(newClient(t, srv, holder))
	ctx := context.Background()
	login(t, auth, holder, "alice", "pw")

	res, err := auth.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Status != 403 {
		t.Errorf("success=%v status=%d, want forbidden", res.Success, res.Status)
	}
}

func TestEvaluationSubmitAndGet(t *testing.T) {
	srv := coachtest.NewServer(coachtest.WithUser("alice", "pw", false))
	defer srv.Close()

	holder := &tokenHolder{}
	client := newClient(t, srv, holder)
	login(t, service.NewAuth(client), holder, "alice", "pw")

	evals := service.NewEvaluation(client)
	ctx := context.Background()

	res, err := evals.Submit(ctx, "A memo about quarterly targets.")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("submit failed: %s", res.Error)
	}
	var payload service.EvaluationPayload
	if err := res.Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload.Evaluation.ID == "" || payload.Evaluation.OverallScore == 0 {
		t.Errorf("evaluation = %+v", payload.Evaluation)
	}

	res, err = evals.Get(ctx, payload.Evaluation.ID)
	if err != nil {
		t.Fatal(err)
	}
	var fetched service.EvaluationPayload
	if err := res.Decode(&fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.Evaluation.ID != payload.Evaluation.ID {
		t.Errorf("fetched %q, want %q", fetched.Evaluation.ID, payload.Evaluation.ID)
	}

	t.Run("empty text rejected", func(t *testing.T) {
		res, err := evals.Submit(ctx, "")
		if err != nil {
			t.Fatal(err)
		}
		// The service wraps validation failures in a 200 with a numeric
		// envelope code; the gateway surfaces that code as the status.
		if res.Success || res.Status != 400 {
			t.Errorf("success=%v status=%d", res.Success, res.Status)
		}
	})
}

func TestConfigFrontend(t *testing.T) {
	srv := coachtest.NewServer()
	cfgSvc := service.NewConfig(gateway.New(srv.URL()), nil)

	got := cfgSvc.Frontend(context.Background())
	if got != service.DefaultFrontendConfig() {
		t.Errorf("published config = %+v", got)
	}

	t.Run("falls back to defaults when unreachable", func(t *testing.T) {
		srv.Close()
		got := cfgSvc.Frontend(context.Background())
		if got != service.DefaultFrontendConfig() {
			t.Errorf("fallback config = %+v", got)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	srv := coachtest.NewServer()
	defer srv.Close()

	health := service.NewHealth(gateway.New(srv.URL()))
	status, err := health.Check(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !status.Healthy() {
		t.Errorf("status = %+v", status)
	}
	if status.Services["llm"] != "healthy" {
		t.Errorf("services = %v", status.Services)
	}
}
