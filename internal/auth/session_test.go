package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	_ "github.com/mahesh-atx/capro/testing"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionManager(client, "test_session", time.Hour, false)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.User() != "" {
		t.Fatal("fresh session must be anonymous")
	}

	sess.SetUser("CA Sharma")
	sess.SetActiveClient("abc-industries")
	rec := httptest.NewRecorder()
	if err := sm.Commit(ctx, rec, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookie := sessionCookie(t, rec, "test_session")
	if cookie.Value != sess.ID || !cookie.HttpOnly {
		t.Fatalf("bad cookie: %+v", cookie)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	reloaded, err := sm.Load(ctx, req2)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.User() != "CA Sharma" || reloaded.ActiveClient() != "abc-industries" {
		t.Fatalf("session not persisted: user=%q client=%q", reloaded.User(), reloaded.ActiveClient())
	}
}

func TestSessionExpiredEntryStartsFresh(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	// Cookie present but no Redis entry behind it.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "stale-id"})

	sess, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.User() != "" || sess.ID != "stale-id" {
		t.Fatalf("expected fresh session under old id, got %+v", sess)
	}
}

func TestSessionDestroy(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser("CA Sharma")
	rec := httptest.NewRecorder()
	if err := sm.Commit(ctx, rec, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := sessionCookie(t, rec, "test_session")

	sm.Destroy(sess)
	rec2 := httptest.NewRecorder()
	if err := sm.Commit(ctx, rec2, sess); err != nil {
		t.Fatalf("destroy commit: %v", err)
	}
	cleared := sessionCookie(t, rec2, "test_session")
	if cleared.MaxAge != -1 || cleared.Value != "" {
		t.Fatalf("cookie not cleared: %+v", cleared)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	reloaded, err := sm.Load(ctx, req)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.User() != "" {
		t.Fatal("destroyed session still has a user")
	}
}
