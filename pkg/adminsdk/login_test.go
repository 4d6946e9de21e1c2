package adminsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func successHandler(t *testing.T, calls *atomic.Int64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/admin/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "admin", body["email"], "username travels as the email attribute")
		require.Equal(t, "Admin@123456", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"token": "abc",
				"admin": {"id": 1, "username": "admin", "email": "admin@example.com", "role": "super_admin", "is_active": true}
			}
		}`))
	}
}

func TestSubmit_Success(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(successHandler(t, &calls))
	defer srv.Close()

	storage := NewMemoryStorage()
	notifier := &recordingNotifier{}
	form := NewLoginForm(NewClient(srv.URL), storage, notifier)

	var navigatedTo AdminProfile
	form.OnAuthenticated = func(p AdminProfile) { navigatedTo = p }

	err := form.Submit(context.Background(), Credentials{Username: "admin", Password: "Admin@123456"})
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, form.State())
	require.EqualValues(t, 1, calls.Load())

	token, err := storage.Get(StorageKeyToken)
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	rawProfile, err := storage.Get(StorageKeyProfile)
	require.NoError(t, err)
	var profile AdminProfile
	require.NoError(t, json.Unmarshal([]byte(rawProfile), &profile))
	require.Equal(t, "admin", profile.Username)
	require.Equal(t, "super_admin", profile.Role)

	require.Equal(t, []string{MsgLoginSucceeded}, notifier.successes)
	require.Empty(t, notifier.errors)
	require.Equal(t, "admin", navigatedTo.Username)
}

func TestSubmit_EmptyFields_NoNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(successHandler(t, &calls))
	defer srv.Close()

	storage := NewMemoryStorage()
	form := NewLoginForm(NewClient(srv.URL), storage, nil)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty password", Credentials{Username: "admin"}},
		{"empty username", Credentials{Password: "Admin@123456"}},
		{"both empty", Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := form.Submit(context.Background(), tt.creds)
			require.ErrorIs(t, err, ErrMissingCredentials)
		})
	}

	require.EqualValues(t, 0, calls.Load())
	require.Equal(t, 0, storage.Len())
}

func TestSubmit_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "message": "invalid credentials: user not in table"}`))
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	notifier := &recordingNotifier{}
	form := NewLoginForm(NewClient(srv.URL), storage, notifier)

	err := form.Submit(context.Background(), Credentials{Username: "admin", Password: "nope"})
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.Equal(t, StateFailed, form.State())
	require.Equal(t, 0, storage.Len(), "no storage mutation on failure")

	// The user sees only the generic message, never the server's text
	require.Equal(t, []string{MsgLoginFailed}, notifier.errors)
	require.Empty(t, notifier.successes)
}

func TestSubmit_FailureModes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"success false with 200",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": false}`))
			},
		},
		{
			"malformed json",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": tru`))
			},
		},
		{
			"missing token",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": true, "data": {"admin": {"id": 1}}}`))
			},
		},
		{
			"missing admin profile",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"success": true, "data": {"token": "abc"}}`))
			},
		},
		{
			"server error",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			storage := NewMemoryStorage()
			form := NewLoginForm(NewClient(srv.URL), storage, nil)

			err := form.Submit(context.Background(), Credentials{Username: "admin", Password: "pw"})
			require.ErrorIs(t, err, ErrAuthenticationFailed)
			require.Equal(t, StateFailed, form.State())
			require.Equal(t, 0, storage.Len())
		})
	}
}

func TestSubmit_UnreachableEndpoint(t *testing.T) {
	// A server that is already closed
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	storage := NewMemoryStorage()
	form := NewLoginForm(NewClient(srv.URL), storage, nil)

	err := form.Submit(context.Background(), Credentials{Username: "admin", Password: "pw"})
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.Equal(t, StateFailed, form.State())
	require.Equal(t, 0, storage.Len())
}

func TestSubmit_InFlightGuard(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	received := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		close(received)
		<-release
		_, _ = w.Write([]byte(`{"success": true, "data": {"token": "abc", "admin": {"id": 1}}}`))
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	form := NewLoginForm(NewClient(srv.URL), storage, nil)

	creds := Credentials{Username: "admin", Password: "Admin@123456"}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- form.Submit(context.Background(), creds)
	}()

	// Wait until the first submission is definitely in flight
	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the server")
	}
	require.Equal(t, StateSubmitting, form.State())

	// Second rapid submit: rejected locally, no second request
	err := form.Submit(context.Background(), creds)
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-firstDone)

	require.EqualValues(t, 1, calls.Load(), "only one network call for two rapid submits")
	require.Equal(t, StateAuthenticated, form.State())
}

func TestSubmit_FailedThenRetry(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success": true, "data": {"token": "abc", "admin": {"id": 1, "username": "admin"}}}`))
	}))
	defer srv.Close()

	storage := NewMemoryStorage()
	form := NewLoginForm(NewClient(srv.URL), storage, nil)
	creds := Credentials{Username: "admin", Password: "Admin@123456"}

	require.ErrorIs(t, form.Submit(context.Background(), creds), ErrAuthenticationFailed)
	require.Equal(t, StateFailed, form.State())

	// The in-progress affordance was cleared; a retry goes through
	fail.Store(false)
	require.NoError(t, form.Submit(context.Background(), creds))
	require.Equal(t, StateAuthenticated, form.State())
	require.EqualValues(t, 2, calls.Load())
}

func TestLogout(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(successHandler(t, &calls))
	defer srv.Close()

	storage := NewMemoryStorage()
	form := NewLoginForm(NewClient(srv.URL), storage, nil)

	require.NoError(t, form.Submit(context.Background(), Credentials{Username: "admin", Password: "Admin@123456"}))
	require.Equal(t, 2, storage.Len())

	require.NoError(t, form.Logout())
	require.Equal(t, 0, storage.Len())
	require.Equal(t, StateIdle, form.State())
}
