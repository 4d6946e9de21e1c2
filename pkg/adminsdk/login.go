package adminsdk

import (
	"context"
	"sync"
)

// State is the login form's lifecycle position.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// LoginForm drives one credential-submission flow: it validates input,
// guards against duplicate in-flight submissions, and on success persists the
// session to storage under the fixed keys.
//
// A Failed form accepts another Submit; Authenticated is terminal for this
// component (what happens next is the caller's navigation concern, exposed
// through OnAuthenticated).
type LoginForm struct {
	client   *Client
	storage  Storage
	notifier Notifier

	// OnAuthenticated fires after the session is persisted. Optional.
	OnAuthenticated func(AdminProfile)

	mu       sync.Mutex
	inFlight bool
	state    State
}

// NewLoginForm wires a form to its collaborators. notifier may be nil, in
// which case feedback is dropped.
func NewLoginForm(client *Client, storage Storage, notifier Notifier) *LoginForm {
	return &LoginForm{
		client:   client,
		storage:  storage,
		notifier: notifier,
		state:    StateIdle,
	}
}

// State reports the form's current lifecycle position.
func (f *LoginForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit runs one login attempt.
//
// Empty credentials are rejected before any network call
// (ErrMissingCredentials). While an attempt is in flight, further Submits
// return ErrSubmissionInFlight without touching the network. On success the
// token and profile are written to storage in one batch, the success
// notification fires, and the form is Authenticated. On any failure the
// user sees only the generic error message, storage is untouched, and the
// form is Failed — ready for another attempt.
func (f *LoginForm) Submit(ctx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrMissingCredentials
	}

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.inFlight = true
	f.state = StateSubmitting
	f.mu.Unlock()

	// Re-enable the form on every exit path.
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	sess, err := f.client.Login(ctx, creds)
	if err != nil {
		f.fail()
		return err
	}

	err = f.storage.Put(map[string]string{
		StorageKeyToken:   sess.Token,
		StorageKeyProfile: string(sess.RawProfile),
	})
	if err != nil {
		f.fail()
		return err
	}

	f.setState(StateAuthenticated)
	f.notify(true)
	if f.OnAuthenticated != nil {
		f.OnAuthenticated(sess.Profile)
	}
	return nil
}

// Logout removes the persisted session and returns the form to Idle.
func (f *LoginForm) Logout() error {
	if err := f.storage.Delete(StorageKeyToken, StorageKeyProfile); err != nil {
		return err
	}
	f.setState(StateIdle)
	return nil
}

func (f *LoginForm) fail() {
	f.setState(StateFailed)
	f.notify(false)
}

func (f *LoginForm) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *LoginForm) notify(ok bool) {
	if f.notifier == nil {
		return
	}
	if ok {
		f.notifier.Success(MsgLoginSucceeded)
	} else {
		f.notifier.Error(MsgLoginFailed)
	}
}
