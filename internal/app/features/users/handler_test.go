package users_test

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"sync"
	"testing"
	"time"

	uierrors "github.com/dalemusser/mindhub/internal/app/features/errors"
	"github.com/dalemusser/mindhub/internal/app/features/users"
	userstore "github.com/dalemusser/mindhub/internal/app/store/users"
	"github.com/dalemusser/mindhub/internal/app/system/mailer"
	"github.com/dalemusser/mindhub/internal/app/system/ratelimit"
	"github.com/dalemusser/mindhub/internal/domain/models"
	"github.com/dalemusser/mindhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, e mailer.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

func newTestHandler(t *testing.T, sender mailer.Sender) (*users.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := users.NewHandler(db, sender, uierrors.NewErrorLogger(logger), logger)
	h.MailRetries = 0
	return h, db
}

var eightDigits = regexp.MustCompile(`\b\d{8}\b`)

func TestHandleCreate_IssuesTokenAndMails(t *testing.T) {
	sender := &fakeSender{}
	h, db := newTestHandler(t, sender)

	req := testutil.NewJSONRequest(t, "POST", "/users", map[string]string{
		"name": "Ada", "email": "Ada@Example.com", "password": "s3cret!!",
	}, nil)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var body map[string]interface{}
	rec.DecodeJSON(t, &body)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "verificationToken")
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, models.RoleUser, body["role"])
	assert.Equal(t, false, body["isVerified"])

	ctx, cancel := testutil.TestContext()
	defer cancel()
	stored, err := userstore.New(db).GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.VerificationToken)
	assert.Regexp(t, `^\d{8}$`, *stored.VerificationToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret!!")))
	cost, _ := bcrypt.Cost([]byte(stored.Password))
	assert.Equal(t, users.BcryptCost, cost)

	h.WaitForMail()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ada@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].TextBody, *stored.VerificationToken)
}

func TestHandleCreate_MailFailureStillCreates(t *testing.T) {
	h, db := newTestHandler(t, &fakeSender{err: errors.New("smtp down")})

	req := testutil.NewJSONRequest(t, "POST", "/users", map[string]string{
		"name": "Bo", "email": "bo@example.com", "password": "s3cret!!",
	}, nil)
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)
	rec.AssertStatus(t, http.StatusCreated)
	h.WaitForMail()

	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err := userstore.New(db).GetByEmail(ctx, "bo@example.com")
	assert.NoError(t, err, "account must survive a failed mail")
}

// stallSender blocks every Send until release is closed.
type stallSender struct {
	release chan struct{}
	sent    chan mailer.Email
}

func (s *stallSender) Send(ctx context.Context, e mailer.Email) error {
	select {
	case <-s.release:
		s.sent <- e
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestHandleCreate_DoesNotWaitForMail(t *testing.T) {
	sender := &stallSender{release: make(chan struct{}), sent: make(chan mailer.Email, 1)}
	h, _ := newTestHandler(t, sender)

	req := testutil.NewJSONRequest(t, "POST", "/users", map[string]string{
		"name": "Cy", "email": "cy@example.com", "password": "s3cret!!",
	}, nil)
	done := make(chan int, 1)
	go func() {
		rec := testutil.NewRecorder()
		h.HandleCreate(rec, req)
		done <- rec.Code
	}()

	select {
	case code := <-done:
		assert.Equal(t, http.StatusCreated, code)
	case <-time.After(5 * time.Second):
		t.Fatal("create blocked on a stalled mail server")
	}

	close(sender.release)
	h.WaitForMail()
	select {
	case e := <-sender.sent:
		assert.Equal(t, "cy@example.com", e.To)
	default:
		t.Fatal("verification mail was not delivered after the server recovered")
	}
}

func TestHandleCreate_Rejections(t *testing.T) {
	h, db := newTestHandler(t, nil)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUser(ctx, "Taken", "taken@example.com", models.RoleUser)

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"duplicate email", map[string]string{"name": "X", "email": "TAKEN@example.com", "password": "s3cret!!"}, http.StatusConflict},
		{"bad role", map[string]string{"name": "X", "email": "x@example.com", "password": "s3cret!!", "role": "root"}, http.StatusBadRequest},
		{"short password", map[string]string{"name": "X", "email": "x@example.com", "password": "123"}, http.StatusBadRequest},
		{"seven char password", map[string]string{"name": "X", "email": "x@example.com", "password": "abc1234"}, http.StatusBadRequest},
		{"missing name", map[string]string{"email": "x@example.com", "password": "s3cret!!"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.NewJSONRequest(t, "POST", "/users", tt.body, nil))
			rec.AssertStatus(t, tt.status)
		})
	}
}

func TestVerify_SingleUse(t *testing.T) {
	h, db := newTestHandler(t, nil)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUnverifiedUser(ctx, "Pending", "pending@example.com", "12345678")

	router := users.Routes(h, ratelimit.New(100, time.Minute))

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/verify/12345678"))
	rec.AssertStatus(t, http.StatusOK)

	u, err := userstore.New(db).GetByEmail(ctx, "pending@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsVerified)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/verify/12345678"))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestResend(t *testing.T) {
	sender := &fakeSender{}
	h, db := newTestHandler(t, sender)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateUnverifiedUser(ctx, "Pending", "pending@example.com", "11112222")
	fx.CreateUser(ctx, "Done", "done@example.com", models.RoleUser)

	t.Run("rotates token", func(t *testing.T) {
		rec := testutil.NewRecorder()
		h.HandleResend(rec, testutil.NewJSONRequest(t, "POST", "/users/resend-verification", map[string]string{"email": "pending@example.com"}, nil))
		rec.AssertStatus(t, http.StatusOK)

		u, err := userstore.New(db).GetByEmail(ctx, "pending@example.com")
		require.NoError(t, err)
		require.NotNil(t, u.VerificationToken)
		h.WaitForMail()
		require.Len(t, sender.sent, 1)
		assert.Equal(t, *u.VerificationToken, eightDigits.FindString(sender.sent[0].TextBody))
	})

	t.Run("already verified", func(t *testing.T) {
		rec := testutil.NewRecorder()
		h.HandleResend(rec, testutil.NewJSONRequest(t, "POST", "/users/resend-verification", map[string]string{"email": "done@example.com"}, nil))
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := testutil.NewRecorder()
		h.HandleResend(rec, testutil.NewJSONRequest(t, "POST", "/users/resend-verification", map[string]string{"email": "ghost@example.com"}, nil))
		rec.AssertStatus(t, http.StatusNotFound)
	})
}

func TestHandleProfile(t *testing.T) {
	h, db := newTestHandler(t, nil)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Me", "me@example.com", models.RoleUser)

	rec := testutil.NewRecorder()
	h.HandleProfile(rec, testutil.NewJSONRequest(t, "GET", "/users/profile", nil, testutil.PrincipalFor(u)))
	rec.AssertStatus(t, http.StatusOK)

	var body map[string]interface{}
	rec.DecodeJSON(t, &body)
	assert.Equal(t, u.ID.Hex(), body["id"])
	assert.Contains(t, body, "profile")

	rec = testutil.NewRecorder()
	h.HandleProfile(rec, testutil.NewJSONRequest(t, "GET", "/users/profile", nil, testutil.AnonymousPrincipal(models.RoleUser)))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestRoutes_ListRequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	router := users.Routes(h, ratelimit.New(100, time.Minute))

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
