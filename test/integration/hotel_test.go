package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/robertarktes/lumiere-hotel/internal/adapters/crdb"
	"github.com/robertarktes/lumiere-hotel/internal/adapters/gotrue"
	mongoadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/mongo"
	"github.com/robertarktes/lumiere-hotel/internal/adapters/rabbit"
	redisadapter "github.com/robertarktes/lumiere-hotel/internal/adapters/redis"
	"github.com/robertarktes/lumiere-hotel/internal/auth"
	"github.com/robertarktes/lumiere-hotel/internal/booking"
	"github.com/robertarktes/lumiere-hotel/internal/config"
	"github.com/robertarktes/lumiere-hotel/internal/domain"
	httphandler "github.com/robertarktes/lumiere-hotel/internal/http"
	"github.com/robertarktes/lumiere-hotel/internal/idempotency"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"github.com/robertarktes/lumiere-hotel/internal/outbox"
	"github.com/robertarktes/lumiere-hotel/internal/rateLimit"
	"github.com/robertarktes/lumiere-hotel/internal/rooms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const jwtSecret = "integration-secret"

// fakeGoTrue serves the two identity endpoints the proxy uses and signs
// access tokens with jwtSecret.
func fakeGoTrue(t *testing.T) *httptest.Server {
	t.Helper()
	users := map[string]map[string]any{}
	passwords := map[string]string{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string         `json:"email"`
			Password string         `json:"password"`
			Data     map[string]any `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if _, ok := users[req.Email]; ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"msg":"User already registered"}`))
			return
		}
		req.Data["id"] = uuid.NewString()
		users[req.Email] = req.Data
		passwords[req.Email] = req.Password
		_ = json.NewEncoder(w).Encode(map[string]any{"id": req.Data["id"], "email": req.Email, "user_metadata": req.Data})
	})
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		meta, ok := users[req.Email]
		if !ok || passwords[req.Email] != req.Password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		id := meta["id"].(string)
		exp := time.Now().Add(time.Hour)
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": id, "exp": exp.Unix()}).SignedString([]byte(jwtSecret))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  token,
			"refresh_token": "refresh",
			"token_type":    "bearer",
			"expires_in":    3600,
			"expires_at":    exp.Unix(),
			"user":          map[string]any{"id": id, "email": req.Email, "user_metadata": meta},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest, port string) string {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	return host + ":" + mapped.Port()
}

func call(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func TestIntegration_SignUpSearchBook(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()

	crdbAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "cockroachdb/cockroach:v24.1.1",
		Cmd:          []string{"start-single-node", "--insecure"},
		ExposedPorts: []string{"26257/tcp", "8080/tcp"},
		WaitingFor:   wait.ForHTTP("/health?ready=1").WithPort("8080"),
	}, "26257")
	mongoAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections"),
	}, "27017")
	redisAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForExec([]string{"redis-cli", "ping"}),
	}, "6379")
	rabbitAddr := startContainer(t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-management",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		WaitingFor:   wait.ForLog("Server startup complete"),
	}, "5672")
	provider := fakeGoTrue(t)

	cfg := &config.Config{
		CRDBDSN:             "postgresql://root@" + crdbAddr + "/defaultdb?sslmode=disable",
		MongoURI:            "mongodb://" + mongoAddr,
		MongoDB:             "hotel_it",
		RedisAddr:           redisAddr,
		RabbitURL:           "amqp://guest:guest@" + rabbitAddr + "/",
		AuthProviderURL:     provider.URL,
		AuthProviderAnonKey: "anon",
		AuthProviderTimeout: 5 * time.Second,
		JWTSecret:           jwtSecret,
		CORSOrigins:         []string{"http://localhost:5173"},
		SessionTTL:          time.Hour,
		IdempotencyTTL:      time.Hour,
		AuthRateLimit:       100,
		RateWindow:          time.Minute,
	}
	logger := observability.NewNopLogger()

	pool, err := pgxpool.New(ctx, cfg.CRDBDSN)
	require.NoError(t, err)
	defer pool.Close()
	crdbRepo := crdb.NewRepository(pool)
	require.NoError(t, crdbRepo.Migrate(ctx))

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	require.NoError(t, err)
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)
	catalog := mongoadapter.NewCatalogRepository(mongoDB, logger)
	audit := mongoadapter.NewAuditLogger(mongoDB, logger)
	require.NoError(t, catalog.UpsertRooms(ctx, rooms.DemoRooms()))

	redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	redisCache := redisadapter.NewCache(redisClient)
	sessions := redisadapter.NewSessionStore(redisClient, cfg.SessionTTL)
	idemp := idempotency.NewIdempotency(redisadapter.NewIdempotency(redisClient), cfg.IdempotencyTTL)
	rl := rateLimit.NewRateLimiter(redisCache, logger)

	authSvc := auth.NewService(gotrue.NewClient(cfg.AuthProviderURL, cfg.AuthProviderAnonKey, cfg.AuthProviderTimeout), crdbRepo, audit, logger)
	bookingSvc := booking.NewService(catalog, crdbRepo, audit, logger)
	probes := map[string]httphandler.Pinger{"crdb": crdbRepo, "mongo": catalog, "redis": redisCache}
	handlers := httphandler.NewHandlers(authSvc, catalog, sessions, bookingSvc, probes, logger)

	srv := httptest.NewServer(httphandler.SetupRouter(handlers, cfg, logger, rl, idemp))
	defer srv.Close()

	resp, _ := call(t, http.MethodGet, srv.URL+"/readyz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Sign up and sign in.
	creds := map[string]string{"email": "ada@example.com", "password": "s3cret!", "name": "Ada"}
	resp, body := call(t, http.MethodPost, srv.URL+"/auth/sign-up", creds, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, http.MethodPost, srv.URL+"/auth/sign-up", creds, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"ProviderError","message":"User already registered"}`, string(body))

	resp, body = call(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"InvalidCredentialsError","message":"Invalid credentials"}`, string(body))

	resp, body = call(t, http.MethodPost, srv.URL+"/auth/login", map[string]string{"email": "ada@example.com", "password": "s3cret!"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login struct {
		User    domain.User `json:"user"`
		Session struct {
			AccessToken string `json:"access_token"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "Ada", login.User.Name)
	assert.Equal(t, domain.RoleCustomer, login.User.Role)

	profile, err := crdbRepo.GetProfile(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)

	// Search with session filters.
	sid := "it-" + uuid.NewString()
	resp, _ = call(t, http.MethodPatch, srv.URL+"/sessions/"+sid+"/filters", map[string]any{"guests": 4, "roomTypes": []string{"suite"}}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = call(t, http.MethodGet, srv.URL+"/sessions/"+sid+"/rooms?sort=price-low", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found struct {
		Rooms []domain.Room `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(body, &found))
	require.Len(t, found.Rooms, 1)
	assert.Equal(t, "room-grand-suite", found.Rooms[0].ID)

	// Draft and book.
	checkIn := time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	checkOut := checkIn.AddDate(0, 0, 2)
	resp, body = call(t, http.MethodPut, srv.URL+"/sessions/"+sid+"/draft", map[string]any{
		"roomId":    "room-grand-suite",
		"dateRange": map[string]any{"from": checkIn, "to": checkOut},
		"guests":    4,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	headers := map[string]string{
		"Authorization":   "Bearer " + login.Session.AccessToken,
		"Idempotency-Key": uuid.NewString(),
	}
	resp, body = call(t, http.MethodPost, srv.URL+"/bookings", map[string]string{"session_id": sid}, headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var conf booking.Confirmation
	require.NoError(t, json.Unmarshal(body, &conf))
	// 890 x 2 = 1780, taxes 213.6 -> 214, fee 25.
	assert.Equal(t, 2019.0, conf.Booking.TotalPrice)
	assert.Equal(t, login.User.ID, conf.Booking.UserID)

	resp, replay := call(t, http.MethodPost, srv.URL+"/bookings", map[string]string{"session_id": sid}, headers)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, string(body), string(replay))

	resp, body = call(t, http.MethodGet, srv.URL+"/bookings", nil, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list booking.BookingList
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Upcoming, 1)

	// Relay the booking.created event to the broker.
	rabbitConn, err := amqp.Dial(cfg.RabbitURL)
	require.NoError(t, err)
	defer rabbitConn.Close()
	rabbitPub, err := rabbit.NewPublisher(rabbitConn)
	require.NoError(t, err)
	defer rabbitPub.Close()

	ch, err := rabbitConn.Channel()
	require.NoError(t, err)
	defer ch.Close()
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "booking.*", rabbit.Exchange, false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	sent, err := outbox.NewPublisher(crdbRepo, rabbitPub, logger, time.Second).RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	select {
	case d := <-deliveries:
		assert.Equal(t, "booking.created", d.RoutingKey)
		assert.Contains(t, string(d.Body), conf.Booking.ID.String())
	case <-time.After(10 * time.Second):
		t.Fatal("no booking event delivered")
	}
}
