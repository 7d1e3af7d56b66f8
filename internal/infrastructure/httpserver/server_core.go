package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/step-challenge/internal/core/ports"
	customMiddleware "github.com/avatarctic/step-challenge/internal/infrastructure/httpserver/middleware"
	"github.com/avatarctic/step-challenge/internal/infrastructure/metrics"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	// BasePath prefixes every route, e.g. "/steps".
	BasePath string
	// StorageRoot is served read-only under <BasePath>/storage when set.
	StorageRoot string
	// AnonKey admits unauthenticated GET requests that present it in the apikey header.
	AnonKey string
}

type ServerDeps struct {
	StepService        ports.StepService
	TeamService        ports.TeamService
	UserService        ports.UserService
	CompetitionService ports.CompetitionService
	GoalsService       ports.GoalsService
	BadgeService       ports.BadgeService
	PreferenceService  ports.PreferenceService
	ContactService     ports.ContactService
	AuthService        ports.AuthService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
	// HTTPMetrics defaults to collectors registered on Registerer.
	HTTPMetrics *metrics.HTTPMetrics
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
}

type Server struct {
	echo           *echo.Echo
	httpServer     *http.Server
	config         *ServerConfig
	logger         *logrus.Logger
	stepService    ports.StepService
	teamService    ports.TeamService
	userService    ports.UserService
	competitionSvc ports.CompetitionService
	goalsService   ports.GoalsService
	badgeService   ports.BadgeService
	preferenceSvc  ports.PreferenceService
	contactService ports.ContactService
	gatherer       prometheus.Gatherer
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.HTTPMetrics == nil {
		deps.HTTPMetrics = metrics.NewHTTPMetrics(deps.Registerer)
	}

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		stepService:    deps.StepService,
		teamService:    deps.TeamService,
		userService:    deps.UserService,
		competitionSvc: deps.CompetitionService,
		goalsService:   deps.GoalsService,
		badgeService:   deps.BadgeService,
		preferenceSvc:  deps.PreferenceService,
		contactService: deps.ContactService,
		gatherer:       deps.Gatherer,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.PreferenceService,
			deps.RateLimiterService,
			logger,
			serverConfig.AnonKey,
			deps.HTTPMetrics,
		),
	}

	server.setupMiddleware()
	server.setupRoutes()
	server.httpServer = server.newHTTPServer()

	return server
}
