package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/keycard/internal/auth/domain"
	"github.com/aussiebroadwan/keycard/internal/auth/metrics"
	"github.com/aussiebroadwan/keycard/internal/auth/service"
	"github.com/aussiebroadwan/keycard/internal/auth/store"
	"github.com/aussiebroadwan/keycard/pkg/httpx"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
	"github.com/aussiebroadwan/keycard/pkg/slogx"

	_ "github.com/aussiebroadwan/keycard/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 64 << 10

// RateLimits groups the limiter profiles applied per route class.
type RateLimits struct {
	// Credential guards login, refresh, registration and password change.
	Credential httpx.RateLimitConfig
	// Authenticated guards bearer-protected routes, keyed by subject.
	Authenticated httpx.RateLimitConfig
	// Account caps login and password attempts per username across all
	// addresses.
	Account httpx.RateLimitConfig
	// Public guards health, metrics and docs.
	Public httpx.RateLimitConfig
}

// DefaultRateLimits returns the stock profiles from httpx.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Credential:    httpx.StrictLimit,
		Authenticated: httpx.ModerateLimit,
		Account:       httpx.AccountLimit,
		Public:        httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       RateLimits

	store        store.Store
	TokenService *service.TokenService
	UserService  *service.UserService
	Metrics      *metrics.Metrics
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	limits RateLimits,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		limits:       limits,
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.MaxBody(maxBodyBytes),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCredentials()
	r.registerAccounts()
	r.registerSystem()

	r.Mux.Handle("/swagger/",
		httpx.Chain(httpSwagger.Handler(),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Keycard Credential Service API
//	@version		0.1.0
//	@description	Login, refresh and revoke for HS256-signed JWT access tokens with rotating opaque refresh tokens.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/keycard
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCredentials() {
	// POST /login - strict per IP + username, plus a looser per-username
	// cap that holds across addresses
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(&LoginHandler{TokenService: r.TokenService},
			httpx.RateLimitByIPAndJSONField(r.limits.Credential, "username"),
			httpx.RateLimitByJSONField(r.limits.Account, "username"),
		),
	)

	// POST /refresh - strict by IP; the access token may be expired so
	// there is no verified subject to key on
	r.Mux.Handle("POST /v1/refresh",
		httpx.Chain(&RefreshHandler{TokenService: r.TokenService},
			httpx.RateLimitByIP(r.limits.Credential),
		),
	)

	// POST /revoke - authenticated, moderate by subject
	r.Mux.Handle("POST /v1/revoke",
		httpx.Chain(&RevokeHandler{TokenService: r.TokenService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.limits.Authenticated),
		),
	)
}

func (r *Router) registerAccounts() {
	reg := &RegistrationHandler{UserService: r.UserService, Verifier: r.verifier}

	r.Mux.Handle("POST /v1/registration",
		httpx.Chain(http.HandlerFunc(reg.HandleUser),
			httpx.RateLimitByIP(r.limits.Credential),
		),
	)

	// Bearer is optional here: the first admin registers anonymously
	r.Mux.Handle("POST /v1/registration/admin",
		httpx.Chain(http.HandlerFunc(reg.HandleAdmin),
			httpx.RateLimitByIP(r.limits.Credential),
		),
	)

	r.Mux.Handle("POST /v1/password",
		httpx.Chain(&PasswordHandler{UserService: r.UserService},
			httpx.RateLimitByIPAndJSONField(r.limits.Credential, "username"),
			httpx.RateLimitByJSONField(r.limits.Account, "username"),
		),
	)

	r.Mux.Handle("GET /v1/me",
		httpx.Chain(&MeHandler{Users: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.limits.Authenticated),
		),
	)

	r.Mux.Handle("GET /v1/admin/data",
		httpx.Chain(http.HandlerFunc(AdminDataHandler),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(r.limits.Authenticated),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /metrics", r.Metrics.Handler())
}
