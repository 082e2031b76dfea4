package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/oakmount/stash/internal/stash/service"
	"github.com/oakmount/stash/internal/stash/store"
	"github.com/oakmount/stash/pkg/httpx"
	"github.com/oakmount/stash/pkg/jwtx"
	"github.com/oakmount/stash/pkg/slogx"

	_ "github.com/oakmount/stash/api/stash" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService *service.TokenService
	UserService  *service.UserService
	ItemService  *service.ItemService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMe()
	r.registerItems()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Stash API
//	@version		0.1.0
//	@description	A small multi-user item store with email/password accounts and JWT bearer tokens.
//	@description
//	@description				Tokens are signed with EdDSA (Ed25519) and carried in the Authorization header.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMe() {
	meHandler := &MeHandler{UserService: r.UserService}
	updateHandler := &UpdateProfileHandler{UserService: r.UserService}
	passwordHandler := &ChangePasswordHandler{UserService: r.UserService}
	deactivateHandler := &DeactivateHandler{UserService: r.UserService}

	secure := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/exp)
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/me", secure(meHandler))
	r.Mux.Handle("PATCH /v1/me", secure(updateHandler))
	r.Mux.Handle("DELETE /v1/me", secure(deactivateHandler))

	// Password changes verify the current password, so treat them like
	// login attempts and limit strictly.
	r.Mux.Handle("PUT /v1/me/password",
		httpx.Chain(passwordHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerItems() {
	listHandler := &ListItemsHandler{ItemService: r.ItemService}
	createHandler := &CreateItemHandler{ItemService: r.ItemService}
	getHandler := &GetItemHandler{ItemService: r.ItemService}
	updateHandler := &UpdateItemHandler{ItemService: r.ItemService}
	deleteHandler := &DeleteItemHandler{ItemService: r.ItemService}

	secure := func(h http.Handler) http.Handler {
		return httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/items", secure(listHandler))
	r.Mux.Handle("POST /v1/items", secure(createHandler))
	r.Mux.Handle("GET /v1/items/{id}", secure(getHandler))
	r.Mux.Handle("PUT /v1/items/{id}", secure(updateHandler))
	r.Mux.Handle("DELETE /v1/items/{id}", secure(deleteHandler))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
