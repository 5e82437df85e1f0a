package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	httpapi "github.com/roomify-app/roomify-backend/internal/api/http"
	"github.com/roomify-app/roomify-backend/internal/api/http/middleware"
	"github.com/roomify-app/roomify-backend/internal/auth"
	authhttp "github.com/roomify-app/roomify-backend/internal/auth/http"
	authmw "github.com/roomify-app/roomify-backend/internal/auth/middleware"
	authrepo "github.com/roomify-app/roomify-backend/internal/auth/repository"
	authservice "github.com/roomify-app/roomify-backend/internal/auth/service"
	"github.com/roomify-app/roomify-backend/internal/hosting"
	hostinghttp "github.com/roomify-app/roomify-backend/internal/hosting/http"
	projectshttp "github.com/roomify-app/roomify-backend/internal/projects/http"
	"github.com/roomify-app/roomify-backend/internal/projects/repository"
	"github.com/roomify-app/roomify-backend/internal/storage/kv"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Log         *logrus.Logger

	Store   kv.Store
	Hosting *hosting.Namespaces

	// Verifier may be nil; requests then need the dev header.
	Verifier       authmw.TokenVerifier
	AllowDevHeader bool

	CORSOrigins   []string
	SaveRateLimit float64
	SaveBurst     int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestIDMiddleware(log))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier, authmw.Options{
		AllowDevHeader: dep.AllowDevHeader,
		Logger:         log,
	}))

	authHandler := authhttp.New(authservice.NewAuthService(authrepo.NewUserRepository(dep.Store)), log)
	authHandler.Register(api.Group("/auth"))

	limiter := middleware.NewUserRateLimiter(dep.SaveRateLimit, dep.SaveBurst)
	projectsHandler := projectshttp.New(repository.NewRepo(dep.Store, log), log)
	projectsHandler.Register(api.Group("/projects"), limiter.Middleware(auth.UserFirebaseUID))

	hostingHandler := hostinghttp.New(dep.Hosting, log)
	hostingHandler.Register(api.Group("/hosting"))
	hostingHandler.RegisterPublic(r)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-User-Id", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
