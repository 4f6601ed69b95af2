// Copyright 2025 Translathon Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/translathon/translathon/internal/engine/repo"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/ctx"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/httpx/middleware"
)

type Router struct {
	Http     *httpx.Http
	Ctx      *ctx.Context
	Verifier service.GoogleTokenVerifier
}

func NewRouter(httpConf *httpx.Http, appCtx *ctx.Context, verifier service.GoogleTokenVerifier) *Router {
	return &Router{
		Http:     httpConf,
		Ctx:      appCtx,
		Verifier: verifier,
	}
}

// Register wires middleware and every route group onto the app.
func (rt *Router) Register(app *fiber.App) {
	app.Use(middleware.CorsMiddleware())
	app.Use(middleware.ExceptionMiddleware)
	app.Use(middleware.MetricsMiddleware())
	app.Use(middleware.AccessLogMiddleware(rt.Http))

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	rt.healthRouter(app)

	versions := repo.NewUserRepo(rt.Ctx)
	auth := middleware.Authorization(rt.Http.Auth, versions)
	optionalAuth := middleware.OptionalAuthorization(rt.Http.Auth, versions)
	adminOnly := requireAdmin()

	rt.authRouter(app, auth)
	rt.userRouter(app)
	rt.adminRouter(app)
	rt.challengeRouter(app, auth, optionalAuth, adminOnly)
	rt.participantRouter(app, auth)
	rt.workRouter(app, auth, optionalAuth)
	rt.feedbackRouter(app, auth)
	rt.likeRouter(app, auth, optionalAuth)
	rt.notificationRouter(app, auth)
}

// requireAdmin gates a route on an authenticated admin identity; it
// must run after the Authorization middleware.
func requireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin() {
			return httpx.WithMessage(c, fiber.StatusForbidden, "admin privileges required")
		}
		return c.Next()
	}
}
