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

package bootstrap

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/translathon/translathon/internal/engine/conf"
	"github.com/translathon/translathon/internal/engine/router"
	"github.com/translathon/translathon/internal/engine/service"
	"github.com/translathon/translathon/pkg/cache"
	"github.com/translathon/translathon/pkg/ctx"
	"github.com/translathon/translathon/pkg/database"
	"github.com/translathon/translathon/pkg/httpx"
	"github.com/translathon/translathon/pkg/log"
	"github.com/translathon/translathon/pkg/oauth"
)

type App struct {
	HttpApp *fiber.App
	AppConf conf.AppConfig
	AppCtx  *ctx.Context
}

// Bootstrap wires config, logger, stores and the router into a runnable
// app, returning a cleanup hook for shutdown.
func Bootstrap(configFile string) (*App, func(), error) {
	appConf := conf.NewConf(configFile)

	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, nil, err
	}

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, nil, err
	}

	appCtx := ctx.NewContext(context.Background(), db, redisClient, logger.Sugar())

	var verifier service.GoogleTokenVerifier
	if appConf.Google.ClientID != "" {
		gv, err := oauth.NewGoogleVerifier(context.Background(), appConf.Google)
		if err != nil {
			return nil, nil, err
		}
		verifier = gv
	} else {
		log.Warn("google client id not configured, social login disabled")
	}

	httpApp := httpx.NewFiberApp(appConf.Http)
	rt := router.NewRouter(&appConf.Http, appCtx, verifier)
	rt.Register(httpApp)

	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = logger.Sync()
	}

	app := &App{
		HttpApp: httpApp,
		AppConf: appConf,
		AppCtx:  appCtx,
	}
	return app, cleanup, nil
}
